package generator

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Alia5/girflags/internal/codegen/filesaver"
	"github.com/Alia5/girflags/internal/codegen/flags"
	"github.com/Alia5/girflags/internal/codegen/general"
	"github.com/Alia5/girflags/internal/env"
)

const modFileName = "mod.rs"

type Generator struct {
	env       *env.Env
	outputDir string
}

// ModuleGenerator writes one generated file into rootPath and returns the
// lines its parent mod.rs must contain.
type ModuleGenerator func(e *env.Env, rootPath string) ([]string, error)

var generators = map[string]ModuleGenerator{
	flags.Module: flags.Generate,
}

// Modules lists the registered module names in generation order.
func Modules() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func New(e *env.Env, outputDir string) *Generator {
	return &Generator{
		env:       e,
		outputDir: outputDir,
	}
}

func (g *Generator) GenAll() error {
	return g.run(Modules())
}

func (g *Generator) GenerateModule(module string) error {
	if _, ok := generators[module]; !ok {
		return fmt.Errorf("unsupported module '%s' (supported: %v)", module, Modules())
	}
	return g.run([]string{module})
}

func (g *Generator) run(modules []string) error {
	logger := g.env.Logger
	logger.Info("Generating modules", "modules", modules, "output", g.outputDir)

	var modRs []string
	for _, module := range modules {
		logger.Debug("Generating module", "module", module)
		lines, err := generators[module](g.env, g.outputDir)
		if err != nil {
			return fmt.Errorf("generate %s: %w", module, err)
		}
		modRs = append(modRs, lines...)
	}

	if err := g.writeModRs(modRs); err != nil {
		return err
	}

	logger.Info("Code generation complete", "modules", len(modules), "output", g.outputDir)
	return nil
}

func (g *Generator) writeModRs(directives []string) error {
	path := filepath.Join(g.outputDir, modFileName)

	err := filesaver.SaveToFile(path, g.env.Config.MakeBackup, func(w io.Writer) error {
		lines, err := general.StartComments(g.env)
		if err != nil {
			return err
		}
		lines = append(lines, directives...)
		_, err = io.WriteString(w, strings.Join(lines, "\n")+"\n")
		return err
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", modFileName, err)
	}

	g.env.Logger.Debug("Wrote module file", "file", path, "directives", len(directives))
	return nil
}
