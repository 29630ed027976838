package cmd

import (
	"fmt"
	"log/slog"

	"github.com/Alia5/girflags/internal/codegen/generator"
	"github.com/Alia5/girflags/internal/config"
	"github.com/Alia5/girflags/internal/env"
	"github.com/Alia5/girflags/internal/library"
	"github.com/Alia5/girflags/internal/log"
)

type Codegen struct {
	Config  string `help:"Project configuration file" default:"Gir.toml" type:"path" env:"GIRFLAGS_CONFIG"`
	Library string `help:"Library descriptor (YAML). Defaults to <girs_dir>/<library>.yaml" type:"path" env:"GIRFLAGS_LIBRARY"`
	Output  string `help:"Directory for generated files. Overrides target_path/auto_path" type:"path" env:"GIRFLAGS_OUTPUT"`
	Module  string `help:"Module to generate: flags, or 'all'" default:"all" enum:"flags,all" env:"GIRFLAGS_MODULE"`
}

// Run is called by Kong when the codegen command is executed.
func (c *Codegen) Run(logger *slog.Logger, raw log.RawLogger) error {
	logger.Info("Starting girflags code generation", "config", c.Config, "module", c.Module)

	e, err := loadEnv(c.Config, c.Library, logger)
	if err != nil {
		return err
	}
	if raw != nil {
		e.Raw = raw
	}

	output := c.Output
	if output == "" {
		output = e.Config.AutoDir()
	}

	gen := generator.New(e, output)
	if c.Module == "all" {
		return gen.GenAll()
	}
	return gen.GenerateModule(c.Module)
}

// loadEnv reads the project configuration and the library descriptor and
// binds the configured objects to library types.
func loadEnv(configPath, libraryPath string, logger *slog.Logger) (*env.Env, error) {
	cfg, err := config.LoadFile(configPath, logger)
	if err != nil {
		return nil, err
	}

	if libraryPath == "" {
		libraryPath = cfg.LibraryPath()
	}
	logger.Debug("Loading library", "file", libraryPath)
	lib, err := library.LoadFile(libraryPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.Resolve(lib, logger); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	logger.Info("Loaded library", "namespaces", len(lib.Namespaces), "objects", len(cfg.Objects))

	e := env.New(lib, cfg)
	e.Logger = logger
	e.Source = libraryPath
	return e, nil
}
