// Package flags generates flags.rs: a bitflags! type for every configured
// bitfield of the main namespace, with its FFI conversions and, for types
// that have a GType, its GValue glue.
package flags

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Alia5/girflags/internal/codegen/filesaver"
	"github.com/Alia5/girflags/internal/codegen/general"
	"github.com/Alia5/girflags/internal/codegen/imports"
	"github.com/Alia5/girflags/internal/config"
	"github.com/Alia5/girflags/internal/env"
	"github.com/Alia5/girflags/internal/library"
)

const (
	Module   = "flags"
	fileName = "flags.rs"
)

var (
	baseImports = []string{"ffi", "glib::translate::*"}

	valueImports = []string{
		"glib::Type",
		"glib::StaticType",
		"glib::value::Value",
		"glib::value::SetValue",
		"glib::value::FromValue",
		"glib::value::FromValueOptional",
		"gobject_ffi",
	}
)

type selected struct {
	obj   *config.GObject
	flags *library.Bitfield
}

// Generate writes flags.rs into rootPath and returns the directives the
// parent mod.rs needs, in emission order.
func Generate(e *env.Env, rootPath string) ([]string, error) {
	path := filepath.Join(rootPath, fileName)

	var modRs []string
	err := filesaver.SaveToFile(path, e.Config.MakeBackup, func(w io.Writer) error {
		var err error
		modRs, err = Render(e, w)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.Logger.Info("Generated flags", "file", path)
	return modRs, nil
}

// Render writes the whole flags file to w. Nothing is written when a type
// fails to render.
func Render(e *env.Env, w io.Writer) ([]string, error) {
	selection := selectFlags(e)

	lines, err := general.StartComments(e)
	if err != nil {
		return nil, err
	}
	lines = append(lines, general.Uses(e, collectImports(selection))...)
	lines = append(lines, "")

	var modRs []string
	for i, s := range selection {
		if i == 0 {
			modRs = append(modRs, "\nmod flags;")
		}
		if cfg, ok := general.VersionConditionString(e, s.flags.Version, false, 0); ok {
			modRs = append(modRs, cfg)
		}
		modRs = append(modRs, fmt.Sprintf("pub use self::flags::%s;", s.flags.Name))

		fragment, err := generateFlags(e, s.flags, s.obj)
		if err != nil {
			return nil, err
		}
		e.Logger.Debug("Rendered flags type", "type", s.obj.Name, "lines", len(fragment))
		e.Raw.Log(Module, s.flags.Name, []byte(strings.Join(fragment, "\n")))

		lines = append(lines, fragment...)
	}

	if _, err := io.WriteString(w, strings.Join(lines, "\n")+"\n"); err != nil {
		return nil, err
	}
	return modRs, nil
}

// selectFlags keeps objects marked for generation that resolve to a
// bitfield of the main namespace, in configuration order.
func selectFlags(e *env.Env) []selected {
	var out []selected
	for _, obj := range e.Config.Objects {
		if !obj.Status.NeedGenerate() || obj.TypeID == nil || !obj.TypeID.IsMain() {
			continue
		}

		flags, ok := e.Library.Type(*obj.TypeID).(*library.Bitfield)
		if !ok {
			continue
		}
		out = append(out, selected{obj: obj, flags: flags})
	}
	return out
}

// collectImports adds the GValue imports once for the whole file if any
// selected type is registered with the type system.
func collectImports(selection []selected) *imports.Imports {
	imps := imports.New()
	imps.AddAll(nil, baseImports...)

	needValue := slices.ContainsFunc(selection, func(s selected) bool {
		return s.flags.HasGetType()
	})
	if needValue {
		imps.AddAll(nil, valueImports...)
	}
	return imps
}

// Selected returns the configured names of the types Render would emit.
func Selected(e *env.Env) []string {
	var names []string
	for _, s := range selectFlags(e) {
		names = append(names, s.obj.Name)
	}
	return names
}
