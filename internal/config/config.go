// Package config loads the project configuration (a Gir.toml style file)
// that decides which types are generated and how their members are
// filtered or annotated.
//
// Example:
//
//	[options]
//	library = "Gtk"
//	version = "3.0"
//	min_cfg_version = "3.0"
//	target_path = "."
//	make_backup = true
//	generate_safety_asserts = true
//
//	generate = ["Gtk.Align"]
//
//	[[object]]
//	name = "Gtk.AccelFlags"
//	status = "generate"
//	must_use = true
//	    [[object.member]]
//	    name = "locked"
//	    version = "3.12"
//	    [[object.member]]
//	    pattern = "^private_.*"
//	    ignore = true
package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/Alia5/girflags/internal/library"
)

// Status tells whether code is generated for an object.
type Status int

const (
	StatusGenerate Status = iota
	StatusManual
	StatusIgnore
)

func (s Status) String() string {
	switch s {
	case StatusGenerate:
		return "generate"
	case StatusManual:
		return "manual"
	case StatusIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

// NeedGenerate reports whether the generators should emit the object.
func (s Status) NeedGenerate() bool {
	return s == StatusGenerate
}

func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(s) {
	case "", "generate":
		return StatusGenerate, nil
	case "manual":
		return StatusManual, nil
	case "ignore":
		return StatusIgnore, nil
	default:
		return StatusIgnore, fmt.Errorf("unknown status %q", s)
	}
}

// GObject is the override record for one library type.
type GObject struct {
	Name    string
	Status  Status
	MustUse bool
	Members Members
	// TypeID is set by Resolve when the name is found in the library.
	TypeID *library.TypeID
}

// Config is the fully decoded project configuration.
type Config struct {
	Library               string
	Version               string
	MinCfgVersion         *library.Version
	TargetPath            string
	AutoPath              string
	GirsDir               string
	MakeBackup            bool
	GenerateSafetyAsserts bool
	DeprecateByMinVersion bool

	// Objects is sorted by name so generation order is stable.
	Objects []*GObject
}

// Object looks up an object by full name.
func (c *Config) Object(name string) (*GObject, bool) {
	i, found := slices.BinarySearchFunc(c.Objects, name, func(o *GObject, n string) int {
		return strings.Compare(o.Name, n)
	})
	if !found {
		return nil, false
	}
	return c.Objects[i], true
}

// Resolve binds every object to its library type. Names that cannot be
// resolved are reported and left without a TypeID; the generators skip them.
func (c *Config) Resolve(lib *library.Library, logger *slog.Logger) error {
	main := lib.Main()
	if main == nil {
		return fmt.Errorf("library is empty")
	}
	if main.Name != c.Library {
		return fmt.Errorf("configured library %q does not match main namespace %q", c.Library, main.Name)
	}

	for _, obj := range c.Objects {
		id, ok := lib.FindType(obj.Name)
		if !ok {
			logger.Warn("Configured object not found in library", "object", obj.Name)
			continue
		}
		obj.TypeID = &id
	}
	return nil
}
