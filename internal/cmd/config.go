package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/Alia5/girflags/internal/config"
	"github.com/Alia5/girflags/internal/configpaths"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Init ConfigInit `cmd:"" help:"Generate a configuration template"`
}

// ConfigInit scaffolds either the flag defaults for a command or a project
// configuration (Gir.toml).
type ConfigInit struct {
	Command string `arg:"" name:"command" help:"What to scaffold: codegen flag defaults or a project file" enum:"codegen,inspect,project"`
	Format  string `help:"Output format (json, yaml, toml). Project files are always toml"`
	Library string `help:"Library name used in the project template" default:"Gtk"`
	Output  string `help:"Destination file path (defaults to current directory)"`
	Force   bool   `help:"Overwrite if the file already exists"`
}

// Run renders the template and writes it to the destination.
func (c *ConfigInit) Run() error {
	format, err := c.format()
	if err != nil {
		return err
	}

	var root map[string]any
	switch c.Command {
	case "codegen":
		root = buildMapFromStruct(reflect.TypeOf(Codegen{}))
	case "inspect":
		root = buildMapFromStruct(reflect.TypeOf(Inspect{}))
	case "project":
		root = config.Template(c.Library)
	default:
		return errors.New("unknown command; expected 'codegen', 'inspect' or 'project'")
	}

	dest := c.Output
	if dest == "" {
		dest = c.defaultDest(format)
	}

	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}

	data, err := marshal(format, root)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

func (c *ConfigInit) format() (string, error) {
	format := normalizeFormat(c.Format)
	if c.Command == "project" {
		if format != "" && format != "toml" {
			return "", fmt.Errorf("project configuration is toml only, got %s", c.Format)
		}
		return "toml", nil
	}

	switch {
	case c.Format == "":
		return "json", nil
	case format == "":
		return "", fmt.Errorf("unsupported format: %s", c.Format)
	}
	return format, nil
}

func (c *ConfigInit) defaultDest(format string) string {
	if c.Command == "project" {
		return "Gir.toml"
	}
	return c.Command + "." + format
}

func marshal(format string, root map[string]any) ([]byte, error) {
	switch format {
	case "json":
		return json.MarshalIndent(root, "", "  ")
	case "yaml":
		return yaml.Marshal(root)
	case "toml":
		return toml.Marshal(root)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

func normalizeFormat(f string) string {
	switch strings.ToLower(f) {
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return ""
	}
}

func lowerCamel(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// buildMapFromStruct walks kong flag tags and collects each flag's default.
func buildMapFromStruct(t reflect.Type) map[string]any {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := map[string]any{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("kong") == "-" {
			continue
		}
		if _, ok := f.Tag.Lookup("cmd"); ok {
			continue
		}

		if _, ok := f.Tag.Lookup("embed"); ok {
			sub := buildMapFromStruct(f.Type)
			if name := strings.TrimSuffix(f.Tag.Get("prefix"), "."); name != "" {
				out[name] = sub
			} else {
				for k, v := range sub {
					out[k] = v
				}
			}
			continue
		}

		key := f.Tag.Get("name")
		if key == "" {
			key = lowerCamel(f.Name)
		}
		if val := defaultValueForField(f.Type, f.Tag.Get("default")); val != nil {
			out[key] = val
		}
	}
	return out
}

func defaultValueForField(t reflect.Type, def string) any {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return def
	case reflect.Bool:
		b, _ := strconv.ParseBool(def)
		return b
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, _ := strconv.ParseInt(def, 10, 64)
		return n
	case reflect.Struct:
		return buildMapFromStruct(t)
	default:
		return nil
	}
}
