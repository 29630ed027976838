package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/girflags/internal/codegen/flags"
	"github.com/Alia5/girflags/internal/env"
	"github.com/Alia5/girflags/internal/library"
)

// Inspect prints every configured object with what the library says about it.
type Inspect struct {
	Config  string `help:"Project configuration file" default:"Gir.toml" type:"path" env:"GIRFLAGS_CONFIG"`
	Library string `help:"Library descriptor (YAML). Defaults to <girs_dir>/<library>.yaml" type:"path" env:"GIRFLAGS_LIBRARY"`
	Format  string `help:"Output format" enum:"json,yaml" default:"json"`
}

type objectReport struct {
	Name      string `json:"name" yaml:"name"`
	Status    string `json:"status" yaml:"status"`
	Kind      string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Version   string `json:"version,omitempty" yaml:"version,omitempty"`
	Members   int    `json:"members,omitempty" yaml:"members,omitempty"`
	GetType   string `json:"getType,omitempty" yaml:"getType,omitempty"`
	Resolved  bool   `json:"resolved" yaml:"resolved"`
	Generated bool   `json:"generated" yaml:"generated"`
}

func (c *Inspect) Run(logger *slog.Logger) error {
	e, err := loadEnv(c.Config, c.Library, logger)
	if err != nil {
		return err
	}
	return writeReport(os.Stdout, c.Format, inspect(e))
}

func inspect(e *env.Env) []objectReport {
	generated := flags.Selected(e)

	reports := make([]objectReport, 0, len(e.Config.Objects))
	for _, obj := range e.Config.Objects {
		r := objectReport{
			Name:      obj.Name,
			Status:    obj.Status.String(),
			Generated: slices.Contains(generated, obj.Name),
		}
		if obj.TypeID != nil {
			r.Resolved = true
			describe(&r, e.Library.Type(*obj.TypeID))
		}
		reports = append(reports, r)
	}
	return reports
}

func describe(r *objectReport, t library.Type) {
	r.Kind = t.Kind().String()
	switch t := t.(type) {
	case *library.Bitfield:
		r.Version = t.Version.String()
		r.Members = len(t.Members)
		r.GetType = t.GlibGetType
	case *library.Enumeration:
		r.Version = t.Version.String()
		r.Members = len(t.Members)
	case *library.Record:
		r.Version = t.Version.String()
	}
}

func writeReport(w io.Writer, format string, reports []objectReport) error {
	var data []byte
	var err error
	switch format {
	case "yaml":
		data, err = yaml.Marshal(reports)
	case "json", "":
		data, err = json.MarshalIndent(reports, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = w.Write(data)
	return err
}
