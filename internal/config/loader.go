package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Alia5/girflags/internal/library"
)

const (
	DefaultAutoPath = "src/auto"
	DefaultGirsDir  = "gir-files"
)

type configFile struct {
	Options  optionsFile  `toml:"options"`
	Generate []string     `toml:"generate"`
	Manual   []string     `toml:"manual"`
	Ignore   []string     `toml:"ignore"`
	Object   []objectFile `toml:"object"`
}

type optionsFile struct {
	Library               string           `toml:"library"`
	Version               string           `toml:"version"`
	MinCfgVersion         *library.Version `toml:"min_cfg_version"`
	TargetPath            string           `toml:"target_path"`
	AutoPath              string           `toml:"auto_path"`
	GirsDir               string           `toml:"girs_dir"`
	MakeBackup            bool             `toml:"make_backup"`
	GenerateSafetyAsserts bool             `toml:"generate_safety_asserts"`
	DeprecateByMinVersion bool             `toml:"deprecate_by_min_version"`
}

type objectFile struct {
	Name    string       `toml:"name"`
	Status  string       `toml:"status"`
	MustUse bool         `toml:"must_use"`
	Member  []memberFile `toml:"member"`
}

type memberFile struct {
	Name              string           `toml:"name"`
	Pattern           string           `toml:"pattern"`
	Ignore            bool             `toml:"ignore"`
	Version           *library.Version `toml:"version"`
	DeprecatedVersion *library.Version `toml:"deprecated_version"`
}

// LoadFile reads a project configuration. Relative paths inside it are
// resolved against the directory containing the file.
func LoadFile(path string, logger *slog.Logger) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := Parse(string(data), filepath.Dir(path), logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML configuration data. Unknown keys are logged, not rejected.
func Parse(data, baseDir string, logger *slog.Logger) (*Config, error) {
	var cf configFile
	md, err := toml.Decode(data, &cf)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	for _, key := range md.Undecoded() {
		logger.Warn("Unknown configuration key", "key", key.String())
	}

	if cf.Options.Library == "" {
		return nil, errors.New("options.library is required")
	}

	cfg := &Config{
		Library:               cf.Options.Library,
		Version:               cf.Options.Version,
		MinCfgVersion:         cf.Options.MinCfgVersion,
		TargetPath:            resolvePath(baseDir, cf.Options.TargetPath, "."),
		AutoPath:              cf.Options.AutoPath,
		GirsDir:               resolvePath(baseDir, cf.Options.GirsDir, DefaultGirsDir),
		MakeBackup:            cf.Options.MakeBackup,
		GenerateSafetyAsserts: cf.Options.GenerateSafetyAsserts,
		DeprecateByMinVersion: cf.Options.DeprecateByMinVersion,
	}
	if cfg.AutoPath == "" {
		cfg.AutoPath = DefaultAutoPath
	}
	// min_cfg_version defaults to the library version being targeted.
	if cfg.MinCfgVersion == nil && cfg.Version != "" {
		v, err := library.ParseVersion(cfg.Version)
		if err != nil {
			return nil, fmt.Errorf("options.version: %w", err)
		}
		cfg.MinCfgVersion = v
	}

	objects, err := cf.objects()
	if err != nil {
		return nil, err
	}
	cfg.Objects = objects
	return cfg, nil
}

// AutoDir is the directory generated files are written to.
func (c *Config) AutoDir() string {
	if filepath.IsAbs(c.AutoPath) {
		return c.AutoPath
	}
	return filepath.Join(c.TargetPath, c.AutoPath)
}

// LibraryPath is the default descriptor location for the configured library.
func (c *Config) LibraryPath() string {
	return filepath.Join(c.GirsDir, c.Library+".yaml")
}

func (cf *configFile) objects() ([]*GObject, error) {
	var errs []error
	seen := make(map[string]bool)
	var objects []*GObject

	add := func(obj *GObject) {
		if seen[obj.Name] {
			errs = append(errs, fmt.Errorf("object %q configured more than once", obj.Name))
			return
		}
		seen[obj.Name] = true
		objects = append(objects, obj)
	}

	for _, list := range []struct {
		names  []string
		status Status
	}{
		{cf.Generate, StatusGenerate},
		{cf.Manual, StatusManual},
		{cf.Ignore, StatusIgnore},
	} {
		for _, name := range list.names {
			add(&GObject{Name: name, Status: list.status})
		}
	}

	for _, of := range cf.Object {
		obj, err := of.build()
		if err != nil {
			errs = append(errs, fmt.Errorf("object %q: %w", of.Name, err))
			continue
		}
		add(obj)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	slices.SortFunc(objects, func(a, b *GObject) int {
		return strings.Compare(a.Name, b.Name)
	})
	return objects, nil
}

func (of *objectFile) build() (*GObject, error) {
	if of.Name == "" {
		return nil, errors.New("missing name")
	}

	status, err := ParseStatus(of.Status)
	if err != nil {
		return nil, err
	}

	obj := &GObject{
		Name:    of.Name,
		Status:  status,
		MustUse: of.MustUse,
	}
	for i, mf := range of.Member {
		ident, err := mf.ident()
		if err != nil {
			return nil, fmt.Errorf("member #%d: %w", i+1, err)
		}
		obj.Members = append(obj.Members, Member{
			Ident:             ident,
			Ignore:            mf.Ignore,
			Version:           mf.Version,
			DeprecatedVersion: mf.DeprecatedVersion,
		})
	}
	return obj, nil
}

func (mf *memberFile) ident() (Ident, error) {
	switch {
	case mf.Name != "" && mf.Pattern != "":
		return Ident{}, errors.New("name and pattern are mutually exclusive")
	case mf.Pattern != "":
		re, err := regexp.Compile(mf.Pattern)
		if err != nil {
			return Ident{}, fmt.Errorf("bad pattern: %w", err)
		}
		return Ident{Pattern: re}, nil
	case mf.Name != "":
		return Ident{Name: mf.Name}, nil
	default:
		return Ident{}, errors.New("name or pattern is required")
	}
}

func resolvePath(baseDir, p, def string) string {
	if p == "" {
		p = def
	}
	if filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}
