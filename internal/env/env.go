// Package env bundles the read-only inputs of one generation pass.
package env

import (
	"log/slog"

	"github.com/Alia5/girflags/internal/config"
	"github.com/Alia5/girflags/internal/library"
	"github.com/Alia5/girflags/internal/log"
)

type Env struct {
	Library *library.Library
	Config  *config.Config
	Logger  *slog.Logger
	Raw     log.RawLogger
	// Source names the descriptor the library was loaded from; it ends up in
	// the generated file header.
	Source string
}

// New returns an Env with no-op loggers; set Logger/Raw to observe the pass.
func New(lib *library.Library, cfg *config.Config) *Env {
	return &Env{
		Library: lib,
		Config:  cfg,
		Logger:  log.Discard(),
		Raw:     log.NewRaw(nil),
	}
}

// IsTooLowVersion reports whether v is at or below the configured minimum,
// meaning the feature it gates is always available.
func (e *Env) IsTooLowVersion(v *library.Version) bool {
	if v == nil {
		return false
	}
	return v.Compare(e.Config.MinCfgVersion) <= 0
}
