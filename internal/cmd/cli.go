package cmd

import "github.com/Alia5/girflags/internal/log"

// CLI is the root command tree parsed by kong.
type CLI struct {
	CLIConfig string     `name:"cli-config" help:"JSON/YAML/TOML file with flag defaults" env:"GIRFLAGS_CLI_CONFIG"`
	Log       LogOptions `embed:"" prefix:"log."`

	Codegen Codegen       `cmd:"" help:"Generate Rust bindings for the configured flags types"`
	Inspect Inspect       `cmd:"" help:"Show how configured objects resolve against the library"`
	Config  ConfigCommand `cmd:"" help:"Configuration helpers"`
}

type LogOptions struct {
	Level   string `help:"Log level" default:"info" enum:"trace,debug,info,warn,error" env:"GIRFLAGS_LOG_LEVEL"`
	File    string `help:"Write logs to this file; the console then only shows errors" env:"GIRFLAGS_LOG_FILE"`
	Format  string `help:"Log record format" default:"text" enum:"text,json" env:"GIRFLAGS_LOG_FORMAT"`
	RawFile string `name:"raw-file" help:"Dump every generated fragment to this file" env:"GIRFLAGS_LOG_RAW_FILE"`
}

func (o LogOptions) Options() log.Options {
	return log.Options{
		Level:  o.Level,
		File:   o.File,
		Format: o.Format,
	}
}
