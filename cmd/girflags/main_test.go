package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindUserConfig(t *testing.T) {
	t.Setenv("GIRFLAGS_CLI_CONFIG", "")

	assert.Equal(t, "a.toml", findUserConfig([]string{"codegen", "--cli-config", "a.toml"}))
	assert.Equal(t, "b.yaml", findUserConfig([]string{"--cli-config=b.yaml", "codegen"}))
	assert.Equal(t, "", findUserConfig([]string{"codegen", "--config", "Gir.toml"}))
	assert.Equal(t, "", findUserConfig([]string{"--cli-config"}))

	t.Setenv("GIRFLAGS_CLI_CONFIG", "env.json")
	assert.Equal(t, "env.json", findUserConfig(nil))
}
