// Package general renders the pieces shared by every generated file: the
// header, `use` declarations and the version/deprecation attribute guards.
//
// Every renderer returns lines without trailing newlines. The `commented`
// flag prefixes attributes with "//" for declarations that are emitted
// commented out.
package general

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Alia5/girflags/internal/codegen/common"
	"github.com/Alia5/girflags/internal/codegen/imports"
	"github.com/Alia5/girflags/internal/env"
	"github.com/Alia5/girflags/internal/library"
)

const indentUnit = "    "

func tabs(indent int) string {
	return strings.Repeat(indentUnit, indent)
}

func commentPrefix(commented bool) string {
	if commented {
		return "//"
	}
	return ""
}

// StartComments is the generated-file header.
func StartComments(e *env.Env) ([]string, error) {
	version, err := common.GetVersion()
	if err != nil {
		return nil, err
	}

	lines := []string{fmt.Sprintf("// This file was generated by girflags (%s)", version)}
	if e.Source != "" {
		lines = append(lines, "// from "+filepath.Base(e.Source))
	}
	return append(lines, "// DO NOT EDIT"), nil
}

// Uses renders the import block, preceded by a blank line.
func Uses(e *env.Env, imps *imports.Imports) []string {
	lines := []string{""}
	for _, imp := range imps.Iter() {
		lines = append(lines, VersionCondition(e, imp.Version, false, 0)...)
		lines = append(lines, fmt.Sprintf("use %s;", imp.Name))
	}
	return lines
}

// VersionConditionString returns the cfg guard for version, if one is needed.
// Versions at or below min_cfg_version are always available and need none.
func VersionConditionString(e *env.Env, version *library.Version, commented bool, indent int) (string, bool) {
	if version == nil || version.Compare(e.Config.MinCfgVersion) <= 0 {
		return "", false
	}

	return fmt.Sprintf("%s%s#[cfg(any(%s, feature = \"dox\"))]",
		tabs(indent), commentPrefix(commented), version.ToCfg()), true
}

// VersionCondition is VersionConditionString as a line slice.
func VersionCondition(e *env.Env, version *library.Version, commented bool, indent int) []string {
	if s, ok := VersionConditionString(e, version, commented, indent); ok {
		return []string{s}
	}
	return nil
}

// CfgDeprecatedString returns the deprecation attribute for deprecated, if any.
func CfgDeprecatedString(e *env.Env, deprecated *library.Version, commented bool, indent int) (string, bool) {
	if deprecated == nil {
		return "", false
	}

	prefix := tabs(indent) + commentPrefix(commented)
	if e.Config.DeprecateByMinVersion && e.IsTooLowVersion(deprecated) {
		return prefix + "#[deprecated]", true
	}
	return fmt.Sprintf("%s#[cfg_attr(%s, deprecated = \"Since %s\")]",
		prefix, deprecated.ToCfg(), deprecated), true
}

// CfgDeprecated is CfgDeprecatedString as a line slice.
func CfgDeprecated(e *env.Env, deprecated *library.Version, commented bool, indent int) []string {
	if s, ok := CfgDeprecatedString(e, deprecated, commented, indent); ok {
		return []string{s}
	}
	return nil
}

// Guards renders the deprecation guard followed by the version guard.
func Guards(e *env.Env, deprecated, version *library.Version, indent int) []string {
	lines := CfgDeprecated(e, deprecated, false, indent)
	return append(lines, VersionCondition(e, version, false, indent)...)
}
