package library

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Version is a library version as written in descriptors and configuration,
// e.g. "3.10" or "2.44.1". A nil *Version means "no version".
type Version struct {
	sv *semver.Version
}

// ParseVersion parses a dotted version string. Missing minor/patch parts default to zero.
func ParseVersion(s string) (*Version, error) {
	sv, err := semver.NewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return &Version{sv: sv}, nil
}

// MustParseVersion is like ParseVersion but panics on malformed input.
func MustParseVersion(s string) *Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *Version) Major() uint64 { return v.semver().Major() }
func (v *Version) Minor() uint64 { return v.semver().Minor() }
func (v *Version) Patch() uint64 { return v.semver().Patch() }

// Compare returns -1, 0 or 1. A nil version sorts before every real version.
func (v *Version) Compare(o *Version) int {
	switch {
	case v == nil && o == nil:
		return 0
	case v == nil:
		return -1
	case o == nil:
		return 1
	}
	return v.semver().Compare(o.semver())
}

// Feature returns the cargo feature name gating this version, e.g. "v3_10".
func (v *Version) Feature() string {
	if v.Patch() == 0 {
		return fmt.Sprintf("v%d_%d", v.Major(), v.Minor())
	}
	return fmt.Sprintf("v%d_%d_%d", v.Major(), v.Minor(), v.Patch())
}

// ToCfg returns the cfg predicate for this version: feature = "v3_10".
func (v *Version) ToCfg() string {
	return fmt.Sprintf("feature = %q", v.Feature())
}

func (v *Version) String() string {
	if v == nil {
		return ""
	}
	if v.Patch() == 0 {
		return fmt.Sprintf("%d.%d", v.Major(), v.Minor())
	}
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

func (v *Version) semver() *semver.Version {
	if v == nil || v.sv == nil {
		return semver.New(0, 0, 0, "", "")
	}
	return v.sv
}

// UnmarshalText lets TOML decoders fill *Version fields directly.
func (v *Version) UnmarshalText(b []byte) error {
	parsed, err := ParseVersion(string(b))
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}

func (v *Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalYAML accepts both quoted ("3.10") and bare (3.10) scalars.
func (v *Version) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: version must be a scalar", node.Line)
	}
	return v.UnmarshalText([]byte(node.Value))
}
