package config

import (
	"regexp"

	"github.com/Alia5/girflags/internal/library"
)

// Ident selects members either by exact name or by regular expression.
type Ident struct {
	Name    string
	Pattern *regexp.Regexp
}

func (i Ident) Matches(name string) bool {
	if i.Pattern != nil {
		return i.Pattern.MatchString(name)
	}
	return i.Name == name
}

func (i Ident) String() string {
	if i.Pattern != nil {
		return "/" + i.Pattern.String() + "/"
	}
	return i.Name
}

// Member is an override for one or more members of a type.
type Member struct {
	Ident             Ident
	Ignore            bool
	Version           *library.Version
	DeprecatedVersion *library.Version
}

// Members keeps overrides in configuration order.
type Members []Member

// Matched returns every override applying to name, in configuration order.
func (ms Members) Matched(name string) Members {
	var out Members
	for _, m := range ms {
		if m.Ident.Matches(name) {
			out = append(out, m)
		}
	}
	return out
}

// Ignored reports whether any of the overrides excludes the member.
func (ms Members) Ignored() bool {
	for _, m := range ms {
		if m.Ignore {
			return true
		}
	}
	return false
}

// Version returns the first version set by an override.
func (ms Members) Version() *library.Version {
	for _, m := range ms {
		if m.Version != nil {
			return m.Version
		}
	}
	return nil
}

// DeprecatedVersion returns the first deprecation version set by an override.
func (ms Members) DeprecatedVersion() *library.Version {
	for _, m := range ms {
		if m.DeprecatedVersion != nil {
			return m.DeprecatedVersion
		}
	}
	return nil
}
