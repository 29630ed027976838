package flags

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"fortio.org/safecast"

	"github.com/Alia5/girflags/internal/codegen/general"
	"github.com/Alia5/girflags/internal/config"
	"github.com/Alia5/girflags/internal/env"
	"github.com/Alia5/girflags/internal/library"
)

// ErrMalformedMember is returned when a member value is not an integer literal.
var ErrMalformedMember = errors.New("malformed flags member value")

const blocksTemplate = `
{{- define "toGlib" -}}
#[doc(hidden)]
impl ToGlib for {{.Name}} {
    type GlibType = ffi::{{.CType}};

    fn to_glib(&self) -> ffi::{{.CType}} {
        ffi::{{.CType}}::from_bits_truncate(self.bits())
    }
}
{{end}}

{{- define "fromGlib" -}}
#[doc(hidden)]
impl FromGlib<ffi::{{.CType}}> for {{.Name}} {
    fn from_glib(value: ffi::{{.CType}}) -> {{.Name}} {
{{- if .SafetyAsserts}}
        skip_assert_initialized!();
{{- end}}
        {{.Name}}::from_bits_truncate(value.bits())
    }
}
{{end}}

{{- define "staticType" -}}
impl StaticType for {{.Name}} {
    fn static_type() -> Type {
        unsafe { from_glib(ffi::{{.GetType}}()) }
    }
}
{{end}}

{{- define "fromValueOptional" -}}
impl<'a> FromValueOptional<'a> for {{.Name}} {
    unsafe fn from_value_optional(value: &Value) -> Option<Self> {
        Some(FromValue::from_value(value))
    }
}
{{end}}

{{- define "fromValue" -}}
impl<'a> FromValue<'a> for {{.Name}} {
    unsafe fn from_value(value: &Value) -> Self {
        from_glib(ffi::{{.CType}}::from_bits_truncate(gobject_ffi::g_value_get_flags(value.to_glib_none().0)))
    }
}
{{end}}

{{- define "setValue" -}}
impl SetValue for {{.Name}} {
    unsafe fn set_value(value: &mut Value, this: &Self) {
        gobject_ffi::g_value_set_flags(value.to_glib_none_mut().0, this.to_glib().bits())
    }
}
{{end}}`

var blocks = template.Must(template.New("flags").Parse(blocksTemplate))

// conversionBlocks are emitted for every flags type, registrationBlocks only
// for types registered with the GLib type system.
var (
	conversionBlocks   = []string{"toGlib", "fromGlib"}
	registrationBlocks = []string{"staticType", "fromValueOptional", "fromValue", "setValue"}
)

type blockData struct {
	Name          string
	CType         string
	GetType       string
	SafetyAsserts bool
}

// generateFlags renders one flags type. Every block gets its own copy of the
// type's deprecation and version guards and is followed by a blank line.
func generateFlags(e *env.Env, flags *library.Bitfield, obj *config.GObject) ([]string, error) {
	guards := general.Guards(e, flags.DeprecatedVersion, flags.Version, 0)

	decl, err := declarationBlock(e, flags, obj)
	if err != nil {
		return nil, err
	}
	lines := appendBlock(nil, guards, decl)

	data := blockData{
		Name:          flags.Name,
		CType:         flags.CType,
		GetType:       flags.GlibGetType,
		SafetyAsserts: e.Config.GenerateSafetyAsserts,
	}

	names := conversionBlocks
	if flags.HasGetType() {
		names = append(names[:len(names):len(names)], registrationBlocks...)
	}
	for _, name := range names {
		block, err := renderBlock(name, data)
		if err != nil {
			return nil, fmt.Errorf("flags %s: %w", flags.Name, err)
		}
		lines = appendBlock(lines, guards, block)
	}

	return lines, nil
}

// declarationBlock is the bitflags! invocation with one constant per
// member that survives the overrides, in descriptor order.
func declarationBlock(e *env.Env, flags *library.Bitfield, obj *config.GObject) ([]string, error) {
	lines := []string{"bitflags! {"}
	if obj.MustUse {
		lines = append(lines, "    #[must_use]")
	}
	lines = append(lines, fmt.Sprintf("    pub struct %s: u32 {", flags.Name))

	for _, member := range flags.Members {
		overrides := obj.Members.Matched(member.Name)
		if overrides.Ignored() {
			continue
		}

		value, err := memberValue(e, flags, member)
		if err != nil {
			return nil, err
		}

		lines = append(lines, general.Guards(e, overrides.DeprecatedVersion(), overrides.Version(), 2)...)
		lines = append(lines, fmt.Sprintf("        const %s = %d;", strings.ToUpper(member.Name), value))
	}

	return append(lines, "    }", "}"), nil
}

// memberValue parses the literal as int64 and reinterprets it as the u32
// the C side stores. Values outside u32 wrap; that is logged, not rejected.
func memberValue(e *env.Env, flags *library.Bitfield, member library.Member) (uint32, error) {
	v, err := strconv.ParseInt(member.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s.%s = %q: %w", ErrMalformedMember, flags.Name, member.Name, member.Value, err)
	}

	if _, err := safecast.Conv[uint32](v); err != nil {
		e.Logger.Warn("Flags member value does not fit in u32, wrapping",
			"type", flags.Name,
			"member", member.Name,
			"value", v,
			"wrapped", uint32(v))
	}
	return uint32(v), nil
}

func renderBlock(name string, data blockData) ([]string, error) {
	var buf bytes.Buffer
	if err := blocks.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"), nil
}

func appendBlock(lines, guards, block []string) []string {
	lines = append(lines, guards...)
	lines = append(lines, block...)
	return append(lines, "")
}
