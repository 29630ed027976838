package flags

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/girflags/internal/config"
	"github.com/Alia5/girflags/internal/env"
	"github.com/Alia5/girflags/internal/library"
)

func newTestEnv(cfg *config.Config) *env.Env {
	if cfg.Library == "" {
		cfg.Library = "Test"
	}
	if cfg.MinCfgVersion == nil {
		cfg.MinCfgVersion = library.MustParseVersion("3.0")
	}
	return env.New(library.New(), cfg)
}

func myFlags() *library.Bitfield {
	return &library.Bitfield{
		Name:  "Flags",
		CType: "MyFlags",
		Members: []library.Member{
			{Name: "A", Value: "1"},
			{Name: "B", Value: "2"},
		},
	}
}

func render(t *testing.T, e *env.Env, flags *library.Bitfield, obj *config.GObject) string {
	t.Helper()
	lines, err := generateFlags(e, flags, obj)
	require.NoError(t, err)
	return strings.Join(lines, "\n")
}

const plainFlags = `bitflags! {
    pub struct Flags: u32 {
        const A = 1;
        const B = 2;
    }
}

#[doc(hidden)]
impl ToGlib for Flags {
    type GlibType = ffi::MyFlags;

    fn to_glib(&self) -> ffi::MyFlags {
        ffi::MyFlags::from_bits_truncate(self.bits())
    }
}

#[doc(hidden)]
impl FromGlib<ffi::MyFlags> for Flags {
    fn from_glib(value: ffi::MyFlags) -> Flags {
        Flags::from_bits_truncate(value.bits())
    }
}
`

func TestGenerateFlagsPlain(t *testing.T) {
	out := render(t, newTestEnv(&config.Config{}), myFlags(), &config.GObject{Name: "Test.Flags"})
	assert.Equal(t, plainFlags, out)
	assert.NotContains(t, out, "StaticType")
	assert.NotContains(t, out, "Value")
}

func TestGenerateFlagsIgnoredMember(t *testing.T) {
	obj := &config.GObject{
		Name:    "Test.Flags",
		Members: config.Members{{Ident: config.Ident{Name: "B"}, Ignore: true}},
	}

	out := render(t, newTestEnv(&config.Config{}), myFlags(), obj)
	assert.Contains(t, out, "        const A = 1;\n    }")
	assert.NotContains(t, out, "const B")
}

func TestGenerateFlagsIgnoredByPattern(t *testing.T) {
	flags := &library.Bitfield{
		Name:  "Flags",
		CType: "MyFlags",
		Members: []library.Member{
			{Name: "visible", Value: "1"},
			{Name: "priv_a", Value: "2"},
			{Name: "locked", Value: "4"},
			{Name: "priv_b", Value: "8"},
		},
	}
	obj := &config.GObject{
		Name:    "Test.Flags",
		Members: config.Members{{Ident: config.Ident{Pattern: regexp.MustCompile("^priv_")}, Ignore: true}},
	}

	out := render(t, newTestEnv(&config.Config{}), flags, obj)
	assert.Contains(t, out, "        const VISIBLE = 1;\n        const LOCKED = 4;\n    }")
	assert.NotContains(t, out, "PRIV")
}

func TestGenerateFlagsRegistration(t *testing.T) {
	flags := myFlags()
	flags.GlibGetType = "my_flags_get_type"

	out := render(t, newTestEnv(&config.Config{}), flags, &config.GObject{Name: "Test.Flags"})

	assert.Contains(t, out, `impl StaticType for Flags {
    fn static_type() -> Type {
        unsafe { from_glib(ffi::my_flags_get_type()) }
    }
}
`)
	assert.Contains(t, out, `impl<'a> FromValueOptional<'a> for Flags {
    unsafe fn from_value_optional(value: &Value) -> Option<Self> {
        Some(FromValue::from_value(value))
    }
}
`)
	assert.Contains(t, out, `impl<'a> FromValue<'a> for Flags {
    unsafe fn from_value(value: &Value) -> Self {
        from_glib(ffi::MyFlags::from_bits_truncate(gobject_ffi::g_value_get_flags(value.to_glib_none().0)))
    }
}
`)
	assert.Contains(t, out, `impl SetValue for Flags {
    unsafe fn set_value(value: &mut Value, this: &Self) {
        gobject_ffi::g_value_set_flags(value.to_glib_none_mut().0, this.to_glib().bits())
    }
}
`)
	assert.Equal(t, 1, strings.Count(out, "impl StaticType"))
	assert.True(t, strings.HasPrefix(out, strings.TrimSuffix(plainFlags, "\n")))
}

func TestGenerateFlagsGuardsEveryBlock(t *testing.T) {
	flags := myFlags()
	flags.GlibGetType = "my_flags_get_type"
	flags.Version = library.MustParseVersion("3.10")
	flags.DeprecatedVersion = library.MustParseVersion("3.22")

	lines, err := generateFlags(newTestEnv(&config.Config{}), flags, &config.GObject{Name: "Test.Flags"})
	require.NoError(t, err)

	deprecated := `#[cfg_attr(feature = "v3_22", deprecated = "Since 3.22")]`
	version := `#[cfg(any(feature = "v3_10", feature = "dox"))]`

	blockStarts := []string{
		"bitflags! {",
		"#[doc(hidden)]",
		"#[doc(hidden)]",
		"impl StaticType for Flags {",
		"impl<'a> FromValueOptional<'a> for Flags {",
		"impl<'a> FromValue<'a> for Flags {",
		"impl SetValue for Flags {",
	}

	var starts []string
	for i, line := range lines {
		if line != deprecated {
			continue
		}
		require.Less(t, i+2, len(lines))
		assert.Equal(t, version, lines[i+1])
		starts = append(starts, lines[i+2])
	}
	assert.Equal(t, blockStarts, starts)

	// one declaration, two conversions and four registration blocks
	assert.Equal(t, 7, strings.Count(strings.Join(lines, "\n"), version))
}

func TestGenerateFlagsMemberGuards(t *testing.T) {
	flags := &library.Bitfield{
		Name:  "AccelFlags",
		CType: "GtkAccelFlags",
		Members: []library.Member{
			{Name: "visible", Value: "1"},
			{Name: "locked", Value: "2"},
			{Name: "mask", Value: "7"},
		},
	}
	obj := &config.GObject{
		Name:    "Gtk.AccelFlags",
		MustUse: true,
		Members: config.Members{
			{Ident: config.Ident{Name: "locked"}, Version: library.MustParseVersion("3.12")},
			{Ident: config.Ident{Pattern: regexp.MustCompile("^lock")}, Version: library.MustParseVersion("3.20"), DeprecatedVersion: library.MustParseVersion("3.22")},
			{Ident: config.Ident{Name: "mask"}, Version: library.MustParseVersion("2.0")},
		},
	}

	out := render(t, newTestEnv(&config.Config{}), flags, obj)
	assert.Contains(t, out, `bitflags! {
    #[must_use]
    pub struct AccelFlags: u32 {
        const VISIBLE = 1;
        #[cfg_attr(feature = "v3_22", deprecated = "Since 3.22")]
        #[cfg(any(feature = "v3_12", feature = "dox"))]
        const LOCKED = 2;
        const MASK = 7;
    }
}
`)
}

func TestGenerateFlagsSafetyAsserts(t *testing.T) {
	out := render(t, newTestEnv(&config.Config{GenerateSafetyAsserts: true}), myFlags(), &config.GObject{Name: "Test.Flags"})
	assert.Contains(t, out, `    fn from_glib(value: ffi::MyFlags) -> Flags {
        skip_assert_initialized!();
        Flags::from_bits_truncate(value.bits())
    }`)
	assert.Equal(t, 1, strings.Count(out, "skip_assert_initialized!()"))
}

// fromBitsTruncate models bitflags' from_bits_truncate over the u32
// representation: the result keeps only the bits of mask.
func fromBitsTruncate(bits, mask uint32) uint32 {
	return bits & mask
}

func TestGenerateFlagsConversionsAreSymmetric(t *testing.T) {
	out := render(t, newTestEnv(&config.Config{}), myFlags(), &config.GObject{Name: "Test.Flags"})

	// Both directions truncate the raw bits against the full u32 range the
	// generated types are declared over.
	assert.Contains(t, out, "ffi::MyFlags::from_bits_truncate(self.bits())")
	assert.Contains(t, out, "Flags::from_bits_truncate(value.bits())")
	assert.Contains(t, out, "pub struct Flags: u32 {")

	type testCase struct {
		name    string
		pattern uint32
	}

	testCases := []testCase{
		{name: "empty", pattern: 0},
		{name: "declared bits", pattern: 3},
		{name: "undeclared high bit", pattern: 0x80000001},
		{name: "all bits", pattern: 0xFFFFFFFF},
		{name: "only undeclared", pattern: 0x00F0_0000},
	}

	const nativeMask = ^uint32(0)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fromNative := fromBitsTruncate(tc.pattern, nativeMask)
			toNative := fromBitsTruncate(fromNative, nativeMask)
			assert.Equal(t, tc.pattern, toNative)
		})
	}
}

func TestGenerateFlagsDeprecatedByMinVersion(t *testing.T) {
	flags := myFlags()
	flags.DeprecatedVersion = library.MustParseVersion("2.10")
	obj := &config.GObject{
		Name:    "Test.Flags",
		Members: config.Members{{Ident: config.Ident{Name: "B"}, DeprecatedVersion: library.MustParseVersion("3.0")}},
	}

	out := render(t, newTestEnv(&config.Config{DeprecateByMinVersion: true}), flags, obj)
	assert.True(t, strings.HasPrefix(out, "#[deprecated]\nbitflags! {"))
	assert.Contains(t, out, "        const A = 1;\n        #[deprecated]\n        const B = 2;")
	assert.NotContains(t, out, "cfg_attr")
}

func TestMemberValue(t *testing.T) {
	type testCase struct {
		value    string
		expected uint32
		warns    bool
	}

	testCases := []testCase{
		{value: "0", expected: 0},
		{value: "1", expected: 1},
		{value: "+16", expected: 16},
		{value: "4294967295", expected: 4294967295},
		{value: "-1", expected: 4294967295, warns: true},
		{value: "-2147483648", expected: 2147483648, warns: true},
		{value: "4294967296", expected: 0, warns: true},
		{value: "4294967298", expected: 2, warns: true},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			var buf bytes.Buffer
			e := newTestEnv(&config.Config{})
			e.Logger = slog.New(slog.NewTextHandler(&buf, nil))

			got, err := memberValue(e, myFlags(), library.Member{Name: "m", Value: tc.value})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, tc.warns, strings.Contains(buf.String(), "wrapping"))
		})
	}
}

func TestGenerateFlagsMalformedMember(t *testing.T) {
	flags := myFlags()
	flags.Members = append(flags.Members, library.Member{Name: "C", Value: "0x4"})

	_, err := generateFlags(newTestEnv(&config.Config{}), flags, &config.GObject{Name: "Test.Flags"})
	require.ErrorIs(t, err, ErrMalformedMember)
	assert.Contains(t, err.Error(), `Flags.C = "0x4"`)

	// ignored members are never parsed
	obj := &config.GObject{
		Name:    "Test.Flags",
		Members: config.Members{{Ident: config.Ident{Name: "C"}, Ignore: true}},
	}
	_, err = generateFlags(newTestEnv(&config.Config{}), flags, obj)
	assert.NoError(t, err)
}
