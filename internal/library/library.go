// Package library holds the in-memory interface-description model the
// generators consume: namespaces, the types they declare and, for bitfields,
// their members.
//
// The first namespace added to a Library is the main namespace, i.e. the
// library code is being generated for. Every further namespace is a dependency.
package library

import (
	"fmt"
	"strings"
)

// NsID indexes Library.Namespaces.
type NsID uint16

// MainNamespace is the namespace code is generated for.
const MainNamespace NsID = 0

// TypeID identifies a type by namespace and position within it.
type TypeID struct {
	NsID NsID
	ID   uint32
}

// IsMain reports whether the type lives in the main namespace.
func (t TypeID) IsMain() bool {
	return t.NsID == MainNamespace
}

type Kind int

const (
	KindUnknown Kind = iota
	KindBitfield
	KindEnumeration
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindBitfield:
		return "bitfield"
	case KindEnumeration:
		return "enumeration"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "bitfield", "flags":
		return KindBitfield, nil
	case "enumeration", "enum":
		return KindEnumeration, nil
	case "record":
		return KindRecord, nil
	default:
		return KindUnknown, fmt.Errorf("unknown type kind %q", s)
	}
}

// Type is implemented by every declared type.
type Type interface {
	Kind() Kind
	TypeName() string
}

// Member is a single named value of a bitfield or enumeration.
// Value is the literal as found in the descriptor; it is parsed by the
// generator, not here.
type Member struct {
	Name        string
	Value       string
	CIdentifier string
}

// Bitfield describes a flags type.
type Bitfield struct {
	Name              string
	CType             string
	Members           []Member
	Version           *Version
	DeprecatedVersion *Version
	// GlibGetType is the C function returning the registered GType, if any.
	GlibGetType string
}

func (b *Bitfield) Kind() Kind       { return KindBitfield }
func (b *Bitfield) TypeName() string { return b.Name }

// HasGetType reports whether the type is registered with the GLib type system.
func (b *Bitfield) HasGetType() bool {
	return b.GlibGetType != ""
}

type Enumeration struct {
	Name    string
	CType   string
	Members []Member
	Version *Version
}

func (e *Enumeration) Kind() Kind       { return KindEnumeration }
func (e *Enumeration) TypeName() string { return e.Name }

type Record struct {
	Name    string
	CType   string
	Version *Version
}

func (r *Record) Kind() Kind       { return KindRecord }
func (r *Record) TypeName() string { return r.Name }

type Namespace struct {
	Name    string
	Version string
	Types   []Type

	index map[string]uint32
}

// Library is the whole model: the main namespace plus its dependencies.
type Library struct {
	Namespaces []*Namespace

	index map[string]NsID
}

func New() *Library {
	return &Library{index: make(map[string]NsID)}
}

// AddNamespace registers a namespace and returns its id. Adding an existing
// name returns the existing id.
func (l *Library) AddNamespace(name, version string) NsID {
	if id, ok := l.index[name]; ok {
		return id
	}

	id := NsID(len(l.Namespaces))
	l.Namespaces = append(l.Namespaces, &Namespace{
		Name:    name,
		Version: version,
		index:   make(map[string]uint32),
	})
	l.index[name] = id
	return id
}

// AddType appends t to the namespace. Type names must be unique per namespace.
func (l *Library) AddType(ns NsID, t Type) (TypeID, error) {
	if int(ns) >= len(l.Namespaces) {
		return TypeID{}, fmt.Errorf("namespace %d does not exist", ns)
	}

	namespace := l.Namespaces[ns]
	if _, dup := namespace.index[t.TypeName()]; dup {
		return TypeID{}, fmt.Errorf("duplicate type %s.%s", namespace.Name, t.TypeName())
	}

	id := uint32(len(namespace.Types))
	namespace.Types = append(namespace.Types, t)
	namespace.index[t.TypeName()] = id
	return TypeID{NsID: ns, ID: id}, nil
}

// Namespace returns the namespace with the given id, or nil.
func (l *Library) Namespace(ns NsID) *Namespace {
	if int(ns) >= len(l.Namespaces) {
		return nil
	}
	return l.Namespaces[ns]
}

// Main returns the main namespace, or nil for an empty library.
func (l *Library) Main() *Namespace {
	return l.Namespace(MainNamespace)
}

// Type returns the type for id, or nil.
func (l *Library) Type(id TypeID) Type {
	ns := l.Namespace(id.NsID)
	if ns == nil || int(id.ID) >= len(ns.Types) {
		return nil
	}
	return ns.Types[id.ID]
}

// FindType resolves a full name such as "Gtk.AccelFlags".
func (l *Library) FindType(fullName string) (TypeID, bool) {
	nsName, name, ok := strings.Cut(fullName, ".")
	if !ok {
		return TypeID{}, false
	}

	nsID, ok := l.index[nsName]
	if !ok {
		return TypeID{}, false
	}

	id, ok := l.Namespaces[nsID].index[name]
	if !ok {
		return TypeID{}, false
	}
	return TypeID{NsID: nsID, ID: id}, true
}

// FullName renders "Namespace.Type" for id.
func (l *Library) FullName(id TypeID) string {
	ns := l.Namespace(id.NsID)
	t := l.Type(id)
	if ns == nil || t == nil {
		return "<unknown>"
	}
	return ns.Name + "." + t.TypeName()
}
