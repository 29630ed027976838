package library

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Descriptor file layout:
//
//	namespaces:
//	  - name: Gtk
//	    version: "3.0"
//	    types:
//	      - kind: bitfield
//	        name: AccelFlags
//	        c_type: GtkAccelFlags
//	        version: "3.10"
//	        get_type: gtk_accel_flags_get_type
//	        members:
//	          - name: visible
//	            value: "1"
//	            c_identifier: GTK_ACCEL_VISIBLE
//
// The first namespace is the main one.
type descriptorFile struct {
	Namespaces []namespaceFile `yaml:"namespaces"`
}

type namespaceFile struct {
	Name    string     `yaml:"name"`
	Version string     `yaml:"version"`
	Types   []typeFile `yaml:"types"`
}

type typeFile struct {
	Kind              string       `yaml:"kind"`
	Name              string       `yaml:"name"`
	CType             string       `yaml:"c_type"`
	Version           *Version     `yaml:"version"`
	DeprecatedVersion *Version     `yaml:"deprecated_version"`
	GetType           string       `yaml:"get_type"`
	Members           []memberFile `yaml:"members"`
}

type memberFile struct {
	Name        string `yaml:"name"`
	Value       string `yaml:"value"`
	CIdentifier string `yaml:"c_identifier"`
}

// LoadFile reads and parses a descriptor file.
func LoadFile(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read library descriptor %s: %w", path, err)
	}

	lib, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lib, nil
}

// Parse builds a Library from YAML descriptor data.
func Parse(data []byte) (*Library, error) {
	var df descriptorFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse library descriptor: %w", err)
	}

	if len(df.Namespaces) == 0 {
		return nil, errors.New("library descriptor declares no namespaces")
	}

	lib := New()
	var errs []error
	for _, nf := range df.Namespaces {
		if nf.Name == "" {
			errs = append(errs, errors.New("namespace without name"))
			continue
		}

		ns := lib.AddNamespace(nf.Name, nf.Version)
		for _, tf := range nf.Types {
			t, err := tf.build()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.%s: %w", nf.Name, tf.Name, err))
				continue
			}

			if _, err := lib.AddType(ns, t); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return lib, nil
}

func (tf *typeFile) build() (Type, error) {
	if tf.Name == "" {
		return nil, errors.New("type without name")
	}

	kind, err := ParseKind(tf.Kind)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindBitfield:
		if tf.CType == "" {
			return nil, errors.New("bitfield without c_type")
		}
		return &Bitfield{
			Name:              tf.Name,
			CType:             tf.CType,
			Members:           tf.members(),
			Version:           tf.Version,
			DeprecatedVersion: tf.DeprecatedVersion,
			GlibGetType:       tf.GetType,
		}, nil
	case KindEnumeration:
		return &Enumeration{
			Name:    tf.Name,
			CType:   tf.CType,
			Members: tf.members(),
			Version: tf.Version,
		}, nil
	default:
		return &Record{
			Name:    tf.Name,
			CType:   tf.CType,
			Version: tf.Version,
		}, nil
	}
}

func (tf *typeFile) members() []Member {
	members := make([]Member, 0, len(tf.Members))
	for _, m := range tf.Members {
		members = append(members, Member{
			Name:        m.Name,
			Value:       m.Value,
			CIdentifier: m.CIdentifier,
		})
	}
	return members
}
