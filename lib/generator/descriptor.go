package generator

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Descriptor is the YAML schema for one protocol interface. It is the
// generator's input; the rendered output is a Go interface module embedding
// busobj.Iface with typed accessors for each property.
type Descriptor struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Methods     []Method   `yaml:"methods"`
	Properties  []Property `yaml:"properties"`
	Signals     []Signal   `yaml:"signals"`
}

// Method is one callable method in the YAML schema.
type Method struct {
	Name    string `yaml:"name"`
	Args    []Arg  `yaml:"args"`
	Returns []Arg  `yaml:"returns"`
}

// Property is one property in the YAML schema. Default, when present, is
// coerced to the declared Go type and set by the generated constructor.
type Property struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Default any    `yaml:"default"`
}

// Signal is one broadcast signal in the YAML schema.
type Signal struct {
	Name string `yaml:"name"`
	Args []Arg  `yaml:"args"`
}

// Arg is one method or signal argument.
type Arg struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Validation failure modes.
var (
	ErrBadInterfaceName = errors.New("generator: interface name must be dotted, e.g. com.buslab.sensors.Power")
	ErrBadIdentifier    = errors.New("generator: invalid identifier")
	ErrBadType          = errors.New("generator: unsupported type")
	ErrBadDefault       = errors.New("generator: default does not match property type")
)

// Property and argument types the generator knows how to render.
var allowedTypes = map[string]bool{
	"bool":    true,
	"string":  true,
	"int64":   true,
	"uint64":  true,
	"float64": true,
	"[]byte":  true,
}

// Load reads and validates one descriptor file.
func Load(path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("generator: read %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return Descriptor{}, fmt.Errorf("generator: %s: %w", path, err)
	}
	return d, nil
}

// Parse decodes and validates descriptor YAML.
func Parse(data []byte) (Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Descriptor{}, fmt.Errorf("parse: %w", err)
	}
	if err := d.validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// TypeName returns the Go type name for the interface: the last dotted
// segment of the interface name.
func (d Descriptor) TypeName() string {
	segs := strings.Split(d.Name, ".")
	return segs[len(segs)-1]
}

func (d *Descriptor) validate() error {
	segs := strings.Split(d.Name, ".")
	if len(segs) < 2 {
		return fmt.Errorf("%w: %q", ErrBadInterfaceName, d.Name)
	}
	for _, s := range segs {
		if !identifier(s) {
			return fmt.Errorf("%w: %q", ErrBadInterfaceName, d.Name)
		}
	}

	for n := range d.Properties {
		p := &d.Properties[n]
		if !identifier(p.Name) {
			return fmt.Errorf("%w: property %q", ErrBadIdentifier, p.Name)
		}
		if !allowedTypes[p.Type] {
			return fmt.Errorf("%w: property %s has type %q", ErrBadType, p.Name, p.Type)
		}
		if p.Default != nil {
			coerced, ok := coerceDefault(p.Default, p.Type)
			if !ok {
				return fmt.Errorf("%w: property %s (%s)", ErrBadDefault, p.Name, p.Type)
			}
			p.Default = coerced
		}
	}
	for _, m := range d.Methods {
		if !identifier(m.Name) {
			return fmt.Errorf("%w: method %q", ErrBadIdentifier, m.Name)
		}
		if err := validateArgs(m.Args); err != nil {
			return fmt.Errorf("method %s: %w", m.Name, err)
		}
		if err := validateArgs(m.Returns); err != nil {
			return fmt.Errorf("method %s: %w", m.Name, err)
		}
	}
	for _, s := range d.Signals {
		if !identifier(s.Name) {
			return fmt.Errorf("%w: signal %q", ErrBadIdentifier, s.Name)
		}
		if err := validateArgs(s.Args); err != nil {
			return fmt.Errorf("signal %s: %w", s.Name, err)
		}
	}
	return nil
}

func validateArgs(args []Arg) error {
	for _, a := range args {
		if !identifier(a.Name) {
			return fmt.Errorf("%w: arg %q", ErrBadIdentifier, a.Name)
		}
		if !allowedTypes[a.Type] {
			return fmt.Errorf("%w: arg %s has type %q", ErrBadType, a.Name, a.Type)
		}
	}
	return nil
}

// coerceDefault normalizes a YAML scalar to the declared Go type. YAML
// decodes whole numbers as int, so numeric widening is the common case.
func coerceDefault(v any, typ string) (any, bool) {
	switch typ {
	case "bool":
		b, ok := v.(bool)
		return b, ok
	case "string":
		s, ok := v.(string)
		return s, ok
	case "int64":
		switch n := v.(type) {
		case int:
			return int64(n), true
		case int64:
			return n, true
		}
	case "uint64":
		switch n := v.(type) {
		case int:
			if n >= 0 {
				return uint64(n), true
			}
		case uint64:
			return n, true
		}
	case "float64":
		switch n := v.(type) {
		case int:
			return float64(n), true
		case float64:
			return n, true
		}
	}
	return nil, false
}

func identifier(s string) bool {
	if s == "" {
		return false
	}
	for n, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if n == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
