package layout

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// SchemaAttribute is the serializable form of one member.
//
// Datatype may be empty for built-in attributes, which then use their default
// datatype. Offset is optional; when no attribute of a schema has an offset
// the members are placed with the schema's packing rule.
type SchemaAttribute struct {
	Name     string `yaml:"name" cbor:"name"`
	Datatype string `yaml:"datatype,omitempty" cbor:"datatype"`
	Offset   *int   `yaml:"offset,omitempty" cbor:"offset,omitempty"`
}

// Schema is the serializable form of a Layout, used for YAML configuration
// files and binary file headers.
//
//	packing: aligned
//	attributes:
//	  - name: Position3D
//	  - name: Intensity
//	  - name: Reflectance
//	    datatype: f32
//	size: 48
type Schema struct {
	Packing    string            `yaml:"packing,omitempty" cbor:"packing,omitempty"`
	Attributes []SchemaAttribute `yaml:"attributes" cbor:"attributes"`
	Size       int               `yaml:"size,omitempty" cbor:"size"`
}

// Schema returns the serializable form of the layout with explicit offsets.
func (l *Layout) Schema() Schema {
	s := Schema{
		Attributes: make([]SchemaAttribute, len(l.members)),
		Size:       l.size,
	}
	for i, m := range l.members {
		offset := m.offset
		s.Attributes[i] = SchemaAttribute{
			Name:     m.def.Name,
			Datatype: m.def.Datatype.String(),
			Offset:   &offset,
		}
	}
	return s
}

// FromSchema builds and validates a layout from its serializable form.
func FromSchema(s Schema) (*Layout, error) {
	if len(s.Attributes) == 0 {
		return nil, fmt.Errorf("%w: no attributes", ErrInvalidSchema)
	}

	rule, err := parsePacking(s.Packing)
	if err != nil {
		return nil, err
	}

	withOffsets := 0
	for _, a := range s.Attributes {
		if a.Offset != nil {
			withOffsets++
		}
	}
	if withOffsets != 0 && withOffsets != len(s.Attributes) {
		return nil, fmt.Errorf("%w: offsets must be given for all attributes or none", ErrInvalidSchema)
	}

	l := &Layout{}
	for _, a := range s.Attributes {
		def, err := schemaDefinition(a)
		if err != nil {
			return nil, err
		}
		if a.Offset != nil {
			_, err = l.addMemberAt(def, *a.Offset)
		} else {
			_, err = l.AddAttribute(def, rule)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
		}
	}

	if s.Size != 0 {
		if s.Size < l.size {
			return nil, fmt.Errorf("%w: size %d is smaller than the members (%d)", ErrInvalidSchema, s.Size, l.size)
		}
		l.size = s.Size
	}
	return l, nil
}

// LoadSchemaYAML reads a YAML schema document and builds the layout.
func LoadSchemaYAML(r io.Reader) (*Layout, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Schema
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidSchema)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	return FromSchema(s)
}

// MarshalYAML encodes the layout as its schema.
func (l *Layout) MarshalYAML() (any, error) {
	return l.Schema(), nil
}

func schemaDefinition(a SchemaAttribute) (Definition, error) {
	if a.Datatype == "" {
		def, ok := Builtin(a.Name)
		if !ok {
			return Definition{}, fmt.Errorf("%w: attribute %q needs a datatype", ErrInvalidSchema, a.Name)
		}
		return def, nil
	}
	dt, err := ParseDatatype(a.Datatype)
	if err != nil {
		return Definition{}, fmt.Errorf("%w: attribute %q: %w", ErrInvalidSchema, a.Name, err)
	}
	return NewDefinition(a.Name, dt), nil
}

func parsePacking(s string) (PackingRule, error) {
	switch strings.ToLower(s) {
	case "", "aligned":
		return Aligned, nil
	case "tight", "packed":
		return Tight, nil
	default:
		return 0, fmt.Errorf("%w: unknown packing %q", ErrInvalidSchema, s)
	}
}
