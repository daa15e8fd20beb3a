package layout

import (
	"fmt"
	"math"
	"strings"
)

// PackingRule decides where AddAttribute places a new member.
type PackingRule uint8

const (
	// Tight places the member directly after the previous one.
	Tight PackingRule = iota
	// Aligned rounds the offset up to the datatype's natural alignment,
	// leaving padding bytes in between.
	Aligned
)

func (r PackingRule) String() string {
	switch r {
	case Tight:
		return "tight"
	case Aligned:
		return "aligned"
	default:
		return "invalid"
	}
}

// Layout is the runtime schema of a point: an ordered set of members, unique
// by attribute name, that never overlap.
//
// The zero value is an empty layout ready for AddAttribute. A layout must not
// be modified after it has been handed to a buffer; buffers keep their own
// clone.
type Layout struct {
	members []Member
	index   map[string]int
	size    int
}

// New builds a layout from the given definitions using one packing rule.
func New(rule PackingRule, defs ...Definition) (*Layout, error) {
	l := &Layout{}
	for _, d := range defs {
		if _, err := l.AddAttribute(d, rule); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// MustNew is like New but panics on error. Intended for package-level
// layouts built from known-good definitions.
func MustNew(rule PackingRule, defs ...Definition) *Layout {
	l, err := New(rule, defs...)
	if err != nil {
		panic(err)
	}
	return l
}

// AddAttribute appends def at the end of the layout and returns the new member.
func (l *Layout) AddAttribute(def Definition, rule PackingRule) (Member, error) {
	offset := l.size
	if rule == Aligned {
		offset = alignUp(offset, def.Datatype.Alignment())
	}
	return l.addMemberAt(def, offset)
}

// addMemberAt inserts def at an explicit offset. The size grows to cover the
// new member; overlapping an existing member fails.
func (l *Layout) addMemberAt(def Definition, offset int) (Member, error) {
	if err := def.validate(); err != nil {
		return Member{}, err
	}
	if _, ok := l.index[def.Name]; ok {
		return Member{}, fmt.Errorf("%w: %q", ErrDuplicateAttribute, def.Name)
	}
	if offset < 0 {
		return Member{}, fmt.Errorf("%w: %q at negative offset %d", ErrOutOfRange, def.Name, offset)
	}
	if offset > math.MaxInt-def.Datatype.Size() {
		return Member{}, fmt.Errorf("%w: %q at offset %d overflows", ErrOutOfRange, def.Name, offset)
	}
	m := Member{def: def, offset: offset}
	for _, other := range l.members {
		if m.offset < other.End() && other.offset < m.End() {
			return Member{}, fmt.Errorf("%w: %s and %s", ErrOverlap, m, other)
		}
	}

	if l.index == nil {
		l.index = make(map[string]int)
	}
	l.index[def.Name] = len(l.members)
	l.members = append(l.members, m)
	if m.End() > l.size {
		l.size = m.End()
	}
	return m, nil
}

// AddPadding appends n bytes of explicit padding to the end of the point.
func (l *Layout) AddPadding(n int) {
	if n > 0 {
		l.size += n
	}
}

// PadToAlignment grows the size to a multiple of MaxAlignment, the way Go
// rounds up struct sizes.
func (l *Layout) PadToAlignment() {
	l.size = alignUp(l.size, l.MaxAlignment())
}

// Size returns the size of one point in bytes, including padding.
func (l *Layout) Size() int { return l.size }

// Len returns the number of attributes.
func (l *Layout) Len() int { return len(l.members) }

// MaxAlignment returns the largest member alignment, or 1 for an empty layout.
func (l *Layout) MaxAlignment() int {
	a := 1
	for _, m := range l.members {
		if m.Alignment() > a {
			a = m.Alignment()
		}
	}
	return a
}

// Members returns a copy of the members in layout order.
func (l *Layout) Members() []Member {
	out := make([]Member, len(l.members))
	copy(out, l.members)
	return out
}

// MemberAt returns the i-th member in layout order.
func (l *Layout) MemberAt(i int) Member { return l.members[i] }

// Index returns the position of the named attribute, or -1.
func (l *Layout) Index(name string) int {
	if i, ok := l.index[name]; ok {
		return i
	}
	return -1
}

// HasAttribute reports whether the layout stores def with exactly its datatype.
func (l *Layout) HasAttribute(def Definition) bool {
	_, ok := l.Attribute(def)
	return ok
}

// HasAttributeWithName reports whether any attribute with the name exists,
// regardless of its datatype.
func (l *Layout) HasAttributeWithName(name string) bool {
	_, ok := l.index[name]
	return ok
}

// Attribute returns the member matching def by name and datatype.
func (l *Layout) Attribute(def Definition) (Member, bool) {
	m, ok := l.AttributeByName(def.Name)
	if !ok || m.def.Datatype != def.Datatype {
		return Member{}, false
	}
	return m, true
}

// AttributeByName returns the member with the given name. Names are unique
// within a layout, so at most one member matches.
func (l *Layout) AttributeByName(name string) (Member, bool) {
	i, ok := l.index[name]
	if !ok {
		return Member{}, false
	}
	return l.members[i], true
}

// Equal reports whether both layouts are structurally identical: same
// members in the same order at the same offsets, and the same size.
func (l *Layout) Equal(other *Layout) bool {
	if l == other {
		return true
	}
	if l == nil || other == nil {
		return false
	}
	if l.size != other.size || len(l.members) != len(other.members) {
		return false
	}
	for i := range l.members {
		if l.members[i] != other.members[i] {
			return false
		}
	}
	return true
}

// SameAttributes reports whether both layouts contain the same attribute
// definitions, ignoring order, offsets and padding.
func (l *Layout) SameAttributes(other *Layout) bool {
	if l.Len() != other.Len() {
		return false
	}
	for _, m := range l.members {
		if !other.HasAttribute(m.def) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the layout.
func (l *Layout) Clone() *Layout {
	c := &Layout{
		members: make([]Member, len(l.members)),
		index:   make(map[string]int, len(l.index)),
		size:    l.size,
	}
	copy(c.members, l.members)
	for k, v := range l.index {
		c.index[k] = v
	}
	return c
}

func (l *Layout) String() string {
	var sb strings.Builder
	sb.WriteString("Layout{")
	for i, m := range l.members {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(m.String())
	}
	fmt.Fprintf(&sb, "; size %d}", l.size)
	return sb.String()
}

func alignUp(v, align int) int {
	if align <= 1 {
		return v
	}
	return (v + align - 1) / align * align
}
