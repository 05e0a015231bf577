package model

import (
	"golang.org/x/text/unicode/norm"
)

// Property is a named boolean cell. Choices set properties; constraint
// expressions read them. Identity is by NFC-normalized name.
//
// Value is mutated only by the frame generator while it walks a search path.
// Outside a Generate call every property is false.
type Property struct {
	Name  string
	Value bool
}

// Table interns properties by name and owns the shared boolean state the
// generator flips during its traversal.
//
// The table preserves interning order so diagnostics and renderings are
// deterministic for a given specification.
type Table struct {
	byName map[string]*Property
	order  []*Property
}

// NewTable creates an empty property table.
func NewTable() *Table {
	return &Table{byName: make(map[string]*Property)}
}

// NormalizeName returns the canonical spelling of a property or category
// name: NFC-normalized, so composed and decomposed forms are one identity.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// Intern returns the property with the given name, creating it (value false)
// on first use. The same name always returns the same *Property.
func (t *Table) Intern(name string) *Property {
	name = NormalizeName(name)
	if p, ok := t.byName[name]; ok {
		return p
	}
	p := &Property{Name: name}
	t.byName[name] = p
	t.order = append(t.order, p)
	return p
}

// Lookup returns the property with the given name, or false if it was never
// interned. Front ends use this to reject expressions over undefined
// properties before the graph reaches the generator.
func (t *Table) Lookup(name string) (*Property, bool) {
	p, ok := t.byName[NormalizeName(name)]
	return p, ok
}

// Len returns the number of interned properties.
func (t *Table) Len() int {
	return len(t.order)
}

// Names returns property names in interning order.
func (t *Table) Names() []string {
	names := make([]string, len(t.order))
	for i, p := range t.order {
		names[i] = p.Name
	}
	return names
}

// Reset sets every property to false.
func (t *Table) Reset() {
	for _, p := range t.order {
		p.Value = false
	}
}

// AllFalse reports whether every property is false. The generator guarantees
// this holds before and after every Generate call; tests use it to prove
// exact rollback.
func (t *Table) AllFalse() bool {
	for _, p := range t.order {
		if p.Value {
			return false
		}
	}
	return true
}
