package model

import (
	"encoding/json"
	"slices"
)

// Set is the frozen collection of classes produced by one build. It is safe
// for concurrent reads.
type Set struct {
	byName map[string]*DocClass
	order  []string
}

// SetBuilder accumulates classes during a single-threaded build.
type SetBuilder struct {
	byName map[string]*DocClass
	order  []string
}

// NewSetBuilder returns an empty builder.
func NewSetBuilder() *SetBuilder {
	return &SetBuilder{byName: make(map[string]*DocClass)}
}

// Contains reports whether a class named name was already added.
func (b *SetBuilder) Contains(name string) bool {
	_, ok := b.byName[name]
	return ok
}

// Add stores class unless one with the same name exists. It reports whether
// the class was stored.
func (b *SetBuilder) Add(class *DocClass) bool {
	if b.Contains(class.Name) {
		return false
	}

	b.byName[class.Name] = class
	b.order = append(b.order, class.Name)
	return true
}

// Freeze hands the accumulated classes over to an immutable Set. The builder
// must not be used afterwards.
func (b *SetBuilder) Freeze() *Set {
	set := &Set{byName: b.byName, order: b.order}
	b.byName = nil
	b.order = nil
	return set
}

// NewSet builds a Set from classes; later duplicates are ignored.
func NewSet(classes ...*DocClass) *Set {
	b := NewSetBuilder()
	for _, class := range classes {
		b.Add(class)
	}

	return b.Freeze()
}

// Lookup returns the class named name.
func (s *Set) Lookup(name string) (*DocClass, bool) {
	if s == nil {
		return nil, false
	}

	class, ok := s.byName[name]
	return class, ok
}

// Has reports whether the set contains a class named name.
func (s *Set) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Names returns class names in build order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}

	return slices.Clone(s.order)
}

// Classes returns the classes in build order.
func (s *Set) Classes() []*DocClass {
	if s == nil {
		return nil
	}

	classes := make([]*DocClass, 0, len(s.order))
	for _, name := range s.order {
		classes = append(classes, s.byName[name])
	}

	return classes
}

// Len returns the number of classes.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}

	return len(s.order)
}

// MarshalJSON encodes the set as an object keyed by class name.
func (s *Set) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("{}"), nil
	}

	return json.Marshal(s.byName)
}
