package model

import (
	"slices"
	"strings"
)

// RootSection is the name of the section holding keys that appear before any
// section header, for formats that allow them.
const RootSection = ""

// Entry is a named value inside a Section.
type Entry struct {
	Name    string
	Value   Value
	Comment string
}

// Section is an ordered mapping of parameter names to values.
type Section struct {
	// Comment is annotation metadata rendered by format adapters that support it.
	Comment string

	name    string
	entries []Entry
	index   map[string]int
}

// NewSection creates an empty section.
func NewSection(name string) *Section {
	return &Section{
		name:  name,
		index: make(map[string]int),
	}
}

// Name returns the section name.
func (s *Section) Name() string {
	return s.name
}

// Len returns the number of entries.
func (s *Section) Len() int {
	if s == nil {
		return 0
	}

	return len(s.entries)
}

// Entries returns a copy of the entries in insertion order.
func (s *Section) Entries() []Entry {
	if s == nil {
		return nil
	}

	return slices.Clone(s.entries)
}

// Get returns the value stored under name.
func (s *Section) Get(name string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}

	pos, ok := s.index[name]
	if !ok {
		return Value{}, false
	}

	return s.entries[pos].Value, true
}

// Has reports whether name is present.
func (s *Section) Has(name string) bool {
	_, ok := s.Get(name)

	return ok
}

// Set stores v under name. An existing entry keeps its position and comment.
func (s *Section) Set(name string, v Value) {
	if s.index == nil {
		s.index = make(map[string]int)
	}

	if pos, ok := s.index[name]; ok {
		s.entries[pos].Value = v

		return
	}

	s.index[name] = len(s.entries)
	s.entries = append(s.entries, Entry{Name: name, Value: v})
}

// SetComment attaches a comment to an existing entry.
func (s *Section) SetComment(name, comment string) bool {
	pos, ok := s.index[name]
	if !ok {
		return false
	}

	s.entries[pos].Comment = comment

	return true
}

// Delete removes name, keeping the order of the remaining entries.
func (s *Section) Delete(name string) {
	pos, ok := s.index[name]
	if !ok {
		return
	}

	s.entries = slices.Delete(s.entries, pos, pos+1)
	delete(s.index, name)

	for i := pos; i < len(s.entries); i++ {
		s.index[s.entries[i].Name] = i
	}
}

// Clone returns a deep copy of s.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}

	clone := &Section{
		Comment: s.Comment,
		name:    s.name,
		entries: slices.Clone(s.entries),
		index:   make(map[string]int, len(s.index)),
	}

	for name, pos := range s.index {
		clone.index[name] = pos
	}

	return clone
}

// Equal compares names, order and values. Comments are ignored.
func (s *Section) Equal(other *Section) bool {
	if s.Len() != other.Len() {
		return false
	}

	if s == nil || other == nil {
		return s.Len() == 0 && other.Len() == 0
	}

	return slices.EqualFunc(s.entries, other.entries, func(a, b Entry) bool {
		return a.Name == b.Name && a.Value.Equal(b.Value)
	})
}

// Raw converts the section into a map of plain Go values.
func (s *Section) Raw() map[string]any {
	result := make(map[string]any, s.Len())
	for _, entry := range s.Entries() {
		result[entry.Name] = entry.Value.Raw()
	}

	return result
}

// Tree is the two-level configuration tree: ordered sections of ordered entries.
type Tree struct {
	sections []*Section
	index    map[string]int
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{index: make(map[string]int)}
}

// Section returns the named section.
func (t *Tree) Section(name string) (*Section, bool) {
	if t == nil {
		return nil, false
	}

	pos, ok := t.index[name]
	if !ok {
		return nil, false
	}

	return t.sections[pos], true
}

// HasSection reports whether the named section exists, even when empty.
func (t *Tree) HasSection(name string) bool {
	_, ok := t.Section(name)

	return ok
}

// EnsureSection returns the named section, appending an empty one if missing.
func (t *Tree) EnsureSection(name string) *Section {
	if section, ok := t.Section(name); ok {
		return section
	}

	if t.index == nil {
		t.index = make(map[string]int)
	}

	section := NewSection(name)
	t.index[name] = len(t.sections)
	t.sections = append(t.sections, section)

	return section
}

// Sections returns the sections in insertion order.
func (t *Tree) Sections() []*Section {
	if t == nil {
		return nil
	}

	return slices.Clone(t.sections)
}

// Get returns the value of section.name.
func (t *Tree) Get(section, name string) (Value, bool) {
	s, ok := t.Section(section)
	if !ok {
		return Value{}, false
	}

	return s.Get(name)
}

// Has reports whether section.name is present.
func (t *Tree) Has(section, name string) bool {
	_, ok := t.Get(section, name)

	return ok
}

// Set stores v under section.name, creating the section when needed.
func (t *Tree) Set(section, name string, v Value) {
	t.EnsureSection(section).Set(name, v)
}

// Delete removes section.name. Empty sections are kept.
func (t *Tree) Delete(section, name string) {
	if s, ok := t.Section(section); ok {
		s.Delete(name)
	}
}

// Len returns the total number of entries across all sections.
func (t *Tree) Len() int {
	total := 0
	for _, section := range t.Sections() {
		total += section.Len()
	}

	return total
}

// Clone returns a deep copy of t.
func (t *Tree) Clone() *Tree {
	clone := NewTree()
	if t == nil {
		return clone
	}

	for _, section := range t.sections {
		clone.index[section.name] = len(clone.sections)
		clone.sections = append(clone.sections, section.Clone())
	}

	return clone
}

// Equal compares section order, entry order and values. Comments are ignored.
func (t *Tree) Equal(other *Tree) bool {
	a, b := t.Sections(), other.Sections()

	return slices.EqualFunc(a, b, func(x, y *Section) bool {
		return x.name == y.name && x.Equal(y)
	})
}

// Path renders the location of a parameter as section.name, or just name for
// the root section.
func Path(section, name string) string {
	if section == RootSection {
		return name
	}

	if name == "" {
		return section
	}

	return section + "." + name
}

// SplitPath splits section.name at the last dot. A path without a dot refers
// to the root section.
func SplitPath(path string) (section, name string) {
	pos := strings.LastIndex(path, ".")
	if pos < 0 {
		return RootSection, path
	}

	return path[:pos], path[pos+1:]
}
