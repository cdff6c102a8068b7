package hpsf

import (
	"fmt"
	"sort"
)

// firstCustomID is the lowest ID given to a custom property; 0 and 1 are
// the dictionary and codepage.
const firstCustomID uint32 = 2

// CustomProperty is a named user-defined property.
type CustomProperty struct {
	Property
	Name string
}

// CustomProperties maps names to values through a section's dictionary.
type CustomProperties struct {
	byID     map[uint32]*CustomProperty
	byName   map[string]uint32
	codepage int
	pure     bool
}

// NewCustomProperties creates an empty set using the Unicode codepage.
func NewCustomProperties() *CustomProperties {
	return &CustomProperties{
		byID:     make(map[uint32]*CustomProperty),
		byName:   make(map[string]uint32),
		codepage: CodepageUnicode,
		pure:     true,
	}
}

func customFromSection(s *Section) *CustomProperties {
	cp := NewCustomProperties()
	if c := s.Codepage(); c >= 0 {
		cp.codepage = c
	}
	dict := s.Dictionary()
	for _, p := range s.Properties() {
		if p.ID == PIDCodepage || p.ID == PIDLocale || p.ID == PIDBehavior {
			continue
		}
		name, ok := dict[p.ID]
		if !ok {
			cp.pure = false
		} else if _, dup := cp.byName[name]; dup {
			cp.pure = false
		} else {
			cp.byName[name] = p.ID
		}
		cp.byID[p.ID] = &CustomProperty{Property: *p, Name: name}
	}
	return cp
}

// IsPure reports whether every property has a dictionary name and no name
// is used twice. Sets read from files written by other tools may not be.
func (cp *CustomProperties) IsPure() bool {
	return cp.pure
}

// Codepage returns the codepage used for the names and 8-bit strings.
func (cp *CustomProperties) Codepage() int {
	return cp.codepage
}

// SetCodepage changes the codepage written to the section.
func (cp *CustomProperties) SetCodepage(c int) error {
	if !IsSupportedCodepage(c) {
		return fmt.Errorf("%w: %d", ErrUnsupportedCodepage, c)
	}
	cp.codepage = c
	return nil
}

// Len returns the number of properties.
func (cp *CustomProperties) Len() int {
	return len(cp.byID)
}

func (cp *CustomProperties) nextID() uint32 {
	id := firstCustomID - 1
	for k := range cp.byID {
		id = max(id, k)
	}
	return id + 1
}

// Put stores value under name with the type chosen by VarTypeOf. An
// existing name keeps its ID.
func (cp *CustomProperties) Put(name string, value any) error {
	vt, v, err := VarTypeOf(value)
	if err != nil {
		return err
	}
	return cp.PutTyped(name, vt, v)
}

// PutTyped stores value under name with an explicit type.
func (cp *CustomProperties) PutTyped(name string, vt VarType, value any) error {
	if name == "" {
		return fmt.Errorf("%w: custom property needs a name", ErrInvalidValue)
	}
	if _, err := appendValue(nil, vt, value, cp.codepage); err != nil {
		return err
	}
	id, ok := cp.byName[name]
	if !ok {
		id = cp.nextID()
		cp.byName[name] = id
	}
	cp.byID[id] = &CustomProperty{Property: Property{ID: id, Type: vt, Value: value}, Name: name}
	return nil
}

// Get returns the value stored under name.
func (cp *CustomProperties) Get(name string) (any, bool) {
	id, ok := cp.byName[name]
	if !ok {
		return nil, false
	}
	return cp.byID[id].Value, true
}

// ID returns the property ID assigned to name.
func (cp *CustomProperties) ID(name string) (uint32, bool) {
	id, ok := cp.byName[name]
	return id, ok
}

// Remove deletes the property stored under name.
func (cp *CustomProperties) Remove(name string) bool {
	id, ok := cp.byName[name]
	if !ok {
		return false
	}
	delete(cp.byName, name)
	delete(cp.byID, id)
	return true
}

// Properties returns all properties ordered by ID.
func (cp *CustomProperties) Properties() []*CustomProperty {
	props := make([]*CustomProperty, 0, len(cp.byID))
	for _, p := range cp.byID {
		props = append(props, p)
	}
	sort.Slice(props, func(i, j int) bool { return props[i].ID < props[j].ID })
	return props
}

// Names returns the property names ordered by ID.
func (cp *CustomProperties) Names() []string {
	var names []string
	for _, p := range cp.Properties() {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	return names
}

func (cp *CustomProperties) section() *Section {
	s := NewSection(UserDefinedPropertiesID)
	s.SetCodepage(cp.codepage)
	dict := make(map[uint32]string, len(cp.byID))
	for id, p := range cp.byID {
		if p.Name != "" {
			dict[id] = p.Name
		}
		prop := p.Property
		s.properties[id] = &prop
	}
	s.SetDictionary(dict)
	return s
}
