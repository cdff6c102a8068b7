package cfb

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"

	"github.com/sirupsen/logrus"
)

// PropertyTable is the directory: an arena of properties addressed by id with
// the storage tree kept as parent/children id lists. Id 0 is the root.
type PropertyTable struct {
	props   []*Property
	compare func(a, b string) int
	log     logrus.FieldLogger
}

// NewPropertyTable returns a table holding only an empty root storage.
func NewPropertyTable(compare func(a, b string) int, log logrus.FieldLogger) *PropertyTable {
	if compare == nil {
		compare = CompareNames
	}
	if log == nil {
		log = discardLogger()
	}
	root := emptyProperty()
	root.Name = RootName
	root.Type = TypeRoot
	root.Color = Black
	root.StartSector = EndOfChain
	root.parent = -1
	return &PropertyTable{props: []*Property{root}, compare: compare, log: log}
}

// ParsePropertyTable decodes the directory stream and rebuilds the storage
// tree by walking each storage's sibling tree from the root. Entries that are
// not reachable from the root are dropped.
func ParsePropertyTable(data []byte, majorVersion uint16, compare func(a, b string) int, log logrus.FieldLogger) (*PropertyTable, error) {
	t := NewPropertyTable(compare, log)

	n := len(data) / PropertySize
	if n == 0 {
		return nil, fmt.Errorf("%w: empty directory stream", ErrCorruptDirectory)
	}

	t.props = make([]*Property, n)
	for i := range n {
		p, err := parseProperty(data[i*PropertySize:(i+1)*PropertySize], majorVersion)
		if err != nil {
			return nil, &ParseError{Stream: "directory", Offset: int64(i * PropertySize),
				Message: fmt.Sprintf("entry %d", i), Err: err}
		}
		if p.Type == TypeEmpty {
			continue
		}
		p.id = i
		p.parent = -1
		t.props[i] = p
	}

	root := t.props[0]
	if root == nil || root.Type != TypeRoot {
		return nil, fmt.Errorf("%w: entry 0 is not the root storage", ErrCorruptDirectory)
	}

	visited := make([]bool, n)
	visited[0] = true
	dirs := []int{0}
	for len(dirs) > 0 {
		dir := t.props[dirs[0]]
		dirs = dirs[1:]

		stack := []uint32{dir.ChildID}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if id == NoStream {
				continue
			}
			if int64(id) >= int64(n) || t.props[id] == nil {
				return nil, fmt.Errorf("%w: %q references missing entry %d", ErrCorruptDirectory, dir.Name, id)
			}
			if visited[id] {
				return nil, fmt.Errorf("%w: entry %d is referenced twice", ErrCorruptDirectory, id)
			}
			visited[id] = true

			p := t.props[id]
			if p.Type == TypeRoot {
				return nil, fmt.Errorf("%w: nested root entry %d", ErrCorruptDirectory, id)
			}
			p.parent = dir.id
			dir.children = append(dir.children, int(id))
			stack = append(stack, p.RightID, p.LeftID)
			if p.IsDirectory() {
				dirs = append(dirs, int(id))
			}
		}
		t.sortChildren(dir)
	}

	for i, p := range t.props {
		if p != nil && !visited[i] {
			t.log.WithFields(logrus.Fields{"id": i, "name": p.Name}).Debug("dropping unreachable directory entry")
			t.props[i] = nil
		}
	}

	t.log.WithField("entries", t.Len()).Debug("loaded directory")
	return t, nil
}

// Root returns the root storage.
func (t *PropertyTable) Root() *Property {
	return t.props[0]
}

// Len returns the number of live entries.
func (t *PropertyTable) Len() int {
	n := 0
	for _, p := range t.props {
		if p != nil {
			n++
		}
	}
	return n
}

// Get returns the entry with the given id.
func (t *PropertyTable) Get(id int) (*Property, error) {
	if id < 0 || id >= len(t.props) || t.props[id] == nil {
		return nil, fmt.Errorf("%w: id %d", ErrEntryNotFound, id)
	}
	return t.props[id], nil
}

// Parent returns the storage containing p, or nil for the root.
func (t *PropertyTable) Parent(p *Property) *Property {
	if p.parent < 0 {
		return nil
	}
	return t.props[p.parent]
}

// Children returns the children of a storage in sibling order.
func (t *PropertyTable) Children(p *Property) []*Property {
	out := make([]*Property, 0, len(p.children))
	for _, id := range p.children {
		out = append(out, t.props[id])
	}
	return out
}

// Find returns the child of parent with exactly the given name.
func (t *PropertyTable) Find(parent *Property, name string) (*Property, error) {
	for _, id := range parent.children {
		if t.props[id].Name == name {
			return t.props[id], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrEntryNotFound, name)
}

// FindFold returns the child of parent whose name matches case-insensitively.
func (t *PropertyTable) FindFold(parent *Property, name string) (*Property, error) {
	if p, err := t.Find(parent, name); err == nil {
		return p, nil
	}
	for _, id := range parent.children {
		if strings.EqualFold(t.props[id].Name, name) {
			return t.props[id], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrEntryNotFound, name)
}

// Insert adds a new entry under parent.
func (t *PropertyTable) Insert(parent *Property, name string, typ EntryType) (*Property, error) {
	if !parent.IsDirectory() {
		return nil, fmt.Errorf("%w: %q", ErrNotDirectory, parent.Name)
	}
	if typ != TypeStorage && typ != TypeStream {
		return nil, fmt.Errorf("cfb: cannot insert entry of type %s", typ)
	}
	if err := t.checkName(parent, name, -1); err != nil {
		return nil, err
	}

	p := emptyProperty()
	p.Name = name
	p.Type = typ
	p.Color = Black
	p.StartSector = EndOfChain
	p.id = len(t.props)
	p.parent = parent.id
	t.props = append(t.props, p)
	parent.children = append(parent.children, p.id)
	t.sortChildren(parent)
	return p, nil
}

// Remove deletes an entry. Storages must be empty.
func (t *PropertyTable) Remove(p *Property) error {
	if p.id == 0 {
		return ErrRootEntry
	}
	if len(p.children) > 0 {
		return fmt.Errorf("%w: %q", ErrDirectoryNotEmpty, p.Name)
	}
	parent := t.props[p.parent]
	parent.children = slices.DeleteFunc(parent.children, func(id int) bool { return id == p.id })
	t.props[p.id] = nil
	return nil
}

// Rename changes the name of an entry.
func (t *PropertyTable) Rename(p *Property, name string) error {
	if p.id == 0 {
		return ErrRootEntry
	}
	parent := t.props[p.parent]
	if err := t.checkName(parent, name, p.id); err != nil {
		return err
	}
	p.Name = name
	t.sortChildren(parent)
	return nil
}

func (t *PropertyTable) checkName(parent *Property, name string, self int) error {
	if name == "" || strings.ContainsAny(name, "/\\:!") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if len(utf16.Encode([]rune(name))) > MaxNameLength {
		return fmt.Errorf("%w: %q", ErrNameTooLong, name)
	}
	for _, id := range parent.children {
		if id == self {
			continue
		}
		if CompareNames(t.props[id].Name, name) == 0 {
			return fmt.Errorf("%w: %q", ErrDuplicateEntry, name)
		}
	}
	return nil
}

func (t *PropertyTable) sortChildren(p *Property) {
	slices.SortStableFunc(p.children, func(a, b int) int {
		return t.compare(t.props[a].Name, t.props[b].Name)
	})
}

// Serialize assigns compact on-disk ids, rebuilds every storage's sibling
// links, and encodes the directory padded with empty entries to whole
// sectors of blockSize.
//
// Each storage's sorted children hang off the middle child: the lower half
// is chained through left links, the upper half through right links, and
// every entry is coloured black.
func (t *PropertyTable) Serialize(blockSize int) []byte {
	index := make(map[int]uint32, len(t.props))
	var live []*Property
	for _, p := range t.props {
		if p == nil {
			continue
		}
		index[p.id] = uint32(len(live))
		live = append(live, p)
	}

	for _, p := range live {
		p.Color = Black
		if !p.IsDirectory() {
			p.ChildID = NoStream
			continue
		}
		t.sortChildren(p)
		kids := t.Children(p)
		for _, k := range kids {
			k.LeftID, k.RightID = NoStream, NoStream
		}
		if len(kids) == 0 {
			p.ChildID = NoStream
			continue
		}

		mid := len(kids) / 2
		p.ChildID = index[kids[mid].id]
		for j := 1; j <= mid; j++ {
			kids[j].LeftID = index[kids[j-1].id]
		}
		for j := mid; j < len(kids)-1; j++ {
			kids[j].RightID = index[kids[j+1].id]
		}
	}
	t.Root().LeftID, t.Root().RightID = NoStream, NoStream

	perSector := blockSize / PropertySize
	slots := ((len(live) + perSector - 1) / perSector) * perSector
	out := make([]byte, slots*PropertySize)
	for i, p := range live {
		p.marshal(out[i*PropertySize:])
	}
	empty := emptyProperty()
	for i := len(live); i < slots; i++ {
		empty.marshal(out[i*PropertySize:])
	}
	return out
}
