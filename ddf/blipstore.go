package ddf

import (
	"bytes"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// BlipStore manages the BSE entries of a BStoreContainer. Adding a picture
// that is already stored bumps the existing entry's reference count instead
// of storing it twice.
type BlipStore struct {
	container *ContainerRecord
	index     map[uint64][]int
}

// NewBlipStore wraps container, which must be a BStoreContainer. A nil
// container creates a new empty one.
func NewBlipStore(container *ContainerRecord) (*BlipStore, error) {
	if container == nil {
		container = NewContainer(BStoreContainerID)
	}
	if container.RecordID() != BStoreContainerID {
		return nil, fmt.Errorf("%w: 0x%04X is not a blip store container", ErrInvalidRecord, container.RecordID())
	}

	s := &BlipStore{container: container, index: make(map[uint64][]int)}
	for i, child := range container.ChildRecords() {
		bse, ok := child.(*BSERecord)
		if !ok {
			continue
		}
		blip, ok := bse.Blip.(Blip)
		if !ok {
			continue
		}
		data, err := blip.PictureData()
		if err != nil {
			continue
		}
		h := xxhash.Sum64(data)
		s.index[h] = append(s.index[h], i)
	}
	return s, nil
}

// Container returns the underlying BStoreContainer.
func (s *BlipStore) Container() *ContainerRecord {
	return s.container
}

// Len returns the number of entries.
func (s *BlipStore) Len() int {
	return len(s.container.ChildRecords())
}

// Add stores a picture and returns its 1-based blip id. Bitmaps are stored
// as given; metafiles are deflated.
func (s *BlipStore) Add(blipType uint8, data []byte) (int, error) {
	h := xxhash.Sum64(data)
	for _, i := range s.index[h] {
		bse := s.container.ChildRecords()[i].(*BSERecord)
		existing, err := bse.Blip.(Blip).PictureData()
		if err == nil && bytes.Equal(existing, data) {
			bse.Ref++
			return i + 1, nil
		}
	}

	var blip Blip
	var err error
	switch blipType {
	case BlipTypeEMF, BlipTypeWMF, BlipTypePICT:
		blip, err = NewMetafileBlipRecord(blipType, data, Rect{})
	default:
		blip, err = NewBitmapBlipRecord(blipType, data)
	}
	if err != nil {
		return 0, err
	}

	s.container.AddChild(NewBSERecord(blipType, blip))
	i := s.Len() - 1
	s.index[h] = append(s.index[h], i)
	s.container.SetInstance(uint16(s.Len()))
	return i + 1, nil
}

// Entry returns the BSE for a 1-based blip id.
func (s *BlipStore) Entry(id int) (*BSERecord, error) {
	children := s.container.ChildRecords()
	if id < 1 || id > len(children) {
		return nil, fmt.Errorf("%w: id %d of %d", ErrBlipNotFound, id, len(children))
	}
	bse, ok := children[id-1].(*BSERecord)
	if !ok {
		return nil, fmt.Errorf("%w: id %d is a %s record", ErrBlipNotFound, id, children[id-1].Name())
	}
	return bse, nil
}

// Release decrements the reference count of a blip id.
func (s *BlipStore) Release(id int) error {
	bse, err := s.Entry(id)
	if err != nil {
		return err
	}
	if bse.Ref > 0 {
		bse.Ref--
	}
	return nil
}
