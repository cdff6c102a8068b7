package ddf

import (
	"github.com/sirupsen/logrus"

	"github.com/skdltmxn/ole-go/internal/logging"
	"github.com/skdltmxn/ole-go/internal/options"
)

// Factory decodes escher record streams.
type Factory struct {
	maxRecordLength int
	log             logrus.FieldLogger
}

// NewFactory creates a Factory.
func NewFactory(opts ...Option) (*Factory, error) {
	cfg := &config{
		maxRecordLength: DefaultMaxRecordLength,
		logger:          logging.Discard(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	return &Factory{maxRecordLength: cfg.maxRecordLength, log: cfg.logger}, nil
}

// ParseRecords decodes a stream of records with a default Factory.
func ParseRecords(data []byte, opts ...Option) ([]Record, error) {
	f, err := NewFactory(opts...)
	if err != nil {
		return nil, err
	}
	return f.ParseAll(data)
}

// ParseAll decodes consecutive records until data is exhausted.
func (f *Factory) ParseAll(data []byte) ([]Record, error) {
	return f.parseRun(data, 0)
}

// ParseRecord decodes the record at offset and returns it together with the
// number of bytes it occupies.
func (f *Factory) ParseRecord(data []byte, offset int) (Record, int, error) {
	return f.parseAt(data, offset, 0)
}

// parseRun decodes a sequence of sibling records. Error offsets are relative
// to data.
func (f *Factory) parseRun(data []byte, depth int) ([]Record, error) {
	var records []Record
	offset := 0
	for offset < len(data) {
		rec, n, err := f.parseAt(data, offset, depth)
		if err != nil {
			return records, err
		}
		records = append(records, rec)
		offset += n
	}
	return records, nil
}

func (f *Factory) parseAt(data []byte, offset, depth int) (Record, int, error) {
	if offset < 0 || offset > len(data) {
		return nil, 0, &RecordError{Offset: offset, Err: ErrRecordTruncated}
	}
	if depth > maxDepth {
		return nil, 0, &RecordError{Offset: offset, Err: ErrNestingTooDeep}
	}

	h, err := ReadHeader(data[offset:])
	if err != nil {
		return nil, 0, &RecordError{Offset: offset, Err: err}
	}
	if int64(h.Length) > int64(f.maxRecordLength) {
		return nil, 0, &RecordError{Offset: offset, RecordID: h.RecordID, Err: ErrRecordTooLarge}
	}
	end := int64(offset) + HeaderSize + int64(h.Length)
	if end > int64(len(data)) {
		return nil, 0, &RecordError{Offset: offset, RecordID: h.RecordID, Err: ErrRecordTruncated}
	}

	rec := f.newRecord(h)
	rec.setHeader(h)
	body := data[offset+HeaderSize : end]
	if err := rec.decode(body, f, depth); err != nil {
		if re, ok := err.(*RecordError); ok {
			re.Offset += offset + HeaderSize
			return nil, 0, re
		}
		return nil, 0, &RecordError{Offset: offset, RecordID: h.RecordID, Err: err}
	}

	return rec, HeaderSize + int(h.Length), nil
}

func (f *Factory) newRecord(h Header) Record {
	switch id := h.RecordID; {
	case id >= DggContainerID && id <= SolverContainerID:
		return &ContainerRecord{}
	case id == DggID:
		return &DggRecord{}
	case id == BSEID:
		return &BSERecord{}
	case id == DgID:
		return &DgRecord{}
	case id == SpgrID:
		return &SpgrRecord{}
	case id == SpID:
		return &SpRecord{}
	case id == OptID, id == TertiaryOptID:
		return &OptRecord{}
	case id == ClientTextboxID:
		return &TextboxRecord{}
	case id == ChildAnchorID:
		return &ChildAnchorRecord{}
	case id == ClientAnchorID:
		return &ClientAnchorRecord{}
	case id == ClientDataID:
		return &ClientDataRecord{}
	case id == SplitMenuColorsID:
		return &SplitMenuColorsRecord{}
	case id >= BlipStartID && id <= BlipEndID:
		return newBlipRecord(id)
	default:
		f.log.WithFields(logrus.Fields{
			"id":       id,
			"instance": h.Instance(),
			"length":   h.Length,
		}).Debug("ddf: unknown record")
		return &UnknownRecord{}
	}
}
