package migration

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/wth/internal/constants"
	"github.com/julianstephens/wth/internal/models"
)

// Shape identifies which historical layout a persisted check-in used.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeLegacy        // {won: bool}, no hour_result
	ShapeUntagged      // hour_result present, no schema tag
	ShapeCurrent       // "v": 2
)

func (s Shape) String() string {
	switch s {
	case ShapeLegacy:
		return "legacy"
	case ShapeUntagged:
		return "untagged"
	case ShapeCurrent:
		return "current"
	default:
		return "unknown"
	}
}

// ErrUnknownShape is returned for records matching no known layout.
var ErrUnknownShape = errors.New("unrecognized check-in record shape")

type shapeHint struct {
	Version    *int    `json:"v"`
	HourResult *string `json:"hour_result"`
	Won        *bool   `json:"won"`
}

// DecodeRecord decodes one persisted check-in of any historical shape into the
// current form. The returned record always carries the current schema tag, so
// decoding its encoding yields the same record.
func DecodeRecord(raw json.RawMessage) (models.CheckInRecord, Shape, error) {
	var p shapeHint
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.CheckInRecord{}, ShapeUnknown, fmt.Errorf("decode check-in: %w", err)
	}

	shape := ShapeUnknown
	switch {
	case p.Version != nil:
		if *p.Version != constants.CheckInSchemaVersion {
			return models.CheckInRecord{}, ShapeUnknown, fmt.Errorf("%w: schema version %d", ErrUnknownShape, *p.Version)
		}
		shape = ShapeCurrent
	case p.HourResult != nil:
		shape = ShapeUntagged
	case p.Won != nil:
		shape = ShapeLegacy
	default:
		return models.CheckInRecord{}, ShapeUnknown, ErrUnknownShape
	}

	var rec models.CheckInRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.CheckInRecord{}, ShapeUnknown, fmt.Errorf("decode %s check-in: %w", shape, err)
	}

	if shape == ShapeLegacy {
		rec.Result = models.ResultLoss
		if *p.Won {
			rec.Result = models.ResultWin
		}
	}

	if !rec.Result.Valid() {
		return models.CheckInRecord{}, ShapeUnknown, fmt.Errorf("%w: hour_result %q", ErrUnknownShape, rec.Result)
	}
	if rec.Hour < 0 || rec.Hour >= constants.HoursPerDay {
		return models.CheckInRecord{}, ShapeUnknown, fmt.Errorf("%w: hour %d", ErrUnknownShape, rec.Hour)
	}

	return rec.Normalize(), shape, nil
}

// Decoded is a persisted check-in array split into readable records and
// entries this version cannot read.
type Decoded struct {
	// Records holds one record per (date, hour). When a slot is stored more
	// than once the last entry wins and keeps the first entry's position.
	Records []models.CheckInRecord
	// Shadowed holds the earlier entries of duplicated slots.
	Shadowed []models.CheckInRecord
	// Unreadable holds undecodable entries exactly as stored.
	Unreadable []json.RawMessage
}

// All returns shadowed entries followed by the live records, i.e. every
// decoded entry. Validation uses it to report duplicates.
func (d Decoded) All() []models.CheckInRecord {
	all := make([]models.CheckInRecord, 0, len(d.Shadowed)+len(d.Records))
	all = append(all, d.Shadowed...)
	return append(all, d.Records...)
}

// DecodeRecords decodes a persisted check-in array. Records that fail to decode
// are reported through skip and kept in Unreadable; only a malformed array is
// an error.
func DecodeRecords(data []byte, skip func(index int, err error)) (Decoded, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return Decoded{}, fmt.Errorf("decode check-in array: %w", err)
	}

	dec := Decoded{Records: make([]models.CheckInRecord, 0, len(raws))}
	pos := make(map[models.SlotKey]int, len(raws))
	for i, raw := range raws {
		rec, _, err := DecodeRecord(raw)
		if err != nil {
			if skip != nil {
				skip(i, err)
			}
			dec.Unreadable = append(dec.Unreadable, raw)
			continue
		}
		if j, ok := pos[rec.Key()]; ok {
			dec.Shadowed = append(dec.Shadowed, dec.Records[j])
			dec.Records[j] = rec
			continue
		}
		pos[rec.Key()] = len(dec.Records)
		dec.Records = append(dec.Records, rec)
	}
	return dec, nil
}

// EncodeRecords encodes records in the current shape. keep entries are
// appended unchanged.
func EncodeRecords(records []models.CheckInRecord, keep ...json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := json.Marshal(r.Normalize())
		if err != nil {
			return nil, fmt.Errorf("encode check-in %s: %w", r.Key(), err)
		}
		buf.Write(data)
	}
	for i, raw := range keep {
		if i > 0 || len(records) > 0 {
			buf.WriteByte(',')
		}
		buf.Write(raw)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
