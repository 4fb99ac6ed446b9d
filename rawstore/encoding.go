package rawstore

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/Isthali/processingdata/dataimport"
	"github.com/golang/snappy"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	RawTablePrefix byte = 0x00 // raw acquisition table of a specimen
	MetaDataPrefix byte = 0x01 // per-specimen metadata (import time)
)

func encodeSpecimenKey(prefix byte, specimenID string) []byte {
	idBytes := []byte(specimenID)
	key := make([]byte, 1+len(idBytes))
	key[0] = prefix
	copy(key[1:], idBytes)
	return key
}

func encodeTable(table *dataimport.Table) ([]byte, error) {
	raw, err := msgpack.Marshal(table)
	if err != nil {
		return nil, fmt.Errorf("failed to encode table: %w", err)
	}
	return snappy.Encode(nil, raw), nil
}

func decodeTable(data []byte) (*dataimport.Table, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode table: %w", err)
	}
	var table dataimport.Table
	if err := msgpack.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("failed to decode table: %w", err)
	}
	return &table, nil
}

func encodeTime(t time.Time) []byte {
	buf := make([]byte, 16)
	utc := t.UTC()
	binary.BigEndian.PutUint64(buf[0:8], uint64(utc.Unix()))
	binary.BigEndian.PutUint64(buf[8:16], uint64(utc.Nanosecond()))
	return buf
}

func decodeTime(data []byte) (time.Time, error) {
	if len(data) != 16 {
		return time.Time{}, fmt.Errorf("invalid byte slice length: expected 16, got %d", len(data))
	}
	seconds := int64(binary.BigEndian.Uint64(data[0:8]))
	nanoseconds := int64(binary.BigEndian.Uint64(data[8:16]))
	return time.Unix(seconds, nanoseconds).UTC(), nil
}
