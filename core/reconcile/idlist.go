package reconcile

import (
	"database/sql/driver"
	"encoding/json"
	"strconv"
	"strings"
)

// IDList is a de-duplicated list of ids persisted as a JSON array in a text column.
// Scanning never fails: NULL, empty or malformed content decodes as an empty list.
type IDList []uint

// Value encodes the list as a JSON array. A nil list is stored as "[]".
func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]uint(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan decodes a stored list, treating anything unreadable as empty. SQL NULL scans
// as a nil list so callers can tell a never-written column apart from "[]".
func (l *IDList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	*l = DecodeIDList(src)
	return nil
}

// OrNil returns nil for a nil list and the list otherwise. Record attributes use it so
// a NULL column compares unequal to an empty list and gets written once.
func (l IDList) OrNil() any {
	if l == nil {
		return nil
	}
	return l
}

// Contains reports whether id is in the list.
func (l IDList) Contains(id uint) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// DecodeIDList parses a serialized id list. It accepts JSON arrays of numbers or
// numeric strings (["12","13"] as written by older writers) and drops duplicates,
// zero and non-positive entries. Any other input yields an empty list.
func DecodeIDList(src any) IDList {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return IDList{}
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case IDList:
		return MergeIDs(nil, v...)
	case []uint:
		return MergeIDs(nil, v...)
	default:
		return IDList{}
	}

	if len(strings.TrimSpace(string(raw))) == 0 {
		return IDList{}
	}

	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return IDList{}
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case float64:
			if v > 0 && v == float64(uint(v)) {
				ids = append(ids, uint(v))
			}
		case string:
			n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
			if err == nil && n > 0 {
				ids = append(ids, uint(n))
			}
		}
	}
	return MergeIDs(nil, ids...)
}

// MergeIDs returns the union of stored and ids, keeping first-insertion order.
// The result contains every id of stored, so repeated merges never shrink the set.
// Zero ids are ignored.
func MergeIDs(stored IDList, ids ...uint) IDList {
	out := make(IDList, 0, len(stored)+len(ids))
	seen := make(map[uint]struct{}, len(stored)+len(ids))

	add := func(id uint) {
		if id == 0 {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	for _, id := range stored {
		add(id)
	}
	for _, id := range ids {
		add(id)
	}
	return out
}
