// Package jsonfile persists entity collections as pretty-printed JSON
// arrays, one file per entity kind (students.json, instructors.json,
// courses.json).
//
// Save is an upsert-merge, not a dump: records already in the file
// survive a save even when the in-memory collection no longer contains
// them, and records that are re-saved are shallow-merged field by
// field with the incoming values winning. Saving the same collection
// twice produces byte-identical file content.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"reflect"

	"github.com/aanand-mishra/school-records/internal/storage"
)

// Mapper is the serialization contract entities satisfy: a flat
// mapping of primitive fields, keyed the way the JSON files are keyed.
type Mapper interface {
	ToMap() map[string]any
}

// Save upserts entities into the JSON array at filename, keyed by
// keyField (e.g. "student_id").
//
// Prior state is whatever parses from the existing file; a missing
// file or malformed content is treated as an empty prior state, never
// an error. Existing records keep their file order; new keys append in
// the order the entities arrive. Entities that are nil or whose key
// field is empty are skipped.
func Save[T Mapper](filename string, entities []T, keyField string) error {
	existing := loadExisting(filename)

	// Index the prior records by stringified key, remembering order so
	// output is stable across repeated saves.
	byKey := make(map[string]map[string]any, len(existing))
	order := make([]string, 0, len(existing))
	for _, record := range existing {
		keyValue, ok := record[keyField]
		if !ok || keyValue == nil {
			// Records without the key cannot be addressed by an
			// upsert and are dropped, matching Save's output shape.
			continue
		}
		key := fmt.Sprint(keyValue)
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = record
	}

	for _, entity := range entities {
		if isNil(entity) {
			continue
		}
		record := entity.ToMap()
		keyValue, ok := record[keyField]
		if !ok || keyValue == nil {
			continue
		}
		key := fmt.Sprint(keyValue)
		if key == "" {
			continue
		}

		// Shallow merge: stored fields not in the incoming record
		// survive, everything else takes the incoming value.
		merged, seen := byKey[key]
		if !seen {
			merged = make(map[string]any, len(record))
			order = append(order, key)
		}
		for field, value := range record {
			merged[field] = value
		}
		byKey[key] = merged
	}

	records := make([]map[string]any, 0, len(order))
	for _, key := range order {
		records = append(records, byKey[key])
	}

	return writePretty(filename, records)
}

// isNil catches both a nil interface value and a typed nil pointer
// inside the interface; the latter would pass a plain == nil check
// and then panic inside ToMap.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// loadExisting reads the prior array, keeping each element that is an
// object and dropping the rest. The filter is per element: a stray
// scalar in the array must not take the object records next to it
// down with it. Any read or parse failure yields an empty prior state,
// since Save must succeed against a missing or corrupt file.
func loadExisting(filename string) []map[string]any {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil
	}
	var parsed []any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil
	}
	records := make([]map[string]any, 0, len(parsed))
	for _, entry := range parsed {
		if m, ok := entry.(map[string]any); ok {
			records = append(records, m)
		}
	}
	return records
}

// Overwrite replaces the file's content with the pretty-printed
// serialization of data. No merge.
func Overwrite(filename string, data any) error {
	return writePretty(filename, data)
}

// Load parses the file at filename and returns the value as-is: no
// schema validation happens at this layer. A missing file is
// storage.ErrNotFound; unparseable content is storage.ErrMalformed.
func Load(filename string) (any, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, filename)
		}
		return nil, fmt.Errorf("Load: read %s: %w", filename, err)
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", storage.ErrMalformed, filename, err)
	}
	return data, nil
}

// writePretty serializes with 4-space indentation and HTML escaping
// off, so "ann&bob@x.com" round-trips as typed. Map keys marshal in
// sorted order, which is what makes repeated saves byte-identical.
func writePretty(filename string, data any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("writePretty: encode: %w", err)
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writePretty: write %s: %w", filename, err)
	}
	return nil
}
