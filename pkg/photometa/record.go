package photometa

import "encoding/json"

// Record is a photo-metadata record: the canonical field set with
// independently nullable values. JSON numbers decode as float64,
// booleans as bool, everything else as string.
type Record map[string]any

// Template returns a fresh record with every canonical field present and
// null. It is rendered into fresh-extraction prompts so the model sees the
// exact key set it must return.
func Template() Record {
	rec := make(Record, len(Fields))
	for _, f := range Fields {
		rec[f.Name] = nil
	}
	return rec
}

// Clone returns a shallow copy of the record. Values are JSON scalars, so a
// shallow copy is a full copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Has reports whether the record carries a non-null value for the field.
func (r Record) Has(name string) bool {
	v, ok := r[name]
	return ok && v != nil
}

// String returns a non-null string value, or "" when absent or not a string.
func (r Record) String(name string) string {
	s, _ := r[name].(string)
	return s
}

// Number returns a non-null numeric value and whether it was present.
// JSON decoding yields float64 for all numbers.
func (r Record) Number(name string) (float64, bool) {
	n, ok := r[name].(float64)
	return n, ok
}

// MarshalOrdered serializes the record with keys in canonical field order.
// Unknown keys (possible on records that bypassed validation) are dropped.
func (r Record) MarshalOrdered() ([]byte, error) {
	buf := []byte{'{'}
	first := true
	for _, f := range Fields {
		v, ok := r[f.Name]
		if !ok {
			continue
		}
		if !first {
			buf = append(buf, ',')
		}
		first = false
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	return append(buf, '}'), nil
}

// Merge returns a new record where non-null values from update replace the
// previous values and null or missing update values preserve prev. Neither
// argument is mutated. Callers threading a record across invocations use
// this to fold a later extraction into an earlier one.
func Merge(prev, update Record) Record {
	out := prev.Clone()
	for k, v := range update {
		if v != nil {
			out[k] = v
		}
	}
	return out
}
