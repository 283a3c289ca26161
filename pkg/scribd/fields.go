package scribd

import (
	"fmt"
	"sort"
	"strconv"
)

// Fields holds the arguments of an API call. Nil values are not sent.
type Fields map[string]any

// File is a field value sent as a file part.
type File struct {
	Name string
	Data []byte
}

// clone returns a shallow copy of f that is safe to mutate.
func (f Fields) clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// with returns a copy of f with the given extra fields set.
func (f Fields) with(extra Fields) Fields {
	out := f.clone()
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// formField is a normalized field ready for signing and encoding.
type formField struct {
	Name  string
	Value string
	File  *File
}

// normalize drops nil fields, stringifies scalar values and returns the
// result sorted by name.
func (f Fields) normalize() []formField {
	out := make([]formField, 0, len(f))
	for name, v := range f {
		if v == nil {
			continue
		}
		switch val := v.(type) {
		case File:
			file := val
			out = append(out, formField{Name: name, File: &file})
		case *File:
			if val == nil {
				continue
			}
			out = append(out, formField{Name: name, File: val})
		default:
			out = append(out, formField{Name: name, Value: formatValue(v)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// formatValue renders a scalar without locale-dependent formatting.
func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(val)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
