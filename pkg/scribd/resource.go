package scribd

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mitchellh/mapstructure"
)

// Entity is a local object shadowing a server-managed record.
type Entity interface {
	// ID returns the identity derived from the entity's identity field.
	ID() string

	// Key returns the identity qualified by entity kind. Two entities are
	// equal iff their keys are equal; the key is usable as a map key.
	Key() string

	Get(name string) (any, error)
	Set(name string, value any) error
	Snapshot() map[string]any
}

var (
	_ Entity = (*User)(nil)
	_ Entity = (*VirtualUser)(nil)
	_ Entity = (*Document)(nil)
)

// Equal reports whether a and b refer to the same remote record.
func Equal(a, b Entity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key()
}

// structuralSetter assigns name to a typed slot of the concrete entity. It
// returns false if name is an ordinary resource field.
type structuralSetter func(name string, value any) (bool, error)

// Resource holds the remote fields of an entity.
//
// Stored fields are the values last confirmed by the server. Pending fields
// are local edits that have not been saved yet and shadow stored fields of
// the same name.
type Resource struct {
	stored     map[string]any
	pending    map[string]any
	structural structuralSetter
}

func newResource(structural structuralSetter) Resource {
	return Resource{
		stored:     make(map[string]any),
		pending:    make(map[string]any),
		structural: structural,
	}
}

// LoadFrom stores the text of every child element of el, coerced by its
// "type" attribute. A loaded field supersedes any pending edit of the same
// name; other pending edits are kept.
func (r *Resource) LoadFrom(el *Element) {
	if el == nil {
		return
	}
	for _, child := range el.Children {
		text, ok := child.Text()
		if !ok {
			continue
		}
		r.stored[child.Name] = coerce(text, child.Attrs["type"])
		delete(r.pending, child.Name)
	}
}

func coerce(text, typ string) any {
	switch typ {
	case "integer":
		if v, err := strconv.Atoi(text); err == nil {
			return v
		}
	case "float":
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			return v
		}
	}
	return text
}

// Get returns the pending value of name, or the stored one.
func (r *Resource) Get(name string) (any, error) {
	if v, ok := r.pending[name]; ok {
		return v, nil
	}
	if v, ok := r.stored[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
}

// Has reports whether name is pending or stored.
func (r *Resource) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

// Set records a local edit of name. Structural attributes of the concrete
// entity (owner, session key, virtual user id) are assigned directly.
func (r *Resource) Set(name string, value any) error {
	if r.structural != nil {
		handled, err := r.structural(name, value)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}
	if r.pending == nil {
		r.pending = make(map[string]any)
	}
	r.pending[name] = value
	return nil
}

// Snapshot returns the stored fields overlaid with the pending ones.
func (r *Resource) Snapshot() map[string]any {
	out := make(map[string]any, len(r.stored)+len(r.pending))
	for k, v := range r.stored {
		out[k] = v
	}
	for k, v := range r.pending {
		out[k] = v
	}
	return out
}

// Pending returns a copy of the unsaved edits.
func (r *Resource) Pending() map[string]any {
	out := make(map[string]any, len(r.pending))
	for k, v := range r.pending {
		out[k] = v
	}
	return out
}

// Dirty reports whether there are unsaved edits.
func (r *Resource) Dirty() bool {
	return len(r.pending) > 0
}

// GetString returns name rendered as a string.
func (r *Resource) GetString(name string) (string, error) {
	v, err := r.Get(name)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return formatValue(v), nil
}

// GetInt returns name as an int, converting from text if needed.
func (r *Resource) GetInt(name string) (int, error) {
	v, err := r.Get(name)
	if err != nil {
		return 0, err
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	case string:
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("attribute %q is not an integer: %w", name, err)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("attribute %q is not an integer: %T", name, v)
	}
}

// Time parses name as a date, accepting any layout the API is known to
// return.
func (r *Resource) Time(name string) (time.Time, error) {
	s, err := r.GetString(name)
	if err != nil {
		return time.Time{}, err
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("attribute %q is not a date: %w", name, err)
	}
	return t, nil
}

// Decode copies the snapshot into out, which must be a pointer to a struct
// with mapstructure tags. Values are converted between scalar types as
// needed.
func (r *Resource) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       stringToTimeHook,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(r.Snapshot()); err != nil {
		return fmt.Errorf("failed to decode attributes: %w", err)
	}
	return nil
}

// stringToTimeHook parses date strings in any layout dateparse knows.
func stringToTimeHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}
	s := reflect.ValueOf(data).String()
	if s == "" {
		return time.Time{}, nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not a date: %w", s, err)
	}
	return t, nil
}

// commit promotes pending edits to stored fields. Call only after the server
// acknowledged them.
func (r *Resource) commit() {
	for k, v := range r.pending {
		r.stored[k] = v
	}
	r.pending = make(map[string]any)
}

// mergeStored copies stored fields of other into r, except the names in
// skip.
func (r *Resource) mergeStored(other *Resource, skip ...string) {
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[s] = true
	}
	for k, v := range other.stored {
		if skipped[k] {
			continue
		}
		r.stored[k] = v
	}
}

// identity returns field as a string, or sentinel if it is unset.
func (r *Resource) identity(field, sentinel string) string {
	v, err := r.Get(field)
	if err != nil || v == nil {
		return sentinel
	}
	return formatValue(v)
}
