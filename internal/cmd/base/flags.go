package base

import (
	"bytes"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
)

// FlagSet wraps a standard flag set with help rendering for cli commands.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet creates a FlagSet that does not print to stderr; usage is
// rendered by Help.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	f.SetOutput(&bytes.Buffer{})
	return &FlagSet{FlagSet: f}
}

// Help returns the options section of a command's help text.
func (f *FlagSet) Help() string {
	var b strings.Builder
	b.WriteString("\n\nOptions:\n")
	f.VisitAll(func(fl *flag.Flag) {
		fmt.Fprintf(&b, "\n  -%s", fl.Name)
		if fl.DefValue != "" && fl.DefValue != "false" {
			fmt.Fprintf(&b, "=%s", fl.DefValue)
		}
		fmt.Fprintf(&b, "\n      %s\n", fl.Usage)
	})
	return b.String()
}

// FieldsValue collects key=value pairs. Keys are normalized to the API's
// snake_case names, so "secretPassword" and "secret-password" both become
// "secret_password".
type FieldsValue map[string]string

var _ flag.Value = FieldsValue(nil)

func (v FieldsValue) String() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+v[k])
	}
	return strings.Join(pairs, ",")
}

// Set parses one key=value pair.
func (v FieldsValue) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	v[strcase.ToSnake(key)] = value
	return nil
}

// ParseFields parses each argument as a key=value pair.
func ParseFields(args []string) (FieldsValue, error) {
	fields := FieldsValue{}
	for _, arg := range args {
		if err := fields.Set(arg); err != nil {
			return nil, err
		}
	}
	return fields, nil
}
