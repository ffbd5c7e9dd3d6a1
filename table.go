package plotstyle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Table is a string key and value map that remembers the order each key was first seen.
// The zero value is an empty table that is ready to use.
type Table struct {
	keys   []string
	values map[string]string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{values: map[string]string{}}
}

// Set assigns the value to key. A key that already exists keeps its original position.
func (t *Table) Set(key, value string) {
	if t.values == nil {
		t.values = map[string]string{}
	}
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Get returns the value of key and whether it exists.
func (t *Table) Get(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.values[key]
	return v, ok
}

// Len returns the number of keys.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns a copy of the keys in first seen order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.keys...)
}

// Each calls fn for every key and value in first seen order.
func (t *Table) Each(fn func(key, value string)) {
	if t == nil {
		return
	}
	for _, k := range t.keys {
		fn(k, t.values[k])
	}
}

// MarshalJSON encodes the table as a JSON object in first seen key order.
func (t *Table) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range t.Keys() {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("table key %q: %w", k, err)
		}
		val, err := json.Marshal(t.values[k])
		if err != nil {
			return nil, fmt.Errorf("table value %q: %w", k, err)
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// tables are the parsed global values and the named tables of a payload.
type tables struct {
	globals *Table
	named   map[string]*Table
}

// tokenize reads the decompressed payload line by line.
// Lines that are not a table open, a table close, or a key=value pair are ignored.
func tokenize(s string) tables {
	t := tables{
		globals: NewTable(),
		named:   map[string]*Table{},
	}
	current := ""
	for line := range strings.Lines(s) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if name, ok := tableOpen(line); ok {
			current = name
			t.named[name] = NewTable()
			continue
		}
		if line == "}" {
			current = ""
			continue
		}
		key, val, ok := pair(line)
		if !ok {
			continue
		}
		if current == "" {
			t.globals.Set(key, val)
			continue
		}
		t.named[current].Set(key, val)
	}
	return t
}

// tableOpen reports whether the line is a table name immediately followed by an opening brace.
func tableOpen(line string) (string, bool) {
	name, ok := strings.CutSuffix(line, "{")
	if !ok || name == "" {
		return "", false
	}
	for i := range len(name) {
		if !word(name[i]) {
			return "", false
		}
	}
	return name, true
}

func word(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}

// pair splits the line on the first '=' into a trimmed key and value.
// A value enclosed by double quotes has one pair of quotes removed.
func pair(line string) (string, string, bool) {
	i := strings.IndexByte(line, '=')
	if i <= 0 {
		return "", "", false
	}
	key := strings.TrimSpace(line[:i])
	val := strings.TrimSpace(line[i+1:])
	const quote = '"'
	if len(val) >= 2 && val[0] == quote && val[len(val)-1] == quote {
		val = val[1 : len(val)-1]
	}
	return key, val, true
}
