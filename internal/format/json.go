package format

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"
	"strings"
)

func init() {
	Register("json", JSON)
}

// JSON reformats a structured log message: string leaf values are stripped of
// surrounding whitespace and embedded newlines, named keys can be removed,
// literal key:value pairs dropped, and keys optionally sorted. Messages that
// are not a single JSON object are returned unchanged.
//
// Options:
//
//	remove_keys:     comma-separated top-level keys to drop
//	key_value_pairs: comma-separated "key:value" pairs; a top-level string
//	                 field equal to the value is dropped
//	sort:            any non-empty value sorts keys at every level
func JSON(message string, options map[string]string) string {
	obj, err := decodeObject(message)
	if err != nil {
		return message
	}

	if keys := options["remove_keys"]; keys != "" {
		for _, key := range strings.Split(keys, ",") {
			obj.remove(strings.TrimSpace(key))
		}
	}
	if pairs := options["key_value_pairs"]; pairs != "" {
		for _, pair := range strings.Split(pairs, ",") {
			key, value, ok := strings.Cut(strings.TrimSpace(pair), ":")
			if !ok {
				continue
			}
			if s, found := obj.get(key).(string); found && s == value {
				obj.remove(key)
			}
		}
	}

	cleanValue(obj, options["sort"] != "")

	out, err := encodeValue(obj)
	if err != nil {
		return message
	}
	return out
}

// member preserves the decode order of object keys, which encoding/json maps
// would lose.
type member struct {
	key   string
	value any
}

type object struct {
	members []member
}

func (o *object) get(key string) any {
	for _, m := range o.members {
		if m.key == key {
			return m.value
		}
	}
	return nil
}

func (o *object) remove(key string) {
	for i, m := range o.members {
		if m.key == key {
			o.members = append(o.members[:i], o.members[i+1:]...)
			return
		}
	}
}

// cleanValue strips whitespace and newlines from string leaves, recursing
// through objects and arrays, and optionally sorts object keys.
func cleanValue(v any, sortKeys bool) {
	switch val := v.(type) {
	case *object:
		for i, m := range val.members {
			if s, ok := m.value.(string); ok {
				val.members[i].value = strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
			} else {
				cleanValue(m.value, sortKeys)
			}
		}
		if sortKeys {
			sort.SliceStable(val.members, func(i, j int) bool {
				return val.members[i].key < val.members[j].key
			})
		}
	case []any:
		for i, item := range val {
			if s, ok := item.(string); ok {
				val[i] = strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
			} else {
				cleanValue(item, sortKeys)
			}
		}
	}
}

// decodeObject parses a message that is exactly one JSON object, keeping key
// order. Anything else (arrays, scalars, trailing garbage) is an error so the
// caller can fall back to the raw message.
func decodeObject(message string) (*object, error) {
	dec := json.NewDecoder(strings.NewReader(message))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, io.ErrUnexpectedEOF
	}
	obj, err := decodeMembers(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, io.ErrUnexpectedEOF
	}
	return obj, nil
}

// decodeMembers reads object members after the opening brace.
func decodeMembers(dec *json.Decoder) (*object, error) {
	obj := &object{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, io.ErrUnexpectedEOF
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.members = append(obj.members, member{key: key, value: value})
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeMembers(dec)
		case '[':
			var arr []any
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		default:
			return nil, io.ErrUnexpectedEOF
		}
	default:
		return t, nil
	}
}

// encodeValue serializes a decoded value back to JSON without HTML escaping,
// preserving object member order.
func encodeValue(v any) (string, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case *object:
		buf.WriteByte('{')
		for i, m := range val.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeScalar(buf, m.key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeValue(buf, m.value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case json.Number:
		buf.WriteString(val.String())
		return nil
	default:
		return writeScalar(buf, v)
	}
}

func writeScalar(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode appends a newline; JSON output must stay single-line.
	buf.Truncate(buf.Len() - 1)
	return nil
}
