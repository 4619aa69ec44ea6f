package market

import (
	"bytes"
	"encoding/json"
	"strconv"

	scouterr "sjsage522/vintedscout/pkg/errors"
)

// fieldReader walks a JSON document and records every problem it meets
// instead of stopping at the first one.
type fieldReader struct {
	issues []scouterr.FieldIssue
}

// object is a decoded JSON object positioned at path
type object struct {
	r    *fieldReader
	path string
	raw  map[string]json.RawMessage
}

func (r *fieldReader) fail(path, reason string) {
	if path == "" {
		path = "$"
	}
	r.issues = append(r.issues, scouterr.FieldIssue{Field: path, Reason: reason})
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// objectAt decodes raw as an object; a non-object records an issue
func (r *fieldReader) objectAt(path string, raw json.RawMessage) (object, bool) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		r.fail(path, "expected object")
		return object{}, false
	}
	return object{r: r, path: path, raw: m}, true
}

func (o object) childPath(name string) string {
	if o.path == "" {
		return name
	}
	return o.path + "." + name
}

func (o object) lookup(name string, required bool) (json.RawMessage, bool) {
	raw, ok := o.raw[name]
	if !ok || isNull(raw) {
		if required {
			o.r.fail(o.childPath(name), "missing")
		}
		return nil, false
	}
	return raw, true
}

func (o object) String(name string, required bool) string {
	raw, ok := o.lookup(name, required)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		o.r.fail(o.childPath(name), "expected string")
		return ""
	}
	return s
}

func (o object) Int(name string, required bool) int64 {
	raw, ok := o.lookup(name, required)
	if !ok {
		return 0
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] == '"' {
		o.r.fail(o.childPath(name), "expected integer")
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		o.r.fail(o.childPath(name), "expected integer")
		return 0
	}
	v, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		o.r.fail(o.childPath(name), "expected integer")
		return 0
	}
	return v
}

func (o object) Bool(name string, required bool) bool {
	raw, ok := o.lookup(name, required)
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		o.r.fail(o.childPath(name), "expected boolean")
		return false
	}
	return b
}

// Fraction reads a decimal sent as a string ("0.10") and checks it is within [0,1]
func (o object) Fraction(name string, required bool) float64 {
	raw, ok := o.lookup(name, required)
	if !ok {
		return 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// Some payloads send the fraction as a bare number.
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			o.r.fail(o.childPath(name), "expected decimal")
			return 0
		}
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		o.r.fail(o.childPath(name), "expected decimal")
		return 0
	}
	if f < 0 || f > 1 {
		o.r.fail(o.childPath(name), "out of range [0,1]")
		return 0
	}
	return f
}

func (o object) Object(name string, required bool) (object, bool) {
	raw, ok := o.lookup(name, required)
	if !ok {
		return object{}, false
	}
	return o.r.objectAt(o.childPath(name), raw)
}

func (o object) Array(name string, required bool) ([]json.RawMessage, bool) {
	raw, ok := o.lookup(name, required)
	if !ok {
		return nil, false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		o.r.fail(o.childPath(name), "expected array")
		return nil, false
	}
	return elems, true
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
