package inject

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Value is a secret value classified once as either Scalar or Object.
type Value interface {
	isValue()
}

// Scalar is exported as a single variable.
type Scalar struct {
	Text string
}

// Field is one top-level key of a JSON object.
type Field struct {
	Key   string
	Value string
}

// Object is exported as one variable per field, in document order.
type Object struct {
	Fields []Field
}

func (Scalar) isValue() {}
func (Object) isValue() {}

// Classify decides how raw is exported. When parseJSON is set and raw is a
// JSON object, every top-level key becomes a Field: string values are
// unquoted, anything else is kept as compact JSON text. A key repeated in the
// document keeps its first position and its last value.
func Classify(raw string, parseJSON bool) Value {
	if !parseJSON || !gjson.Valid(raw) {
		return Scalar{Text: raw}
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return Scalar{Text: raw}
	}

	var fields []Field
	index := make(map[string]int)
	doc.ForEach(func(key, value gjson.Result) bool {
		text := value.String()
		if value.Type != gjson.String {
			text = string(pretty.Ugly([]byte(value.Raw)))
		}
		if i, ok := index[key.String()]; ok {
			fields[i].Value = text
			return true
		}
		index[key.String()] = len(fields)
		fields = append(fields, Field{Key: key.String(), Value: text})
		return true
	})
	return Object{Fields: fields}
}
