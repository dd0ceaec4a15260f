package util

import "github.com/kr/pretty"

// PrettyExpose is implemented by types whose state lives in unexported fields.
// The returned value is dumped in their place.
type PrettyExpose interface {
	PrettyExpose() interface{}
}

func Pretty(v interface{}) string {
	return pretty.Sprintf("%# v", expose(v))
}

// PrettyDiff lists the differences between two values after exposing them.
func PrettyDiff(a, b interface{}) []string {
	return pretty.Diff(expose(a), expose(b))
}

func expose(v interface{}) interface{} {
	switch v := v.(type) {
	case PrettyExpose:
		return v.PrettyExpose()
	case []PrettyExpose:
		r := make([]interface{}, 0, len(v))
		for _, e := range v {
			r = append(r, e.PrettyExpose())
		}
		return r
	default:
		return v
	}
}
