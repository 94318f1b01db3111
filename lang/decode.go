package lang

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goccy/go-yaml"
)

// Decode reads one YAML or JSON document from r.
//
// Mappings decode as map[string]any, sequences as []any, and integers that fit
// as int. An empty document decodes as nil.
func Decode(r io.Reader) (any, error) {
	var v any

	err := yaml.NewDecoder(r).Decode(&v)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}

	if err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	return normalize(v), nil
}

// DecodeString is like [Decode] but reads from s.
func DecodeString(s string) (any, error) {
	return Decode(strings.NewReader(s))
}

// normalize rewrites decoded data into the canonical shapes described by
// [Decode].
func normalize(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, e := range v {
			v[k] = normalize(e)
		}

		return v

	case map[any]any:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[fmt.Sprint(k)] = normalize(e)
		}

		return m

	case []any:
		for i, e := range v {
			v[i] = normalize(e)
		}

		return v

	case uint64:
		if v <= math.MaxInt {
			return int(v)
		}

		return v

	case int64:
		if v >= math.MinInt && v <= math.MaxInt {
			return int(v)
		}

		return v

	default:
		return v
	}
}
