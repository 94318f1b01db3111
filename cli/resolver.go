package cli

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/jsonscript/lang"
)

var errConfigShape = errors.New("configuration must be a mapping")

// loadYAML is a [kong.ConfigurationLoader] for YAML configuration files.
//
// Nested mappings name flags by joining keys with '-', and keys may use '_'
// in place of '-'. For example, both of these set --log-level and
// --max-depth:
//
//	log:
//	  level: debug
//	max_depth: 64
//
//	log-level: debug
//	max-depth: 64
//
// Command-line flags override configuration values.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	data, err := lang.Decode(r)
	if err != nil {
		return nil, err
	}

	m, ok := data.(map[string]any)
	if !ok && data != nil {
		return nil, errConfigShape
	}

	values := config{}
	values.flatten("", m)

	return values, nil
}

// config implements [kong.Resolver] over flattened configuration values.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		name := strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			name = prefix + "-" + name
		}

		if sub, ok := value.(map[string]any); ok {
			c.flatten(name, sub)
		}

		c[name] = flagValue(value)
	}
}

// flagValue converts numbers to strings, which kong parses for every
// numeric flag type.
func flagValue(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = flagValue(e)
		}

		return out
	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	return nil, nil
}
