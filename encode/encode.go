package encode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/lexer"

	"github.com/signadot/viewd/record"
)

// Encode writes v, normalized, to w followed by a newline.
func Encode(v any, w io.Writer, opts ...EncodeOption) error {
	es := newEncState(opts)
	n, err := record.Normalize(v)
	if err != nil {
		return err
	}
	switch es.format {
	case JSONFormat:
		buf := &bytes.Buffer{}
		encodeJSON(buf, n, es, 0)
		buf.WriteByte('\n')
		_, err = w.Write(buf.Bytes())
		return err
	case YAMLFormat:
		d, err := yaml.Marshal(yamlValue(n))
		if err != nil {
			return err
		}
		if es.colors != nil {
			s := es.colors.yamlPrinter().PrintTokens(lexer.Tokenize(string(d)))
			d = []byte(strings.TrimRight(s, "\n") + "\n")
		}
		_, err = w.Write(d)
		return err
	default:
		return fmt.Errorf("%w: %d", ErrBadFormat, es.format)
	}
}

func MustString(v any, opts ...EncodeOption) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(v, buf, opts...); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}

func encodeJSON(buf *bytes.Buffer, v any, es *EncState, depth int) {
	switch x := v.(type) {
	case map[string]any:
		if len(x) == 0 {
			buf.WriteString(es.colors.Color(SepColor, "{}"))
			return
		}
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteString(es.colors.Color(SepColor, "{"))
		for i, k := range keys {
			if i > 0 {
				buf.WriteString(es.colors.Color(SepColor, ","))
			}
			writeNL(buf, es, depth+1)
			buf.WriteString(es.colors.Color(FieldColor, quote(k)))
			buf.WriteString(es.colors.Color(SepColor, ":"))
			if es.indent > 0 {
				buf.WriteByte(' ')
			}
			encodeJSON(buf, x[k], es, depth+1)
		}
		writeNL(buf, es, depth)
		buf.WriteString(es.colors.Color(SepColor, "}"))
	case []any:
		if len(x) == 0 {
			buf.WriteString(es.colors.Color(SepColor, "[]"))
			return
		}
		buf.WriteString(es.colors.Color(SepColor, "["))
		for i, e := range x {
			if i > 0 {
				buf.WriteString(es.colors.Color(SepColor, ","))
			}
			writeNL(buf, es, depth+1)
			encodeJSON(buf, e, es, depth+1)
		}
		writeNL(buf, es, depth)
		buf.WriteString(es.colors.Color(SepColor, "]"))
	case string:
		buf.WriteString(es.colors.Color(StringColor, quote(x)))
	case float64:
		d, _ := json.Marshal(x)
		buf.WriteString(es.colors.Color(NumberColor, string(d)))
	case bool:
		buf.WriteString(es.colors.Color(BoolColor, fmt.Sprint(x)))
	case nil:
		buf.WriteString(es.colors.Color(NullColor, "null"))
	}
}

func writeNL(buf *bytes.Buffer, es *EncState, depth int) {
	if es.indent <= 0 {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(" ", es.indent*depth))
}

func quote(s string) string {
	d, _ := json.Marshal(s)
	return string(d)
}

// yamlValue copies v turning integral numbers into integers, which YAML
// encoders would otherwise print with a fractional part.
func yamlValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		res := make(map[string]any, len(x))
		for k, e := range x {
			res[k] = yamlValue(e)
		}
		return res
	case []any:
		res := make([]any, len(x))
		for i, e := range x {
			res[i] = yamlValue(e)
		}
		return res
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return int64(x)
		}
		return x
	}
	return v
}
