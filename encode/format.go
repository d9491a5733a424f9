package encode

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type Format int

const (
	YAMLFormat Format = iota
	JSONFormat
)

var ErrBadFormat = errors.New("bad format")

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"y":    YAMLFormat,
		"yaml": YAMLFormat,
		"yml":  YAMLFormat,
		"j":    JSONFormat,
		"json": JSONFormat,
	}[v]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

// FormatOf guesses the format of a file from its extension, defaulting
// to YAML, which also reads JSON.
func FormatOf(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return JSONFormat
	}
	return YAMLFormat
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case YAMLFormat:
		return []byte("yaml"), nil
	case JSONFormat:
		return []byte("json"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsJSON() bool { return f == JSONFormat }

// ContentType returns the media type of f.
func (f Format) ContentType() string {
	if f == JSONFormat {
		return "application/json"
	}
	return "application/yaml"
}

// FormatOfContentType returns the format of a media type, defaulting to
// YAML.
func FormatOfContentType(ct string) Format {
	if strings.Contains(ct, "json") {
		return JSONFormat
	}
	return YAMLFormat
}
