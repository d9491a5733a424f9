package libdiff

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/viewd/encode"
)

type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

func (o Op) prefix() string {
	switch o {
	case Insert:
		return "+"
	case Delete:
		return "-"
	}
	return " "
}

// Line is one line of a diff.
type Line struct {
	Op   Op
	Text string
}

// Lines diffs from and to line by line.
func Lines(from, to string) []Line {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	var res []Line
	for _, d := range diffs {
		op := Equal
		switch d.Type {
		case diffpatch.DiffInsert:
			op = Insert
		case diffpatch.DiffDelete:
			op = Delete
		}
		for _, l := range strings.SplitAfter(d.Text, "\n") {
			if l == "" {
				continue
			}
			res = append(res, Line{Op: op, Text: strings.TrimSuffix(l, "\n")})
		}
	}
	return res
}

// Changed reports whether any line differs.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != Equal {
			return true
		}
	}
	return false
}

// Format renders lines with +/- prefixes, colored when colors is non nil.
func Format(lines []Line, colors *encode.Colors) string {
	var sb strings.Builder
	for _, l := range lines {
		s := l.Op.prefix() + l.Text
		switch l.Op {
		case Insert:
			s = colors.Color(encode.InsertColor, s)
		case Delete:
			s = colors.Color(encode.DeleteColor, s)
		}
		sb.WriteString(s)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Values diffs the indented JSON encodings of from and to.  A nil value
// encodes as nothing, so a new view diffs as all insertions.  The result
// is empty when they encode the same.
func Values(from, to any, colors *encode.Colors) (string, error) {
	a, err := text(from)
	if err != nil {
		return "", err
	}
	b, err := text(to)
	if err != nil {
		return "", err
	}
	lines := Lines(a, b)
	if !Changed(lines) {
		return "", nil
	}
	return Format(lines, colors), nil
}

func text(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	var sb strings.Builder
	if err := encode.Encode(v, &sb, encode.EncodeFormat(encode.JSONFormat)); err != nil {
		return "", err
	}
	return sb.String(), nil
}
