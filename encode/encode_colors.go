package encode

import (
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml/printer"
)

type ColorAttr int

const (
	FieldColor ColorAttr = iota
	StringColor
	NumberColor
	BoolColor
	NullColor
	SepColor
	InsertColor
	DeleteColor
)

type Colors struct {
	Map map[ColorAttr]*color.Color
}

// NewColors returns the default palette.  Colors are enabled even when
// the output is not a terminal: asking for them is explicit.
func NewColors() *Colors {
	c := &Colors{Map: map[ColorAttr]*color.Color{
		FieldColor:  color.RGB(128, 168, 196),
		StringColor: color.RGB(8, 196, 16),
		NumberColor: color.RGB(128, 216, 236),
		BoolColor:   color.New(color.FgCyan),
		NullColor:   color.RGB(168, 0, 196),
		SepColor:    color.RGB(196, 128, 128),
		InsertColor: color.New(color.FgGreen),
		DeleteColor: color.New(color.FgRed),
	}}
	for _, col := range c.Map {
		col.EnableColor()
	}
	return c
}

// Color renders s in the color of attr.  A nil Colors leaves s alone.
func (c *Colors) Color(attr ColorAttr, s string) string {
	if c == nil {
		return s
	}
	col := c.Map[attr]
	if col == nil {
		return s
	}
	return col.Sprint(s)
}

// property splits the escape sequences of attr around a placeholder.
func (c *Colors) property(attr ColorAttr) printer.PrintFunc {
	return func() *printer.Property {
		pre, suf, _ := strings.Cut(c.Color(attr, "\x00"), "\x00")
		return &printer.Property{Prefix: pre, Suffix: suf}
	}
}

func (c *Colors) yamlPrinter() *printer.Printer {
	return &printer.Printer{
		MapKey: c.property(FieldColor),
		String: c.property(StringColor),
		Number: c.property(NumberColor),
		Bool:   c.property(BoolColor),
	}
}
