package encode

type EncState struct {
	format Format
	indent int
	colors *Colors
}

type EncodeOption func(*EncState)

func EncodeFormat(f Format) EncodeOption {
	return func(es *EncState) { es.format = f }
}

// EncodeIndent sets the JSON indentation; 0 means compact.
func EncodeIndent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.colors = c }
}

func newEncState(opts []EncodeOption) *EncState {
	es := &EncState{indent: 2}
	for _, o := range opts {
		o(es)
	}
	return es
}
