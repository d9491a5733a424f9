package pred

import (
	"github.com/signadot/viewd/record"
)

// Op is a named list transformation.  Apply must not retain params.
type Op interface {
	Name() string
	Apply(recs []record.Record, params map[string]any) ([]record.Record, error)
}

// ApplyFunc is the signature of an Op's Apply method.
type ApplyFunc func(recs []record.Record, params map[string]any) ([]record.Record, error)

type funcOp struct {
	name string
	f    ApplyFunc
}

// Func makes an Op from a function.
func Func(name string, f ApplyFunc) Op {
	return &funcOp{name: name, f: f}
}

func (o *funcOp) Name() string { return o.name }

func (o *funcOp) String() string { return o.name }

func (o *funcOp) Apply(recs []record.Record, params map[string]any) ([]record.Record, error) {
	return o.f(recs, params)
}
