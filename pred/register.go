package pred

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrOpExists  = errors.New("operation exists")
	ErrUnknownOp = errors.New("unknown operation")
	ErrBadOp     = errors.New("bad operation")
	ErrParams    = errors.New("bad params")
)

// Registry maps operation names to operations.  It is safe for
// concurrent use.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]Op
}

func NewRegistry() *Registry {
	return &Registry{ops: map[string]Op{}}
}

// Register adds op, which must be non nil, have a non empty name and
// not collide with an already registered one.
func (r *Registry) Register(op Op) error {
	if op == nil {
		return fmt.Errorf("%w: nil", ErrBadOp)
	}
	name := op.Name()
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrBadOp)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, present := r.ops[name]; present {
		return fmt.Errorf("%s: %w", name, ErrOpExists)
	}
	r.ops[name] = op
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(ops ...Op) *Registry {
	for _, op := range ops {
		if err := r.Register(op); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *Registry) Lookup(name string) (Op, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownOp, name)
	}
	return op, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]string, 0, len(r.ops))
	for name := range r.ops {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// Builtins returns fresh instances of the builtin operations.
func Builtins() []Op {
	return []Op{
		Where(),
		FindWhere(),
		Reject(),
		SortBy(),
		First(),
		Last(),
		Rest(),
		Uniq(),
		Filter(),
		Patch(),
	}
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the shared registry of builtin operations.  Further
// operations may be registered on it.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = NewRegistry().MustRegister(Builtins()...)
	})
	return defaultReg
}
