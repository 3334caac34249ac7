// Package oracle defines the OracleInterface the scheduler dispatches
// segments through, plus a thread-safe factory registry so a run can
// select a backend by name (config-driven, mirroring the teacher's
// simulator-runner registry).
package oracle

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/kegliz/soamqc/soam/gate"
	"github.com/kegliz/soamqc/soam/oracle/roqc"
	"github.com/kegliz/soamqc/soam/seq"
)

// Interface is the single operation every backend implements:
// optimize one segment, tagged with the task that produced it so
// implementations that shell out to an external process can
// correlate requests and responses.
type Interface interface {
	OptimizeSegment(s seq.Sequence, taskID uuid.UUID) seq.Sequence
}

// Factory builds a new Interface instance.
type Factory func() Interface

// Registry is a thread-safe name -> Factory map, used to select an
// oracle backend by config at startup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("oracle: name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("oracle: factory cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("oracle: %q is already registered", name)
	}
	r.factories[name] = factory
	return nil
}

func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

func (r *Registry) Create(name string) (Interface, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("oracle: unknown backend %q", name)
	}
	oracle := factory()
	if oracle == nil {
		return nil, fmt.Errorf("oracle: factory for %q returned nil", name)
	}
	return oracle, nil
}

func (r *Registry) ListBackends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

var defaultRegistry = NewRegistry()

func Register(name string, factory Factory) error { return defaultRegistry.Register(name, factory) }
func MustRegister(name string, factory Factory)    { defaultRegistry.MustRegister(name, factory) }
func Create(name string) (Interface, error)        { return defaultRegistry.Create(name) }
func ListBackends() []string                       { return defaultRegistry.ListBackends() }

func init() {
	MustRegister("local", func() Interface { return NewLocal() })
}

// Local is the in-process algorithmic oracle: it runs the roqc
// peephole routines directly against the calling goroutine, with no
// process boundary and so no task_id correlation need beyond the
// interface signature.
type Local struct{}

func NewLocal() *Local { return &Local{} }

func (o *Local) OptimizeSegment(s seq.Sequence, _ uuid.UUID) seq.Sequence {
	out := s
	out.Gates = append([]gate.Gate(nil), s.Gates...)
	roqc.RunAll(&out)
	out.RemoveIdentities()
	return out
}
