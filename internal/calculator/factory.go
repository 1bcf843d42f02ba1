package calculator

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownCalculator is returned by Get for an unregistered name.
var ErrUnknownCalculator = errors.New("calculator: unknown backend")

// Factory provides calculators by name.
type Factory interface {
	// List returns the registered names in sorted order.
	List() []string
	// Get returns the calculator registered under name.
	Get(name string) (Calculator, error)
	// Register adds a calculator, replacing any with the same name.
	Register(c Calculator)
}

// DefaultFactory is a concurrency-safe registry of calculators.
type DefaultFactory struct {
	mu          sync.RWMutex
	calculators map[string]Calculator
}

// extraBackends are registered by files behind build tags.
var extraBackends []func() Calculator

// NewDefaultFactory returns a factory holding every built-in backend.
func NewDefaultFactory() *DefaultFactory {
	f := NewFactory()
	for _, c := range builtins() {
		f.Register(c)
	}
	for _, mk := range extraBackends {
		f.Register(mk())
	}
	return f
}

// NewFactory returns an empty factory.
func NewFactory() *DefaultFactory {
	return &DefaultFactory{calculators: make(map[string]Calculator)}
}

func builtins() []Calculator {
	return []Calculator{
		newNative[uint8]("u8", 8),
		newNative[uint16]("u16", 16),
		newNative[uint32]("u32", 32),
		newNative[uint64]("u64", 64),
		newNative[int8]("i8", 8),
		newNative[int16]("i16", 16),
		newNative[int32]("i32", 32),
		newNative[int64]("i64", 64),
		newU128(),
		newChecked64(),
		newChecked128(),
		newBig(),
		newBigIterative(),
	}
}

func (f *DefaultFactory) Register(c Calculator) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calculators[c.Name()] = c
}

func (f *DefaultFactory) Get(name string) (Calculator, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.calculators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCalculator, name)
	}
	return c, nil
}

// MustGet is Get that panics on an unknown name.
func (f *DefaultFactory) MustGet(name string) Calculator {
	c, err := f.Get(name)
	if err != nil {
		panic(err)
	}
	return c
}

func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.calculators))
	for name := range f.calculators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll returns every calculator in List order.
func (f *DefaultFactory) GetAll() []Calculator {
	names := f.List()
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Calculator, 0, len(names))
	for _, name := range names {
		out = append(out, f.calculators[name])
	}
	return out
}

// MaxIndex reports the largest exact index of the named backend.
func (f *DefaultFactory) MaxIndex(name string) (uint64, bool) {
	c, err := f.Get(name)
	if err != nil {
		return 0, false
	}
	return c.MaxIndex(), true
}

var (
	globalOnce    sync.Once
	globalFactory *DefaultFactory
)

// GlobalFactory returns a process-wide default factory.
func GlobalFactory() *DefaultFactory {
	globalOnce.Do(func() { globalFactory = NewDefaultFactory() })
	return globalFactory
}
