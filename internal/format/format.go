// Package format holds the message formatter registry. Formatters rewrite a
// raw log message before highlighting; they must never fail, degrading to the
// original message instead.
package format

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Func transforms a message using formatter options. Implementations return
// the message unchanged when they cannot handle it.
type Func func(message string, options map[string]string) string

// ErrUnknown is returned when a configured formatter name is not registered.
var ErrUnknown = errors.New("format: unknown formatter")

var (
	mu       sync.RWMutex
	registry = make(map[string]Func)
)

// Register adds a formatter under a name. Later registrations replace
// earlier ones.
func Register(name string, f Func) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = f
}

// Lookup resolves a formatter by name. The empty name resolves to the
// identity formatter so an unconfigured session needs no special casing.
func Lookup(name string) (Func, error) {
	if name == "" {
		return Identity, nil
	}
	mu.RLock()
	f, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknown, name, Names())
	}
	return f, nil
}

// Names returns the registered formatter names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Identity returns the message unchanged.
func Identity(message string, _ map[string]string) string {
	return message
}
