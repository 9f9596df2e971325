// ABOUTME: Thread-safe registry mapping tool names to handlers
// ABOUTME: Detects name collisions and serves lookup for tool invocation

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// ErrToolNotFound indicates the named tool is not registered.
var ErrToolNotFound = errors.New("tool not found")

// ErrToolCollision indicates a tool name is already registered.
var ErrToolCollision = errors.New("tool name collision")

// HandlerFunc executes a tool call. Input and output are raw JSON.
type HandlerFunc func(ctx context.Context, input json.RawMessage) (json.RawMessage, error)

// Tool pairs a tool definition with its handler.
type Tool struct {
	Name        string
	Description string
	Handler     HandlerFunc
}

// Registry maintains the set of registered tools. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]*Tool
	logger *slog.Logger
}

// NewRegistry creates an empty tool registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		tools:  make(map[string]*Tool),
		logger: logger.With("component", "tools"),
	}
}

// Register adds tools to the registry. Registration fails atomically on the
// first name collision.
func (r *Registry) Register(tools ...*Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		if _, exists := r.tools[t.Name]; exists {
			return fmt.Errorf("%w: %s", ErrToolCollision, t.Name)
		}
		if _, dup := seen[t.Name]; dup {
			return fmt.Errorf("%w: %s", ErrToolCollision, t.Name)
		}
		seen[t.Name] = struct{}{}
	}
	for _, t := range tools {
		r.tools[t.Name] = t
		r.logger.Debug("tool registered", "tool", t.Name)
	}
	return nil
}

// Get returns the named tool.
func (r *Registry) Get(name string) (*Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return t, nil
}

// List returns all registered tools sorted by name.
func (r *Registry) List() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Call looks up and invokes the named tool.
func (r *Registry) Call(ctx context.Context, name string, input json.RawMessage) (json.RawMessage, error) {
	t, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return t.Handler(ctx, input)
}
