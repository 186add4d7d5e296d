package topicmgr

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Registry stores registered topics keyed by name.
type Registry struct {
	entries map[string]*RegistryEntry
	mu      sync.RWMutex
}

// NewRegistry creates an empty topic registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// Register adds a topic to the registry.
func (r *Registry) Register(topic Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if topic == nil {
		return &TopicError{
			Type:    ErrorValidationFailed,
			Message: "cannot register nil topic",
		}
	}

	name := topic.Name()
	if name == "" {
		return &TopicError{
			Type:    ErrorValidationFailed,
			Message: "topic name cannot be empty",
		}
	}

	if _, exists := r.entries[name]; exists {
		return &TopicError{
			Type:    ErrorDuplicateRegistration,
			Topic:   name,
			Module:  topic.Module(),
			Message: fmt.Sprintf("topic already registered: %s", name),
		}
	}

	r.entries[name] = &RegistryEntry{
		Topic:        topic,
		RegisteredAt: time.Now(),
		Module:       topic.Module(),
	}
	return nil
}

// Get retrieves a topic by name.
func (r *Registry) Get(name string) (Topic, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[name]
	if !exists {
		return nil, false
	}
	return entry.Topic, true
}

// List returns all registered topics ordered by name.
func (r *Registry) List() []Topic {
	return r.filter(func(Topic) bool { return true })
}

// ListByModule returns topics owned by module.
func (r *Registry) ListByModule(module string) []Topic {
	return r.filter(func(t Topic) bool { return t.Module() == module })
}

// ListByScope returns topics with the given scope.
func (r *Registry) ListByScope(scope TopicScope) []Topic {
	return r.filter(func(t Topic) bool { return t.Scope() == scope })
}

func (r *Registry) filter(keep func(Topic) bool) []Topic {
	r.mu.RLock()
	defer r.mu.RUnlock()

	topics := make([]Topic, 0, len(r.entries))
	for _, entry := range r.entries {
		if keep(entry.Topic) {
			topics = append(topics, entry.Topic)
		}
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Name() < topics[j].Name() })
	return topics
}

// GetEntry retrieves a copy of the registry entry for name.
func (r *Registry) GetEntry(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[name]
	if !exists {
		return nil, false
	}
	entryCopy := *entry
	return &entryCopy, true
}

// Count returns the number of registered topics.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// Reset removes all registered topics (primarily for testing).
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make(map[string]*RegistryEntry)
}

// Stats returns registry statistics.
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := RegistryStats{
		TotalTopics:     len(r.entries),
		ModuleBreakdown: make(map[string]int),
	}
	for _, entry := range r.entries {
		switch entry.Topic.Scope() {
		case ScopeFramework:
			stats.FrameworkTopics++
		case ScopeModule:
			stats.ModuleTopics++
			stats.ModuleBreakdown[entry.Topic.Module()]++
		}
	}
	return stats
}

// RegistryStats provides statistics about the registry.
type RegistryStats struct {
	TotalTopics     int            `json:"total_topics"`
	FrameworkTopics int            `json:"framework_topics"`
	ModuleTopics    int            `json:"module_topics"`
	ModuleBreakdown map[string]int `json:"module_breakdown"`
}
