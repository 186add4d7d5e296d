package topicmgr

import (
	"fmt"
	"sync"
)

// Manager is the main API for declared topics.
type Manager struct {
	registry  *Registry
	validator *Validator
	mu        sync.RWMutex
}

// NewManager creates a new topic manager with registry and validator.
func NewManager() *Manager {
	return &Manager{
		registry:  NewRegistry(),
		validator: NewValidator(),
	}
}

// DefineFramework creates a topic shared by all modules.
func DefineFramework(config TopicConfig) Topic {
	return &TypedTopic{
		name:        config.Name,
		description: config.Description,
		example:     config.Example,
		metadata:    config.Metadata,
		scope:       ScopeFramework,
	}
}

// DefineModule creates a topic owned by config.Module.
func DefineModule(config TopicConfig) Topic {
	return &TypedTopic{
		name:        config.Name,
		module:      config.Module,
		description: config.Description,
		example:     config.Example,
		metadata:    config.Metadata,
		scope:       ScopeModule,
	}
}

// Register validates topic and adds it to the registry.
func (m *Manager) Register(topic Topic) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.validator.ValidateDefinition(topic); err != nil {
		te := &TopicError{
			Type:    ErrorValidationFailed,
			Message: "topic validation failed",
			Cause:   err,
		}
		if topic != nil {
			te.Topic = topic.Name()
			te.Module = topic.Module()
		}
		return te
	}

	return m.registry.Register(topic)
}

// MustRegister registers a topic and panics on error. Topics are declared at
// package level, so a failure here is a programming error.
func (m *Manager) MustRegister(topic Topic) {
	if err := m.Register(topic); err != nil {
		panic(fmt.Sprintf("failed to register topic %s: %v", topic.Name(), err))
	}
}

// Get retrieves a topic by name.
func (m *Manager) Get(name string) (Topic, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.registry.Get(name)
}

// Lookup is Get with a TopicError for unknown names.
func (m *Manager) Lookup(name string) (Topic, error) {
	topic, ok := m.Get(name)
	if !ok {
		return nil, &TopicError{
			Type:    ErrorTopicNotFound,
			Topic:   name,
			Message: fmt.Sprintf("topic not found: %s", name),
		}
	}
	return topic, nil
}

// List returns all registered topics.
func (m *Manager) List() []Topic {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.registry.List()
}

// ListByModule returns topics for a specific module.
func (m *Manager) ListByModule(module string) []Topic {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.registry.ListByModule(module)
}

// ListByScope returns topics for a specific scope.
func (m *Manager) ListByScope(scope TopicScope) []Topic {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.registry.ListByScope(scope)
}

// ValidateTopicName checks a topic name without registering anything.
func (m *Manager) ValidateTopicName(name string) error {
	return m.validator.ValidateName(name)
}

// ParseScope converts a user supplied scope string.
func ParseScope(s string) (TopicScope, error) {
	switch TopicScope(s) {
	case ScopeFramework, ScopeModule:
		return TopicScope(s), nil
	}
	return "", &TopicError{
		Type:    ErrorInvalidScope,
		Message: fmt.Sprintf("invalid scope: %q", s),
	}
}

// Count returns the total number of registered topics.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.registry.Count()
}

// Stats returns registry statistics.
func (m *Manager) Stats() RegistryStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.registry.Stats()
}

// Reset removes all registered topics (primarily for testing).
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.registry.Reset()
}

var (
	defaultManager     *Manager
	defaultManagerOnce sync.Once
)

// Default returns the process-wide manager.
func Default() *Manager {
	defaultManagerOnce.Do(func() {
		defaultManager = NewManager()
	})
	return defaultManager
}
