package topicmgr

import (
	"time"
)

// Topic describes a declared bus topic.
type Topic interface {
	// Name returns the full namespaced topic string.
	Name() string

	// Module returns the owning module (empty for framework topics).
	Module() string

	// Description returns human-readable documentation.
	Description() string

	// Example returns an example payload.
	Example() string

	// Metadata returns additional topic information.
	Metadata() map[string]any

	// Scope returns whether this is a framework or module topic.
	Scope() TopicScope
}

// TypedTopic is the concrete Topic produced by DefineFramework and DefineModule.
type TypedTopic struct {
	name        string
	module      string
	description string
	example     string
	metadata    map[string]any
	scope       TopicScope
}

var _ Topic = (*TypedTopic)(nil)

// TopicConfig holds configuration for creating a new topic.
type TopicConfig struct {
	Name        string         `json:"name"`
	Module      string         `json:"module"`
	Scope       TopicScope     `json:"scope"`
	Description string         `json:"description"`
	Example     string         `json:"example"`
	Metadata    map[string]any `json:"metadata"`
}

// TopicScope defines whether a topic belongs to framework or module level.
type TopicScope string

const (
	ScopeFramework TopicScope = "framework" // shared topics (processing overlay)
	ScopeModule    TopicScope = "module"    // module topics (Init, ...)
)

// RegistryEntry is a topic together with its registration bookkeeping.
type RegistryEntry struct {
	Topic        Topic     `json:"topic"`
	RegisteredAt time.Time `json:"registered_at"`
	Module       string    `json:"module"`
}

// TopicError represents structured errors in the topic management system.
type TopicError struct {
	Type    ErrorType `json:"type"`
	Topic   string    `json:"topic"`
	Module  string    `json:"module"`
	Message string    `json:"message"`
	Cause   error     `json:"cause,omitempty"`
}

// ErrorType classifies a TopicError.
type ErrorType string

const (
	ErrorTopicNotFound         ErrorType = "topic_not_found"
	ErrorDuplicateRegistration ErrorType = "duplicate_registration"
	ErrorValidationFailed      ErrorType = "validation_failed"
	ErrorInvalidScope          ErrorType = "invalid_scope"
)

func (e *TopicError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *TopicError) Unwrap() error {
	return e.Cause
}

// Name returns the topic's unique identifier.
func (t *TypedTopic) Name() string {
	return t.name
}

// Module returns the module that owns this topic.
func (t *TypedTopic) Module() string {
	return t.module
}

// Description returns human-readable documentation.
func (t *TypedTopic) Description() string {
	return t.description
}

// Example returns an example payload.
func (t *TypedTopic) Example() string {
	return t.example
}

// Metadata returns a copy of the topic metadata.
func (t *TypedTopic) Metadata() map[string]any {
	result := make(map[string]any, len(t.metadata))
	for k, v := range t.metadata {
		result[k] = v
	}
	return result
}

// Scope returns whether this is a framework or module topic.
func (t *TypedTopic) Scope() TopicScope {
	return t.scope
}

func (t *TypedTopic) String() string {
	return t.name
}
