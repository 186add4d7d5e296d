package websocket

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
)

var (
	// ErrTopicAlreadyExists is returned when trying to add a duplicate topic.
	ErrTopicAlreadyExists = errors.New("topic already exists in whitelist")
	// ErrInvalidTopic is returned when an empty topic is provided.
	ErrInvalidTopic = errors.New("topic cannot be empty")
)

// TopicWhitelist holds the bus topics browsers may receive.
type TopicWhitelist struct {
	mu     sync.RWMutex
	topics []string
}

// NewTopicWhitelist creates a whitelist from topics, skipping empty names.
func NewTopicWhitelist(topics ...string) *TopicWhitelist {
	valid := make([]string, 0, len(topics))
	for _, topic := range topics {
		if topic != "" && !slices.Contains(valid, topic) {
			valid = append(valid, topic)
		}
	}
	return &TopicWhitelist{topics: valid}
}

// IsAllowed reports whether topic may be streamed.
func (w *TopicWhitelist) IsAllowed(topic string) bool {
	if topic == "" {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Contains(w.topics, topic)
}

// Add whitelists topic.
func (w *TopicWhitelist) Add(topic string) error {
	if topic == "" {
		slog.Warn("attempted to add empty topic to whitelist")
		return ErrInvalidTopic
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if slices.Contains(w.topics, topic) {
		return ErrTopicAlreadyExists
	}
	w.topics = append(w.topics, topic)
	slog.Debug("added topic to websocket whitelist", "topic", topic)
	return nil
}

// Topics returns a copy of the whitelisted topics.
func (w *TopicWhitelist) Topics() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.topics)
}
