package pubsub

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/rocketpool/rocketpool-web/internal/topicmgr"
)

// Event[T] binds a topic name to its payload type.
type Event[T any] struct {
	topic topicmgr.Topic
}

// NewEvent declares a typed topic and registers it with the default topic
// manager. An empty module declares a framework topic. Events are meant to be
// package-level variables; a duplicate or malformed name panics at init.
func NewEvent[T any](name, module, description string) Event[T] {
	config := topicmgr.TopicConfig{
		Name:        name,
		Module:      module,
		Description: description,
		Metadata: map[string]any{
			"payload_fields": payloadFields[T](),
			"type_name":      fmt.Sprintf("%T", *new(T)),
			"is_typed":       true,
		},
	}

	var topic topicmgr.Topic
	if module == "" {
		topic = topicmgr.DefineFramework(config)
	} else {
		topic = topicmgr.DefineModule(config)
	}
	topicmgr.Default().MustRegister(topic)

	return Event[T]{topic: topic}
}

// payloadFields lists the json field names of T for documentation.
func payloadFields[T any]() []string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	fields := make([]string, 0)
	if t.Kind() != reflect.Struct {
		return fields
	}
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		fields = append(fields, name)
	}
	return fields
}

// Name returns the topic name.
func (e Event[T]) Name() string {
	return e.topic.Name()
}

// Topic returns the registered topic definition.
func (e Event[T]) Topic() topicmgr.Topic {
	return e.topic
}

// Publish sends a typed payload. The compiler ensures payload matches T.
func Publish[T any](ctx context.Context, p Publisher, event Event[T], payload T) {
	p.Publish(ctx, event.Name(), payload)
}

// Subscribe registers fn for event, decoding the first publication argument
// as T. A publication carrying anything else is reported as a handler error.
func Subscribe[T any](s Subscriber, event Event[T], fn func(ctx context.Context, payload T) error) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return s.Subscribe(event.Name(), func(ctx context.Context, msg Message) error {
		payload, err := Decode[T](msg)
		if err != nil {
			return err
		}
		return fn(ctx, payload)
	})
}

// Decode extracts the first argument of msg as T. A publication without
// arguments decodes to the zero value.
func Decode[T any](msg Message) (T, error) {
	var zero T
	arg, ok := msg.Arg(0)
	if !ok || arg == nil {
		return zero, nil
	}
	payload, ok := arg.(T)
	if !ok {
		return zero, fmt.Errorf("%w: topic %s carries %T, want %T", ErrPayloadType, msg.Topic, arg, zero)
	}
	return payload, nil
}
