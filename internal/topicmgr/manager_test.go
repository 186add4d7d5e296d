package topicmgr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Register(t *testing.T) {
	t.Run("module topic", func(t *testing.T) {
		m := NewManager()
		topic := DefineModule(TopicConfig{
			Name:        "rocketPool/Init/networkDetected",
			Module:      "Init",
			Description: "network classified",
		})

		require.NoError(t, m.Register(topic))

		found, ok := m.Get("rocketPool/Init/networkDetected")
		require.True(t, ok)
		assert.Equal(t, "Init", found.Module())
		assert.Equal(t, ScopeModule, found.Scope())
		assert.Equal(t, 1, m.Count())
	})

	t.Run("framework topic", func(t *testing.T) {
		m := NewManager()
		topic := DefineFramework(TopicConfig{
			Name:        "rocketPool/Processing/show",
			Module:      "ignored",
			Description: "show the processing overlay",
		})

		require.NoError(t, m.Register(topic))
		assert.Empty(t, topic.Module())
		assert.Len(t, m.ListByScope(ScopeFramework), 1)
	})

	t.Run("duplicate", func(t *testing.T) {
		m := NewManager()
		topic := DefineModule(TopicConfig{Name: "rocketPool/Init/accountChanged", Module: "Init", Description: "d"})
		require.NoError(t, m.Register(topic))

		err := m.Register(topic)
		require.Error(t, err)
		var te *TopicError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, ErrorDuplicateRegistration, te.Type)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("module mismatch", func(t *testing.T) {
		m := NewManager()
		err := m.Register(DefineModule(TopicConfig{Name: "rocketPool/Init/x", Module: "Other", Description: "d"}))

		var te *TopicError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, ErrorValidationFailed, te.Type)
	})

	t.Run("missing description", func(t *testing.T) {
		m := NewManager()
		err := m.Register(DefineModule(TopicConfig{Name: "rocketPool/Init/x", Module: "Init"}))
		assert.Error(t, err)
	})

	t.Run("nil topic", func(t *testing.T) {
		m := NewManager()
		assert.Error(t, m.Register(nil))
	})
}

func TestManager_MustRegisterPanics(t *testing.T) {
	m := NewManager()
	assert.Panics(t, func() {
		m.MustRegister(DefineModule(TopicConfig{Name: "bad name", Module: "Init", Description: "d"}))
	})
}

func TestManager_ListSortedAndFiltered(t *testing.T) {
	m := NewManager()
	m.MustRegister(DefineModule(TopicConfig{Name: "rocketPool/Init/networkDetected", Module: "Init", Description: "d"}))
	m.MustRegister(DefineModule(TopicConfig{Name: "rocketPool/Init/accountChanged", Module: "Init", Description: "d"}))
	m.MustRegister(DefineFramework(TopicConfig{Name: "rocketPool/Processing/hide", Description: "d"}))

	all := m.List()
	require.Len(t, all, 3)
	assert.Equal(t, "rocketPool/Init/accountChanged", all[0].Name())
	assert.Equal(t, "rocketPool/Init/networkDetected", all[1].Name())
	assert.Equal(t, "rocketPool/Processing/hide", all[2].Name())

	assert.Len(t, m.ListByModule("Init"), 2)
	assert.Empty(t, m.ListByModule("Missing"))

	stats := m.Stats()
	assert.Equal(t, 3, stats.TotalTopics)
	assert.Equal(t, 1, stats.FrameworkTopics)
	assert.Equal(t, 2, stats.ModuleBreakdown["Init"])

	m.Reset()
	assert.Zero(t, m.Count())
}

func TestManager_Lookup(t *testing.T) {
	m := NewManager()
	_, err := m.Lookup("rocketPool/Init/missing")

	var te *TopicError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, ErrorTopicNotFound, te.Type)
}

func TestValidator_ValidateName(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		topic   string
		wantErr bool
	}{
		{"namespaced", "rocketPool/Init/networkDetected", false},
		{"nested event", "rocketPool/Init/network/change", false},
		{"empty", "", true},
		{"two segments", "rocketPool/Init", true},
		{"dotted", "rocketpool.init.network", true},
		{"leading digit", "1rocket/Init/x", true},
		{"trailing slash", "rocketPool/Init/", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateName(tt.topic)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseScope(t *testing.T) {
	s, err := ParseScope("framework")
	require.NoError(t, err)
	assert.Equal(t, ScopeFramework, s)

	_, err = ParseScope("galaxy")
	assert.Error(t, err)
}

func TestTypedTopic_MetadataIsCopied(t *testing.T) {
	topic := DefineModule(TopicConfig{
		Name:        "rocketPool/Init/x",
		Module:      "Init",
		Description: "d",
		Metadata:    map[string]any{"k": "v"},
	})

	md := topic.Metadata()
	md["k"] = "changed"
	assert.Equal(t, "v", topic.Metadata()["k"])
}
