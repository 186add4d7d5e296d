// Package topics formats registered bus topics for the CLI.
package topics

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rocketpool/rocketpool-web/internal/topicmgr"

	// Registering packages declare their topics at init.
	_ "github.com/rocketpool/rocketpool-web/internal/dashboard"
	_ "github.com/rocketpool/rocketpool-web/internal/processing"
	_ "github.com/rocketpool/rocketpool-web/internal/websocket"
)

// TopicDisplay represents a topic for display purposes.
type TopicDisplay struct {
	Name        string         `json:"name"`
	Scope       string         `json:"scope"`
	Module      string         `json:"module"`
	Description string         `json:"description"`
	Example     string         `json:"example,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

func display(t topicmgr.Topic) TopicDisplay {
	return TopicDisplay{
		Name:        t.Name(),
		Scope:       string(t.Scope()),
		Module:      t.Module(),
		Description: t.Description(),
		Example:     t.Example(),
		Metadata:    t.Metadata(),
	}
}

// WriteTable writes topics as an aligned table.
func WriteTable(w io.Writer, topics []topicmgr.Topic) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "NAME\tSCOPE\tMODULE\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t-----\t------\t-----------")
	for _, topic := range topics {
		module := topic.Module()
		if module == "" {
			module = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			topic.Name(),
			topic.Scope(),
			module,
			truncateString(topic.Description(), 50))
	}
	return tw.Flush()
}

// WriteJSON writes topics as an indented JSON document with a count.
func WriteJSON(w io.Writer, topics []topicmgr.Topic) error {
	displays := make([]TopicDisplay, len(topics))
	for i, topic := range topics {
		displays[i] = display(topic)
	}

	output := struct {
		Topics []TopicDisplay `json:"topics"`
		Count  int            `json:"count"`
	}{
		Topics: displays,
		Count:  len(displays),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// WriteDetails writes a single topic.
func WriteDetails(w io.Writer, topic topicmgr.Topic, format string) error {
	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(display(topic))
	}

	fmt.Fprintf(w, "Name:        %s\n", topic.Name())
	fmt.Fprintf(w, "Scope:       %s\n", topic.Scope())
	fmt.Fprintf(w, "Module:      %s\n", topic.Module())
	fmt.Fprintf(w, "Description: %s\n", topic.Description())
	if ex := topic.Example(); ex != "" {
		fmt.Fprintf(w, "Example:     %s\n", ex)
	}
	if metadata := topic.Metadata(); len(metadata) > 0 {
		fmt.Fprintln(w, "Metadata:")
		for k, v := range metadata {
			fmt.Fprintf(w, "  %s: %v\n", k, v)
		}
	}
	return nil
}

// truncateString truncates a string to maxLen characters, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}
