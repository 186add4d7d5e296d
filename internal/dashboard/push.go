package dashboard

import (
	"bytes"
	"context"
	"encoding/json"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/rocketpool/rocketpool-web/internal/processing"
	"github.com/rocketpool/rocketpool-web/internal/pubsub"
)

// PushTopics are the publications the dashboard renders for websocket clients.
func PushTopics() []string {
	return []string{
		NetworkDetected.Name(),
		AccountChanged.Name(),
		processing.Show.Name(),
		processing.Hide.Name(),
	}
}

// Fragment renders the out-of-band HTML pushed to htmx websocket clients
// for env. It reports false for topics the dashboard does not render.
func (m *Module) Fragment(_ context.Context, env pubsub.Envelope) ([]byte, bool) {
	snap := m.Snapshot()

	var nodes []g.Node
	switch env.Topic {
	case NetworkDetected.Name():
		nodes = append(nodes, NetworkLabel(snap, swapOOB), AccountFragment(snap, swapOOB))
	case AccountChanged.Name():
		nodes = append(nodes,
			AccountFragment(snap, swapOOB),
			h.Div(h.ID("account-select"), swapOOB, AccountList(snap)),
		)
	case processing.Show.Name():
		var args []string
		if err := json.Unmarshal(env.Args, &args); err != nil || len(args) == 0 {
			return nil, false
		}
		nodes = append(nodes, ProcessingOverlay(true, args[0], swapOOB))
	case processing.Hide.Name():
		nodes = append(nodes, ProcessingOverlay(false, "", swapOOB))
	default:
		return nil, false
	}

	var buf bytes.Buffer
	if err := g.Group(nodes).Render(&buf); err != nil {
		m.logger.Error("Failed to render pushed fragment", "topic", env.Topic, "error", err)
		return nil, false
	}
	return buf.Bytes(), true
}
