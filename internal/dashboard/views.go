package dashboard

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCase = cases.Title(language.English)

// swapOOB marks a pushed fragment for out-of-band swapping by htmx.
var swapOOB = g.Attr("hx-swap-oob", "true")

// NetworkLabel renders the network name shown in the header.
func NetworkLabel(snap Snapshot, extra ...g.Node) g.Node {
	label := "no network"
	if snap.Connected {
		label = snap.Network.Label
	}
	nodes := []g.Node{
		h.ID("network-label"),
		h.Class("network-label"),
		hx.Get("/network"),
		hx.Trigger("every 30s"),
		hx.Swap("outerHTML"),
	}
	nodes = append(nodes, extra...)
	return h.Span(append(nodes, g.Text(label))...)
}

// AccountFragment renders the current account block. Clicking it opens the
// account list unless it shows the no-accounts error.
func AccountFragment(snap Snapshot, extra ...g.Node) g.Node {
	classes := []string{"account", "loaded"}
	if snap.AccountError != "" {
		classes = append(classes, "error")
	}

	attrs := []g.Node{
		h.ID("account"),
		h.Class(strings.Join(classes, " ")),
	}
	if snap.AccountError == "" {
		attrs = append(attrs,
			hx.Get("/accounts"),
			hx.Target("#account-select"),
			hx.Swap("innerHTML"),
		)
	}
	attrs = append(attrs, extra...)

	if snap.Account == nil {
		return h.Div(append(attrs, h.Span(h.Class("account-label"), g.Text(snap.AccountError)))...)
	}

	attrs = append(attrs, h.Data("account-address", snap.Account.Address))
	if snap.AccountError != "" {
		attrs = append(attrs, h.Span(h.Class("account-error"), g.Text(snap.AccountError)))
	}
	return h.Div(append(attrs, accountDetails(*snap.Account)...)...)
}

func accountDetails(a AccountView) []g.Node {
	total := "..."
	if a.BalanceLoaded {
		total = a.Balance
	}
	var nodes []g.Node
	if a.Identicon != "" {
		nodes = append(nodes, h.Img(h.Class("account-icon"), h.Src(a.Identicon), h.Alt(a.Short)))
	}
	return append(nodes,
		h.Span(h.Class("account-label short"), h.Title(a.Address), g.Text(a.Short)),
		h.Span(h.Class("account-total"), g.Text(total)),
		h.Span(h.Class("account-unit"), g.Text("ETH")),
	)
}

// AccountList renders the selectable account list.
func AccountList(snap Snapshot) g.Node {
	if len(snap.Accounts) == 0 {
		return h.Div(h.Class("accounts empty"), g.Text(NoAccountsLabel))
	}
	return h.Div(
		h.Class("accounts"),
		g.Map(snap.Accounts, func(a AccountView) g.Node {
			return h.Button(
				h.Type("button"),
				h.Class("account"),
				h.Data("account-address", a.Address),
				hx.Post("/accounts/select"),
				hx.Vals(fmt.Sprintf(`{"address": %q}`, a.Address)),
				hx.Target("#account"),
				hx.Swap("outerHTML"),
				g.Group(accountDetails(a)),
			)
		}),
	)
}

// CountdownClock renders a daily-counter clock face without seconds.
func CountdownClock(c Countdown) g.Node {
	unit := func(value int, label string) g.Node {
		return h.Div(
			h.Class("countdown-unit"),
			h.Span(h.Class("countdown-value"), g.Text(fmt.Sprintf("%02d", value))),
			h.Span(h.Class("countdown-label"), g.Text(label)),
		)
	}

	date := c.Target.Format(time.RFC3339)
	nodes := []g.Node{h.Class("countdown"), h.Data("date", date)}
	if !c.Done {
		nodes = append(nodes,
			hx.Get("/countdown?date="+url.QueryEscape(date)),
			hx.Trigger("every 60s"),
			hx.Swap("outerHTML"),
		)
	}
	nodes = append(nodes,
		unit(c.Days, "Days"),
		unit(c.Hours, "Hours"),
		unit(c.Minutes, "Minutes"),
	)
	return h.Div(nodes...)
}

// ProcessingOverlay renders the loading overlay. A hidden overlay keeps its
// element so pushed updates have a target.
func ProcessingOverlay(visible bool, message string, extra ...g.Node) g.Node {
	class := "processing"
	if !visible {
		class = "processing hidden"
		message = ""
	}
	nodes := []g.Node{h.ID("processing"), h.Class(class)}
	nodes = append(nodes, extra...)
	return h.Div(append(nodes, g.Text(message))...)
}

// Page renders the dashboard body.
func Page(snap Snapshot, countdowns []Countdown) g.Node {
	heading := "Rocket Pool"
	if snap.Connected {
		heading = "Rocket Pool on " + titleCase.String(snap.Network.Label)
	}
	return h.Div(
		h.Class("dashboard"),
		h.Header(
			h.ID("network"),
			h.H1(g.Text(heading)),
			NetworkLabel(snap),
			AccountFragment(snap),
		),
		h.Div(h.ID("account-select"), AccountList(snap)),
		ProcessingOverlay(snap.Processing.Visible, snap.Processing.Message),
		h.Section(
			h.Class("countdowns"),
			g.Map(countdowns, func(c Countdown) g.Node { return CountdownClock(c) }),
		),
		h.Div(h.ID("contact"), hx.Get("/contact"), hx.Trigger("load"), hx.Swap("outerHTML")),
	)
}
