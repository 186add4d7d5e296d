package contact

import (
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

// Form renders the contact section.
func Form() g.Node {
	return h.Section(h.Class("section contact"), h.ID("contact"),
		h.H2(g.Text("Get in touch")),
		h.Form(
			h.Class("contact-form"),
			hx.Post("/send-contact"),
			hx.Target("#contact"),
			hx.Swap("outerHTML"),
			field("name", "Name", h.Input(h.Type("text"), h.Name("name"), h.ID("contact-name"), h.Required())),
			field("email", "Email", h.Input(h.Type("email"), h.Name("email"), h.ID("contact-email"), h.Required())),
			field("message", "Message", h.Textarea(h.Name("message"), h.ID("contact-message"), h.Rows("5"), g.Attr("minlength", "2"), h.Required())),
			h.Button(h.Type("submit"), h.Class("button"), g.Text("Send")),
		),
	)
}

func field(name, label string, input g.Node) g.Node {
	return h.Div(h.Class("field"),
		h.Label(h.For("contact-"+name), g.Text(label)),
		input,
	)
}

// Result renders the outcome of a submission in place of the form.
func Result(resp Response) g.Node {
	if resp.Success {
		return h.Section(h.Class("section contact"), h.ID("contact"),
			h.Div(h.Class("thanks"),
				h.P(g.Text("Thanks! Your message is on its way to the Rocket Pool team.")),
			),
		)
	}
	return h.Section(h.Class("section contact"), h.ID("contact"),
		h.Div(h.Class("error"), g.Attr("role", "alert"),
			g.Text("Oops an error has occured - "+resp.Error),
		),
		h.Button(h.Class("button"), hx.Get("/contact"), hx.Target("#contact"), hx.Swap("outerHTML"),
			g.Text("Try again")),
	)
}
