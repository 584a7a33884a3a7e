package orchestrators

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	emailAdapter "yatra/internal/adapters/email"
	"yatra/internal/domain/offering"
	"yatra/internal/domain/registration"
)

// markdown renders organizer-authored offering descriptions for emails.
// Offering descriptions are written in Markdown in the back office.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// renderMarkdown converts Markdown to HTML, falling back to escaped plain
// text if conversion fails.
func renderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "<p>" + html.EscapeString(src) + "</p>"
	}
	return buf.String()
}

// ComposeConfirmationEmail builds the booking confirmation sent to the
// primary contact after a successful submission.
// PRE: reg is saved; off is the offering it was submitted against
// POST: Returns a ready-to-send request; no side effects
func ComposeConfirmationEmail(reg registration.Registration, off offering.Offering, from, replyTo string) emailAdapter.SendRequest {
	var b strings.Builder

	b.WriteString("<h2>Booking received — " + html.EscapeString(off.Title) + "</h2>")
	b.WriteString("<p>Thank you for registering. Your booking is pending confirmation by our team.</p>")

	b.WriteString("<h3>Booking summary</h3><ul>")
	b.WriteString(fmt.Sprintf("<li>Booking reference: %s</li>", html.EscapeString(reg.ID)))
	b.WriteString(fmt.Sprintf("<li>Pilgrims: %d</li>", reg.HeadCount()))
	for _, m := range reg.Members {
		b.WriteString(fmt.Sprintf("<li>%s, age %d</li>", html.EscapeString(m.Name), m.Age))
	}
	b.WriteString("</ul>")

	if reg.Train != nil {
		b.WriteString(fmt.Sprintf("<p>Train: %s (%s), %s → %s, %s class</p>",
			html.EscapeString(reg.Train.Name), html.EscapeString(reg.Train.Number),
			html.EscapeString(reg.Train.BoardingStation), html.EscapeString(reg.Train.AlightingStation),
			html.EscapeString(reg.Train.Category)))
	}
	if reg.Package != nil {
		tier := reg.Package.TierType
		if tier == "" {
			tier = "standard"
		}
		b.WriteString(fmt.Sprintf("<p>Package: %s (%s), ₹%.0f per person</p>",
			html.EscapeString(reg.Package.Name), html.EscapeString(tier), reg.Package.PerPersonPrice))
	}

	b.WriteString(fmt.Sprintf("<p><strong>Total amount: ₹%.0f</strong></p>", reg.TotalAmount))
	if reg.IsAdvancePayment {
		b.WriteString(fmt.Sprintf("<p>Advance paid now: ₹%.0f. The balance is payable before departure.</p>", reg.AdvancedPaymentAmount))
	}

	if strings.TrimSpace(off.Description) != "" {
		b.WriteString("<h3>About this yatra</h3>")
		b.WriteString(renderMarkdown(off.Description))
	}

	return emailAdapter.SendRequest{
		To:      []string{reg.Email},
		From:    from,
		Subject: "Booking received — " + off.Title,
		HTML:    b.String(),
		ReplyTo: replyTo,
	}
}
