// Package render turns a decision event into the plain-text notification
// sent to the applicant. Both pipeline stages call it so subject and body
// stay consistent.
package render

import (
	"fmt"
	"strings"

	"github.com/notifyhub/decision-notifier/internal/domain"
)

// Style selects how an empty observations field is laid out.
type Style int

const (
	// StyleOmitEmpty drops the observations line entirely when there are
	// none. Used for topic messages.
	StyleOmitEmpty Style = iota
	// StyleInline always keeps the observations slot, leaving it blank when
	// there are none. Used for outgoing email.
	StyleInline
)

// Notification is the rendered subject/body pair.
type Notification struct {
	Subject string
	Body    string
}

// Subject returns "Solicitud {id} {decision}".
func Subject(e *domain.DecisionEvent) string {
	return fmt.Sprintf("Solicitud %s %s", e.IDApplication, e.Decision)
}

// Render is a pure function of the event fields.
func Render(e *domain.DecisionEvent, style Style) Notification {
	obs := ""
	if e.Observations != "" {
		obs = "Observaciones: " + e.Observations
	}

	lines := []string{
		"Hola,",
		"",
		fmt.Sprintf("Tu solicitud #%s fue %s.", e.IDApplication, e.Decision),
	}
	if obs != "" || style == StyleInline {
		lines = append(lines, obs)
	}
	lines = append(lines, "", "Gracias.")

	return Notification{
		Subject: Subject(e),
		Body:    strings.Join(lines, "\n"),
	}
}
