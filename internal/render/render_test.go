package render_test

import (
	"strings"
	"testing"

	"github.com/notifyhub/decision-notifier/internal/domain"
	"github.com/notifyhub/decision-notifier/internal/render"
)

func event(obs string) *domain.DecisionEvent {
	return &domain.DecisionEvent{
		IDApplication: domain.NumericApplicationID(42),
		Decision:      "APPROVED",
		Observations:  obs,
		Email:         "a@x.com",
	}
}

func TestRender_Subject(t *testing.T) {
	for _, style := range []render.Style{render.StyleOmitEmpty, render.StyleInline} {
		n := render.Render(event(""), style)
		if n.Subject != "Solicitud 42 APPROVED" {
			t.Fatalf("style %d: unexpected subject %q", style, n.Subject)
		}
	}

	e := event("")
	e.IDApplication = domain.NewApplicationID("APP-1")
	e.Decision = "REJECTED"
	if got := render.Subject(e); got != "Solicitud APP-1 REJECTED" {
		t.Fatalf("unexpected subject %q", got)
	}
}

func TestRender_ExponentID(t *testing.T) {
	e, err := domain.DecodeDecision([]byte(`{"idApplication":4.2e1,"decision":"APPROVED"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := render.Render(e, render.StyleInline)
	if n.Subject != "Solicitud 42 APPROVED" {
		t.Fatalf("unexpected subject %q", n.Subject)
	}
	if !strings.Contains(n.Body, "Tu solicitud #42 fue APPROVED.") {
		t.Fatalf("unexpected body %q", n.Body)
	}
}

func TestRender_OmitEmpty(t *testing.T) {
	t.Run("no observations", func(t *testing.T) {
		n := render.Render(event(""), render.StyleOmitEmpty)
		want := "Hola,\n\nTu solicitud #42 fue APPROVED.\n\nGracias."
		if n.Body != want {
			t.Fatalf("expected %q, got %q", want, n.Body)
		}
		if strings.Contains(n.Body, "Observaciones") {
			t.Fatal("body must not mention observations when there are none")
		}
	})

	t.Run("with observations", func(t *testing.T) {
		n := render.Render(event("Falta firma"), render.StyleOmitEmpty)
		want := "Hola,\n\nTu solicitud #42 fue APPROVED.\nObservaciones: Falta firma\n\nGracias."
		if n.Body != want {
			t.Fatalf("expected %q, got %q", want, n.Body)
		}
	})
}

func TestRender_Inline(t *testing.T) {
	t.Run("no observations keeps a blank slot", func(t *testing.T) {
		n := render.Render(event(""), render.StyleInline)
		want := "Hola,\n\nTu solicitud #42 fue APPROVED.\n\n\nGracias."
		if n.Body != want {
			t.Fatalf("expected %q, got %q", want, n.Body)
		}
	})

	t.Run("with observations", func(t *testing.T) {
		n := render.Render(event("Falta firma"), render.StyleInline)
		want := "Hola,\n\nTu solicitud #42 fue APPROVED.\nObservaciones: Falta firma\n\nGracias."
		if n.Body != want {
			t.Fatalf("expected %q, got %q", want, n.Body)
		}
	})
}

func TestRender_ObservationsVerbatim(t *testing.T) {
	obs := `<b>"50%" & más</b>`
	n := render.Render(event(obs), render.StyleOmitEmpty)
	if !strings.Contains(n.Body, "Observaciones: "+obs) {
		t.Fatalf("observations must be copied verbatim, got %q", n.Body)
	}
}

func TestRender_Deterministic(t *testing.T) {
	e := event("Falta firma")
	for _, style := range []render.Style{render.StyleOmitEmpty, render.StyleInline} {
		a := render.Render(e, style)
		b := render.Render(e, style)
		if a != b {
			t.Fatalf("style %d: render is not deterministic: %+v vs %+v", style, a, b)
		}
	}
}
