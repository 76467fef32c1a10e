package domain_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/notifyhub/decision-notifier/internal/domain"
)

func TestDecodeDecision(t *testing.T) {
	t.Run("numeric id", func(t *testing.T) {
		e, err := domain.DecodeDecision([]byte(`{"idApplication":42,"decision":"APPROVED","observations":null,"email":"a@x.com"}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if e.IDApplication.String() != "42" {
			t.Fatalf("expected id 42, got %q", e.IDApplication)
		}
		if e.Observations != "" {
			t.Fatalf("expected no observations, got %q", e.Observations)
		}
	})

	t.Run("string id", func(t *testing.T) {
		e, err := domain.DecodeDecision([]byte(`{"idApplication":"APP-7","decision":"REJECTED"}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if e.IDApplication.String() != "APP-7" {
			t.Fatalf("expected id APP-7, got %q", e.IDApplication)
		}
	})

	cases := []struct {
		name string
		body string
	}{
		{"not json", `not json`},
		{"missing id", `{"decision":"APPROVED"}`},
		{"null id", `{"idApplication":null,"decision":"APPROVED"}`},
		{"missing decision", `{"idApplication":1}`},
		{"boolean id", `{"idApplication":true,"decision":"APPROVED"}`},
		{"array body", `[1,2]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.DecodeDecision([]byte(tc.body))
			if !errors.Is(err, domain.ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

func TestDecisionEvent_ValidateForDelivery(t *testing.T) {
	e := domain.DecisionEvent{IDApplication: domain.NumericApplicationID(1), Decision: "APPROVED"}
	if err := e.ValidateForDelivery(); !errors.Is(err, domain.ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload without email, got %v", err)
	}

	e.Email = "a@x.com"
	if err := e.ValidateForDelivery(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

// TestDecisionEvent_RoundTripKeepsIDKind verifies the relay republishes the id
// with the same JSON kind it received.
func TestDecisionEvent_RoundTripKeepsIDKind(t *testing.T) {
	for _, body := range []string{
		`{"idApplication":42,"decision":"APPROVED"}`,
		`{"idApplication":"42","decision":"APPROVED"}`,
	} {
		e, err := domain.DecodeDecision([]byte(body))
		if err != nil {
			t.Fatalf("%s: %v", body, err)
		}
		out, err := json.Marshal(e)
		if err != nil {
			t.Fatalf("%s: marshal: %v", body, err)
		}
		if string(out) != body {
			t.Fatalf("expected %s, got %s", body, out)
		}
	}
}

func TestDecisionEvent_PassThroughFields(t *testing.T) {
	body := `{"idApplication":9,"decision":"APPROVED","email":"a@x.com","eventId":"ev-1","idUser":"3","loanTypeId":2,"correlationId":"c-1","decidedAt":"2025-01-02T03:04:05.120Z","channel":"web"}`
	e, err := domain.DecodeDecision([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.EventID != "ev-1" || e.CorrelationID != "c-1" {
		t.Fatalf("expected ev-1/c-1, got %q/%q", e.EventID, e.CorrelationID)
	}
	if string(e.IDUser) != `"3"` || string(e.DecidedAt) != `"2025-01-02T03:04:05.120Z"` {
		t.Fatalf("expected raw metadata, got idUser=%s decidedAt=%s", e.IDUser, e.DecidedAt)
	}
	payload, err := e.Payload()
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if string(payload) != body {
		t.Fatalf("expected %s, got %s", body, payload)
	}
}

func TestDecodeDecision_LenientMetadata(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"epoch decidedAt", `{"idApplication":1,"decision":"APPROVED","decidedAt":1735787045.123}`},
		{"string idUser", `{"idApplication":1,"decision":"APPROVED","idUser":"3"}`},
		{"plain decidedAt", `{"idApplication":1,"decision":"APPROVED","decidedAt":"2025-01-02 03:04:05"}`},
		{"numeric correlationId", `{"idApplication":1,"decision":"APPROVED","correlationId":7}`},
		{"object eventId", `{"idApplication":1,"decision":"APPROVED","eventId":{"v":1}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, err := domain.DecodeDecision([]byte(tc.body))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if e.EventID != "" || e.CorrelationID != "" {
				t.Fatalf("expected non-string ids to be ignored, got %q/%q", e.EventID, e.CorrelationID)
			}
		})
	}

	t.Run("numeric email is absent", func(t *testing.T) {
		e, err := domain.DecodeDecision([]byte(`{"idApplication":1,"decision":"APPROVED","email":5}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := e.ValidateForDelivery(); !errors.Is(err, domain.ErrMalformedPayload) {
			t.Fatalf("expected ErrMalformedPayload, got %v", err)
		}
	})

	t.Run("numeric observations keep their text", func(t *testing.T) {
		e, err := domain.DecodeDecision([]byte(`{"idApplication":1,"decision":"APPROVED","observations":12}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if e.Observations != "12" {
			t.Fatalf("expected observations 12, got %q", e.Observations)
		}
	})

	t.Run("non-string decision", func(t *testing.T) {
		_, err := domain.DecodeDecision([]byte(`{"idApplication":1,"decision":1}`))
		if !errors.Is(err, domain.ErrMalformedPayload) {
			t.Fatalf("expected ErrMalformedPayload, got %v", err)
		}
	})
}

func TestApplicationID_String(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"idApplication":42,"decision":"A"}`, "42"},
		{`{"idApplication":4.2e1,"decision":"A"}`, "42"},
		{`{"idApplication":42.0,"decision":"A"}`, "42"},
		{`{"idApplication":-7E0,"decision":"A"}`, "-7"},
		{`{"idApplication":12345678901234567890,"decision":"A"}`, "12345678901234567890"},
		{`{"idApplication":4.25,"decision":"A"}`, "4.25"},
		{`{"idApplication":"4.2e1","decision":"A"}`, "4.2e1"},
	}
	for _, tc := range tests {
		t.Run(tc.body, func(t *testing.T) {
			e, err := domain.DecodeDecision([]byte(tc.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := e.IDApplication.String(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
			out, _ := json.Marshal(e.IDApplication)
			if !strings.Contains(tc.body, `"idApplication":`+string(out)) {
				t.Fatalf("expected literal kept, got %s", out)
			}
		})
	}
}

func TestDecisionEvent_MarshalBuilt(t *testing.T) {
	e := domain.DecisionEvent{
		IDApplication: domain.NumericApplicationID(5),
		Decision:      "REJECTED",
		Email:         "a@x.com",
		DecidedAt:     json.RawMessage(`1735787045`),
	}
	out, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"idApplication":5,"decision":"REJECTED","email":"a@x.com","decidedAt":1735787045}`
	if string(out) != want {
		t.Fatalf("expected %s, got %s", want, out)
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{domain.ErrMalformedPayload, "malformed"},
		{errors.Join(errors.New("x"), domain.ErrEnvelope), "envelope"},
		{domain.ErrPublishFailure, "publish"},
		{domain.ErrSendFailure, "send"},
		{domain.ErrNotAttempted, "not_attempted"},
		{errors.New("boom"), "internal"},
	}
	for _, tc := range tests {
		if got := domain.Reason(tc.err); got != tc.want {
			t.Fatalf("Reason(%v): expected %q, got %q", tc.err, tc.want, got)
		}
	}
}
