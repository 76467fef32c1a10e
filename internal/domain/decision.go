package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
)

// ApplicationID identifies a loan application. Producers send it either as a
// JSON string or a JSON number; the original literal is kept so the relay can
// republish it unchanged, while String gives the form used in rendered text.
type ApplicationID struct {
	literal string
	text    string
	numeric bool
}

// NewApplicationID returns a string-kind id.
func NewApplicationID(s string) ApplicationID { return ApplicationID{literal: s, text: s} }

// NumericApplicationID returns a number-kind id.
func NumericApplicationID(n int64) ApplicationID {
	s := strconv.FormatInt(n, 10)
	return ApplicationID{literal: s, text: s, numeric: true}
}

// String returns the id as rendered to recipients. Integral numbers are
// printed without exponent or fraction, so 4.2e1 and 42.0 both read "42".
func (id ApplicationID) String() string { return id.text }

func (id ApplicationID) IsZero() bool { return id.literal == "" }

func (id ApplicationID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.literal), nil
	}
	return json.Marshal(id.literal)
}

func (id *ApplicationID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ApplicationID{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = NewApplicationID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("idApplication must be a string or a number")
	}
	*id = ApplicationID{literal: n.String(), text: canonicalNumber(n), numeric: true}
	return nil
}

// canonicalNumber formats n the way a JavaScript producer would print it.
func canonicalNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	r, ok := new(big.Rat).SetString(n.String())
	if !ok {
		return n.String()
	}
	if r.IsInt() {
		return r.Num().String()
	}
	f, _ := r.Float64()
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// DecisionEvent is the message a producer enqueues when an application is
// approved or rejected. The relay republishes it to the topic as-is, so the
// same type is the notification payload read by the dispatcher.
//
// Only idApplication and decision are typed strictly. Everything else is
// producer metadata: it is read leniently and the original bytes, unknown
// keys included, are what gets republished.
type DecisionEvent struct {
	IDApplication ApplicationID
	Decision      string
	Observations  string
	Email         string

	EventID       string
	CorrelationID string
	IDUser        json.RawMessage
	LoanTypeID    json.RawMessage
	DecidedAt     json.RawMessage

	raw []byte
}

type decisionWire struct {
	IDApplication ApplicationID   `json:"idApplication"`
	Decision      *string         `json:"decision"`
	Observations  json.RawMessage `json:"observations,omitempty"`
	Email         json.RawMessage `json:"email,omitempty"`
	EventID       json.RawMessage `json:"eventId,omitempty"`
	IDUser        json.RawMessage `json:"idUser,omitempty"`
	LoanTypeID    json.RawMessage `json:"loanTypeId,omitempty"`
	CorrelationID json.RawMessage `json:"correlationId,omitempty"`
	DecidedAt     json.RawMessage `json:"decidedAt,omitempty"`
}

// NotificationPayload is the body of a topic message. The relay does not
// enrich the event, so it is the same shape.
type NotificationPayload = DecisionEvent

func (e *DecisionEvent) UnmarshalJSON(b []byte) error {
	var w decisionWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*e = DecisionEvent{
		IDApplication: w.IDApplication,
		Observations:  looseText(w.Observations),
		Email:         stringOrEmpty(w.Email),
		EventID:       stringOrEmpty(w.EventID),
		CorrelationID: stringOrEmpty(w.CorrelationID),
		IDUser:        w.IDUser,
		LoanTypeID:    w.LoanTypeID,
		DecidedAt:     w.DecidedAt,
		raw:           append([]byte(nil), bytes.TrimSpace(b)...),
	}
	if w.Decision != nil {
		e.Decision = *w.Decision
	}
	return nil
}

// MarshalJSON returns the bytes the event was decoded from. Events built in
// code are encoded from their fields.
func (e DecisionEvent) MarshalJSON() ([]byte, error) {
	if e.raw != nil {
		return e.raw, nil
	}
	w := decisionWire{
		IDApplication: e.IDApplication,
		Decision:      &e.Decision,
		IDUser:        e.IDUser,
		LoanTypeID:    e.LoanTypeID,
		DecidedAt:     e.DecidedAt,
	}
	var err error
	if w.Observations, err = optionalString(e.Observations); err != nil {
		return nil, err
	}
	if w.Email, err = optionalString(e.Email); err != nil {
		return nil, err
	}
	if w.EventID, err = optionalString(e.EventID); err != nil {
		return nil, err
	}
	if w.CorrelationID, err = optionalString(e.CorrelationID); err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// Payload returns the serialized event exactly as it should travel on the
// topic. Unlike json.Marshal it does not compact the producer's bytes.
func (e *DecisionEvent) Payload() ([]byte, error) {
	if e.raw != nil {
		return append([]byte(nil), e.raw...), nil
	}
	return json.Marshal(e)
}

// looseText reads a JSON string as its value and any other non-null value as
// its literal text.
func looseText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// stringOrEmpty reads a JSON string; anything else is treated as absent.
func stringOrEmpty(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func optionalString(s string) (json.RawMessage, error) {
	if s == "" {
		return nil, nil
	}
	return json.Marshal(s)
}

// Validate checks the fields every stage needs.
func (e *DecisionEvent) Validate() error {
	if e.IDApplication.IsZero() {
		return fmt.Errorf("%w: idApplication is required", ErrMalformedPayload)
	}
	if e.Decision == "" {
		return fmt.Errorf("%w: decision is required", ErrMalformedPayload)
	}
	return nil
}

// ValidateForDelivery additionally requires a destination address.
func (e *DecisionEvent) ValidateForDelivery() error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.Email == "" {
		return fmt.Errorf("%w: email is required", ErrMalformedPayload)
	}
	return nil
}

// DecodeDecision parses a serialized DecisionEvent and validates the
// required fields. Every failure wraps ErrMalformedPayload.
func DecodeDecision(data []byte) (*DecisionEvent, error) {
	var e DecisionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
