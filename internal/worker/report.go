package worker

import (
	"errors"
	"fmt"

	"github.com/notifyhub/decision-notifier/internal/domain"
)

// Outcome is the result of one record.
type Outcome struct {
	ID      string
	Err     error
	Skipped bool
}

// Failed reports whether the record needs redelivery.
func (o Outcome) Failed() bool { return o.Err != nil || o.Skipped }

// Error returns the record's error, ErrNotAttempted for skipped records.
func (o Outcome) Error() error {
	if o.Skipped {
		return fmt.Errorf("%s: %w", o.ID, domain.ErrNotAttempted)
	}
	if o.Err != nil {
		return fmt.Errorf("%s: %w", o.ID, o.Err)
	}
	return nil
}

// Report collects the outcomes of a batch in input order.
type Report struct {
	Outcomes []Outcome
}

// FailedIDs lists records that failed or were never attempted.
func (r Report) FailedIDs() []string {
	var ids []string
	for _, o := range r.Outcomes {
		if o.Failed() {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// Succeeded counts records processed without error.
func (r Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Failed() {
			n++
		}
	}
	return n
}

// Err joins every record error, or returns nil when the batch is clean.
func (r Report) Err() error {
	var errs []error
	for _, o := range r.Outcomes {
		if err := o.Error(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
