// Package common provides small shared utilities, currently timing.
package common

import (
	"fmt"
	"time"
)

// Timer measures one operation, labeled with the document or stage it
// covers.
type Timer struct {
	start    time.Time
	name     string
	duration time.Duration
}

// NewNamedTimer starts a timer for the given document or stage.
func NewNamedTimer(name string) *Timer {
	return &Timer{
		name:  name,
		start: time.Now(),
	}
}

// Stop stops the timer and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	return t.duration
}

// Duration returns the recorded duration (only valid after Stop()).
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Name returns the timer label.
func (t *Timer) Name() string {
	return t.name
}

// String renders the label and recorded duration for log output.
func (t *Timer) String() string {
	return fmt.Sprintf("%s: %v", t.name, t.duration)
}
