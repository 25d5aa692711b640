package model

import "time"

// Annotation ties a stored selector to the source it was marked on.
// The ID is opaque to the anchoring core; the store keys on it.
type Annotation struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`         // document source the span was marked on
	Note      string    `json:"note,omitempty"` // caller-supplied note, not interpreted
	Selector  Selector  `json:"selector"`
	CreatedAt time.Time `json:"created_at"`
}
