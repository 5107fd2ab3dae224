package domain

import "time"

// Hypothesis is a free-text note about a change, correlated with funnel
// numbers only through its date.
type Hypothesis struct {
	ID          string
	Name        string
	Description *string
	Date        time.Time
}
