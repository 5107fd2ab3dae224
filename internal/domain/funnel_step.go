package domain

// FunnelStep is one stage of the conversion funnel. OrderNumber is unique and
// defines the funnel sequence.
type FunnelStep struct {
	ID          string
	Name        string
	OrderNumber int64
}
