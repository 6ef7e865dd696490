package domain

// HourlyCount is the number of events within one local-time hour
type HourlyCount struct {
	Hour  string
	Count int64
}

// Summary holds lifetime counts and the dashboard's derived metrics
type Summary struct {
	Counts          map[EventType]int64
	CombinedSuccess int64
	CombinedFailure int64
	ScanFailures    int64
	SuccessRate     float64
}

// EventView is an event rendered for the item-level listing
type EventView struct {
	Type       EventType
	Time       string
	SubjectKey string
	Detail     string
}
