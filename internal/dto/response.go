package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"invalid date format, use YYYY-MM-DD"`
}

// ItemResponse represents a product table row
type ItemResponse struct {
	UPC   string  `json:"upc" example:"012345"`
	Name  string  `json:"name" example:"Whole Milk"`
	Price float64 `json:"price" example:"3.99"`
}

// LookupResponse represents the result of a scan or lookup. Misses are not errors.
type LookupResponse struct {
	Kind        string         `json:"kind" example:"barcode"`
	Query       string         `json:"query" example:"012345"`
	Found       bool           `json:"found" example:"true"`
	Message     string         `json:"message" example:"Item: Whole Milk, Price: $3.99"`
	Item        *ItemResponse  `json:"item,omitempty"`
	Suggestions []ItemResponse `json:"suggestions,omitempty"`
	Matches     []ItemResponse `json:"matches,omitempty"`
}

// StatusResponse represents a simple acknowledgement
type StatusResponse struct {
	Status string `json:"status" example:"logged"`
}

// SummaryResponse represents lifetime counts and derived dashboard metrics
type SummaryResponse struct {
	Counts                  map[string]int64 `json:"counts"`
	LookupSuccessTotal      int64            `json:"lookup_success_total" example:"3"`
	LookupFailureTotal      int64            `json:"lookup_failure_total" example:"1"`
	BarcodeScanFailureTotal int64            `json:"barcode_scan_failure_total" example:"0"`
	SuccessRate             float64          `json:"success_rate" example:"75"`
}

// HourlyCountResponse represents one non-empty hour bucket
type HourlyCountResponse struct {
	Hour  string `json:"hour" example:"2024-06-01 09:00:00"`
	Count int64  `json:"count" example:"2"`
}

// ItemEventResponse represents one event in the item-level listing
type ItemEventResponse struct {
	EventType  string `json:"event_type" example:"lookup_success"`
	Time       string `json:"time" example:"2024-06-01 09:15:00"`
	SubjectKey string `json:"subject_key,omitempty" example:"012345"`
	Detail     string `json:"detail,omitempty" example:"Whole Milk"`
}
