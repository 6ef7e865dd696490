package dto

// ScanRequest represents a scanned barcode
type ScanRequest struct {
	Barcode string `json:"barcode" binding:"required" example:"012345"`
}

// LookupRequest represents a manual UPC or product name query
type LookupRequest struct {
	Query string `json:"query" binding:"required" example:"milk"`
}

// ClientErrorRequest represents an error reported by the browser scanner
type ClientErrorRequest struct {
	Error   string `json:"error" example:"NotFoundException"`
	Details string `json:"details" example:"No barcode detected in frame"`
	SKU     string `json:"sku" example:"012345"`
}

// HistoricalRequest represents an hourly bucket query
type HistoricalRequest struct {
	EventType string `form:"event_type" example:"lookup_success"`
	StartDate string `form:"start_date" example:"2024-06-01"`
	EndDate   string `form:"end_date" example:"2024-06-07"`
}

// DateRangeRequest represents an optional inclusive date range
type DateRangeRequest struct {
	StartDate string `form:"start_date" example:"2024-06-01"`
	EndDate   string `form:"end_date" example:"2024-06-07"`
}
