package service

import "errors"

// Client input errors. Handlers map these to 400 responses.
var (
	ErrInvalidDate      = errors.New("invalid date format, use YYYY-MM-DD")
	ErrMissingEventType = errors.New("event_type parameter required")
	ErrUnknownEventType = errors.New("unknown event_type")
	ErrInvalidRange     = errors.New("end_date must not be before start_date")
	ErrEmptyQuery       = errors.New("please enter a valid UPC or product name")
	ErrNonNumeric       = errors.New("non numerical SKU input provided")
)

// IsClientError reports whether err was caused by invalid caller input
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrMissingEventType) ||
		errors.Is(err, ErrUnknownEventType) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrEmptyQuery) ||
		errors.Is(err, ErrNonNumeric)
}
