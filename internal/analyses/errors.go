package analyses

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/monitor/internal/classifier"
)

// Domain errors for analysis operations.
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrIncompleteOutcome = errors.New("classifier outcome is missing a label or score")
	ErrDuplicate         = errors.New("analysis already exists")
	ErrNotFound          = errors.New("analysis not found")
	ErrUnsupportedColumn = errors.New("unsupported group column")
)

// MapHTTPStatus maps analysis errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	var te *classifier.TransportError
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &te), errors.Is(err, ErrIncompleteOutcome):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
