package vessel

import (
	"errors"

	"github.com/raushankrgupta/vessel-registry-scraper/models"
)

var (
	// ErrShipNotFound means the record never exposed an "Asset details" link
	ErrShipNotFound = errors.New("ship not found")
	// ErrShipDetailsFailedToLoad means the details link was opened but the
	// registry information never rendered
	ErrShipDetailsFailedToLoad = errors.New("ship found but details failed to load")
)

// Classify maps a navigation error to an outcome kind
func Classify(err error) models.OutcomeKind {
	switch {
	case err == nil:
		return models.OutcomeScraped
	case errors.Is(err, ErrShipNotFound):
		return models.OutcomeNotFound
	case errors.Is(err, ErrShipDetailsFailedToLoad):
		return models.OutcomeLoadFailed
	default:
		return models.OutcomeFailed
	}
}
