package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPriceNotFound   = errors.New("price not found")
	ErrForbidden       = errors.New("access forbidden")
	ErrInvalidIdentity = errors.New("invalid identity")
	ErrScopeLocked     = errors.New("price scope is being modified, retry later")
)

// ValidationError carries every field problem found in a price payload.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// Conflict is an existing current price that collides with a proposed one.
type Conflict struct {
	Price                 PriceRecord `json:"price"`
	OriginRegionName      string      `json:"originRegionName"`
	DestinationRegionName string      `json:"destinationRegionName"`
}

// ConflictReport lists every collision found for a proposed price.
type ConflictReport struct {
	HasConflict bool       `json:"hasConflict"`
	Conflicts   []Conflict `json:"conflicts"`
}

// IDs returns the ids of the conflicting prices.
func (r *ConflictReport) IDs() []string {
	ids := make([]string, 0, len(r.Conflicts))
	for _, c := range r.Conflicts {
		ids = append(ids, c.Price.ID)
	}
	return ids
}

// ConflictError rejects a write that would overlap existing current prices.
type ConflictError struct {
	Report *ConflictReport
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("price conflicts with %d existing price(s): %s", len(e.Report.Conflicts), strings.Join(e.Report.IDs(), ", "))
}
