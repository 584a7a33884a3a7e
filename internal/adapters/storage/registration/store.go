package registration

import (
	"context"

	domain "yatra/internal/domain/registration"
)

// ListFilter carries filtering, sorting, and paging parameters for
// registration lists.
type ListFilter struct {
	OfferingID string
	Status     string
	Search     string // matches contact email or phone
	Sort       string // whitelisted column name
	Dir        string // "asc" or "desc"
	Limit      int
	Offset     int
}

// Store defines the interface for registration persistence.
type Store interface {
	Save(ctx context.Context, r domain.Registration) error
	GetByID(ctx context.Context, id string) (domain.Registration, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Registration, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}
