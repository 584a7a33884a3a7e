package offering

import (
	"context"

	domain "yatra/internal/domain/offering"
)

// ListFilter carries filtering parameters for offering lists.
type ListFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

// Store defines the interface for offering persistence.
type Store interface {
	Save(ctx context.Context, o domain.Offering) error
	GetByID(ctx context.Context, id string) (domain.Offering, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Offering, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	Delete(ctx context.Context, id string) error
}
