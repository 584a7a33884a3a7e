// Package projections implements read-side queries that aggregate store data
// for the back office. Projections never mutate state.
package projections

import (
	"context"

	storeOffering "yatra/internal/adapters/storage/offering"
	storeRegistration "yatra/internal/adapters/storage/registration"
	domainOffering "yatra/internal/domain/offering"
	domainRegistration "yatra/internal/domain/registration"
)

// OfferingStore defines the offering store interface needed by projections.
type OfferingStore interface {
	GetByID(ctx context.Context, id string) (domainOffering.Offering, error)
	List(ctx context.Context, filter storeOffering.ListFilter) ([]domainOffering.Offering, error)
	Count(ctx context.Context, filter storeOffering.ListFilter) (int, error)
}

// RegistrationStore defines the registration store interface needed by projections.
type RegistrationStore interface {
	GetByID(ctx context.Context, id string) (domainRegistration.Registration, error)
	List(ctx context.Context, filter storeRegistration.ListFilter) ([]domainRegistration.Registration, error)
	Count(ctx context.Context, filter storeRegistration.ListFilter) (int, error)
}
