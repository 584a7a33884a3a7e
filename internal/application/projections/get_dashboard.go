package projections

import (
	"context"

	storeOffering "yatra/internal/adapters/storage/offering"
	storeRegistration "yatra/internal/adapters/storage/registration"
	domainOffering "yatra/internal/domain/offering"
	domainRegistration "yatra/internal/domain/registration"
)

// DashboardResult carries the back-office dashboard aggregates.
type DashboardResult struct {
	PublishedOfferings int `json:"publishedOfferings"`
	DraftOfferings     int `json:"draftOfferings"`

	PendingRegistrations   int `json:"pendingRegistrations"`
	ConfirmedRegistrations int `json:"confirmedRegistrations"`
	CancelledRegistrations int `json:"cancelledRegistrations"`

	// TotalPilgrims and CollectedAmount cover non-cancelled registrations.
	TotalPilgrims   int     `json:"totalPilgrims"`
	CollectedAmount float64 `json:"collectedAmount"`

	RecentRegistrations []RegistrationRow `json:"recentRegistrations"`
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	OfferingStore     OfferingStore
	RegistrationStore RegistrationStore
}

// QueryGetDashboard aggregates counts and amounts for the back-office landing
// page. Individual lookups degrade to zero values rather than failing the
// whole dashboard.
func QueryGetDashboard(ctx context.Context, deps GetDashboardDeps) (DashboardResult, error) {
	var result DashboardResult

	if n, err := deps.OfferingStore.Count(ctx, storeOffering.ListFilter{Status: domainOffering.StatusPublished}); err == nil {
		result.PublishedOfferings = n
	}
	if n, err := deps.OfferingStore.Count(ctx, storeOffering.ListFilter{Status: domainOffering.StatusDraft}); err == nil {
		result.DraftOfferings = n
	}

	for status, dst := range map[string]*int{
		domainRegistration.StatusPending:   &result.PendingRegistrations,
		domainRegistration.StatusConfirmed: &result.ConfirmedRegistrations,
		domainRegistration.StatusCancelled: &result.CancelledRegistrations,
	} {
		if n, err := deps.RegistrationStore.Count(ctx, storeRegistration.ListFilter{Status: status}); err == nil {
			*dst = n
		}
	}

	// Head counts and money live inside JSON documents, so aggregate in Go
	// over a bounded window rather than in SQL.
	regs, err := deps.RegistrationStore.List(ctx, storeRegistration.ListFilter{Limit: 1000})
	if err != nil {
		return result, err
	}
	for i := range regs {
		if regs[i].Status == domainRegistration.StatusCancelled {
			continue
		}
		result.TotalPilgrims += regs[i].HeadCount()
		result.CollectedAmount += regs[i].AmountDue()
	}

	recent := regs
	if len(recent) > 5 {
		recent = recent[:5]
	}
	result.RecentRegistrations = make([]RegistrationRow, 0, len(recent))
	for i := range recent {
		result.RecentRegistrations = append(result.RecentRegistrations, toRow(&recent[i]))
	}

	return result, nil
}
