package projections

import (
	"context"

	storeRegistration "yatra/internal/adapters/storage/registration"
	"yatra/internal/application/listutil"
	domainRegistration "yatra/internal/domain/registration"
)

// RegistrationSortColumns are the sortable columns for the registration list.
var RegistrationSortColumns = []string{"email", "status", "total_amount", "created_at"}

// GetRegistrationListQuery carries query parameters.
type GetRegistrationListQuery struct {
	OfferingID string
	Params     listutil.ListParams
}

// RegistrationRow is one row of the back-office registration table.
type RegistrationRow struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	HeadCount   int     `json:"headCount"`
	TotalAmount float64 `json:"totalAmount"`
	AmountDue   float64 `json:"amountDue"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
}

// GetRegistrationListResult carries the query result.
type GetRegistrationListResult struct {
	Rows     []RegistrationRow `json:"rows"`
	PageInfo listutil.PageInfo `json:"pageInfo"`
}

// GetRegistrationListDeps holds dependencies for GetRegistrationList.
type GetRegistrationListDeps struct {
	RegistrationStore RegistrationStore
}

// QueryGetRegistrationList retrieves one page of registrations for an offering.
// PRE: Params parsed via listutil; sort column already whitelisted
// POST: Returns rows plus paging metadata
func QueryGetRegistrationList(ctx context.Context, query GetRegistrationListQuery, deps GetRegistrationListDeps) (GetRegistrationListResult, error) {
	filter := storeRegistration.ListFilter{
		OfferingID: query.OfferingID,
		Status:     query.Params.Filters["status"],
		Search:     query.Params.Search,
		Sort:       query.Params.Sort,
		Dir:        query.Params.Dir,
	}

	total, err := deps.RegistrationStore.Count(ctx, filter)
	if err != nil {
		return GetRegistrationListResult{}, err
	}

	pageInfo := listutil.NewPageInfo(query.Params.Page, query.Params.PerPage, total)
	filter.Limit = pageInfo.PerPage
	filter.Offset = pageInfo.Offset()

	regs, err := deps.RegistrationStore.List(ctx, filter)
	if err != nil {
		return GetRegistrationListResult{}, err
	}

	rows := make([]RegistrationRow, 0, len(regs))
	for i := range regs {
		rows = append(rows, toRow(&regs[i]))
	}

	return GetRegistrationListResult{Rows: rows, PageInfo: pageInfo}, nil
}

func toRow(r *domainRegistration.Registration) RegistrationRow {
	return RegistrationRow{
		ID:          r.ID,
		Email:       r.Email,
		Phone:       r.Phone,
		HeadCount:   r.HeadCount(),
		TotalAmount: r.TotalAmount,
		AmountDue:   r.AmountDue(),
		Status:      r.Status,
		CreatedAt:   r.CreatedAt.Format("2006-01-02 15:04"),
	}
}
