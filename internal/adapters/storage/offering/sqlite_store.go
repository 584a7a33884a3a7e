package offering

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"yatra/internal/adapters/storage"
	domain "yatra/internal/domain/offering"
)

// SQLiteStore implements Store using SQLite. The train, package, and add-on
// catalogs are stored as JSON document columns.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new offering store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const offeringColumns = "id, title, image_url, display_date, location, duration, eligibility, description, ticket_price_text, advance_payment_percentage, trains_json, packages_json, addons_json, status, created_at"

// Save persists an Offering to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, o domain.Offering) error {
	trains, err := json.Marshal(o.Trains)
	if err != nil {
		return fmt.Errorf("serializing trains: %w", err)
	}
	packages, err := json.Marshal(o.Packages)
	if err != nil {
		return fmt.Errorf("serializing packages: %w", err)
	}
	addOns, err := json.Marshal(o.AddOns)
	if err != nil {
		return fmt.Errorf("serializing add-ons: %w", err)
	}

	query := `INSERT INTO offering (` + offeringColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, image_url=excluded.image_url,
			display_date=excluded.display_date, location=excluded.location,
			duration=excluded.duration, eligibility=excluded.eligibility,
			description=excluded.description, ticket_price_text=excluded.ticket_price_text,
			advance_payment_percentage=excluded.advance_payment_percentage,
			trains_json=excluded.trains_json, packages_json=excluded.packages_json,
			addons_json=excluded.addons_json, status=excluded.status`

	_, err = s.db.ExecContext(ctx, query,
		o.ID, o.Title, o.ImageURL, o.DisplayDate, o.Location, o.Duration,
		o.Eligibility, o.Description, o.TicketPriceText,
		float64(o.AdvancePaymentPercentage),
		string(trains), string(packages), string(addOns),
		o.Status, o.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetByID retrieves an Offering by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Offering, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+offeringColumns+" FROM offering WHERE id = ?", id)
	o, err := scanOffering(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Offering{}, fmt.Errorf("offering not found: %w", err)
	}
	return o, err
}

// List retrieves offerings matching the filter, newest first.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Offering, error) {
	where, args := listWhereClause(filter)
	query := "SELECT " + offeringColumns + " FROM offering" + where + " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Offering
	for rows.Next() {
		o, err := scanOffering(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, o)
	}
	return results, rows.Err()
}

// Count returns the number of offerings matching the filter.
// PRE: filter has valid parameters
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM offering"+where, args...).Scan(&count)
	return count, err
}

// Delete removes an Offering from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM offering WHERE id = ?", id)
	return err
}

func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		where += " AND (title LIKE ? OR location LIKE ?)"
		term := "%" + filter.Search + "%"
		args = append(args, term, term)
	}
	return where, args
}

// scanOffering reads one offering row, decoding the JSON catalog columns.
// Corrupt catalog JSON degrades to empty catalogs rather than failing reads.
func scanOffering(scan func(dest ...any) error) (domain.Offering, error) {
	var o domain.Offering
	var pct float64
	var trains, packages, addOns, createdAt string

	err := scan(
		&o.ID, &o.Title, &o.ImageURL, &o.DisplayDate, &o.Location, &o.Duration,
		&o.Eligibility, &o.Description, &o.TicketPriceText, &pct,
		&trains, &packages, &addOns, &o.Status, &createdAt,
	)
	if err != nil {
		return domain.Offering{}, err
	}

	o.AdvancePaymentPercentage = domain.Rupees(pct)
	_ = json.Unmarshal([]byte(trains), &o.Trains)
	_ = json.Unmarshal([]byte(packages), &o.Packages)
	_ = json.Unmarshal([]byte(addOns), &o.AddOns)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		o.CreatedAt = t
	}
	return o, nil
}
