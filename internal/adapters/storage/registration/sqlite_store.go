package registration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"yatra/internal/adapters/storage"
	domain "yatra/internal/domain/registration"
)

// SQLiteStore implements Store using SQLite. Members, add-ons, and document
// paths are JSON columns; the resolved train and package choices are stored
// as nullable JSON documents.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new registration store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const registrationColumns = "id, offering_id, email, phone, members_json, same_room_preference, wants_train_booking, accommodation_notes, train_json, package_json, addons_json, total_amount, is_advance_payment, advanced_payment_amount, payment_screenshot_path, member_document_paths_json, suggestions, status, created_at"

// Save persists a Registration to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, r domain.Registration) error {
	members, err := json.Marshal(r.Members)
	if err != nil {
		return fmt.Errorf("serializing members: %w", err)
	}
	addOns, err := json.Marshal(r.AddOns)
	if err != nil {
		return fmt.Errorf("serializing add-ons: %w", err)
	}
	docPaths, err := json.Marshal(r.MemberDocumentPaths)
	if err != nil {
		return fmt.Errorf("serializing document paths: %w", err)
	}

	var trainJSON, packageJSON any
	if r.Train != nil {
		raw, err := json.Marshal(r.Train)
		if err != nil {
			return fmt.Errorf("serializing train choice: %w", err)
		}
		trainJSON = string(raw)
	}
	if r.Package != nil {
		raw, err := json.Marshal(r.Package)
		if err != nil {
			return fmt.Errorf("serializing package choice: %w", err)
		}
		packageJSON = string(raw)
	}

	query := `INSERT INTO registration (` + registrationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email=excluded.email, phone=excluded.phone, members_json=excluded.members_json,
			same_room_preference=excluded.same_room_preference,
			wants_train_booking=excluded.wants_train_booking,
			accommodation_notes=excluded.accommodation_notes,
			train_json=excluded.train_json, package_json=excluded.package_json,
			addons_json=excluded.addons_json, total_amount=excluded.total_amount,
			is_advance_payment=excluded.is_advance_payment,
			advanced_payment_amount=excluded.advanced_payment_amount,
			payment_screenshot_path=excluded.payment_screenshot_path,
			member_document_paths_json=excluded.member_document_paths_json,
			suggestions=excluded.suggestions, status=excluded.status`

	_, err = s.db.ExecContext(ctx, query,
		r.ID, r.OfferingID, r.Email, r.Phone, string(members),
		boolToInt(r.SameRoomPreference), boolToInt(r.WantsTrainBooking),
		r.AccommodationNotes, trainJSON, packageJSON, string(addOns),
		r.TotalAmount, boolToInt(r.IsAdvancePayment), r.AdvancedPaymentAmount,
		r.PaymentScreenshotPath, string(docPaths), r.Suggestions,
		r.Status, r.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetByID retrieves a Registration by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Registration, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+registrationColumns+" FROM registration WHERE id = ?", id)
	r, err := scanRegistration(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Registration{}, fmt.Errorf("registration not found: %w", err)
	}
	return r, err
}

// List retrieves registrations matching the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Registration, error) {
	where, args := listWhereClause(filter)
	query := "SELECT " + registrationColumns + " FROM registration" + where + sortClause(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Registration
	for rows.Next() {
		r, err := scanRegistration(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Count returns the number of registrations matching the filter.
// PRE: filter has valid parameters
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM registration"+where, args...).Scan(&count)
	return count, err
}

func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.OfferingID != "" {
		where += " AND offering_id = ?"
		args = append(args, filter.OfferingID)
	}
	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		where += " AND (email LIKE ? OR phone LIKE ?)"
		term := "%" + filter.Search + "%"
		args = append(args, term, term)
	}
	return where, args
}

// sortClause returns a safe ORDER BY clause. Only allowed columns are accepted.
func sortClause(filter ListFilter) string {
	allowed := map[string]string{
		"email":        "email",
		"status":       "status",
		"total_amount": "total_amount",
		"created_at":   "created_at",
	}
	col, ok := allowed[filter.Sort]
	if !ok {
		return " ORDER BY created_at DESC"
	}
	dir := "ASC"
	if filter.Dir == "desc" {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir
}

func scanRegistration(scan func(dest ...any) error) (domain.Registration, error) {
	var r domain.Registration
	var members, addOns, docPaths, createdAt string
	var trainJSON, packageJSON sql.NullString
	var sameRoom, wantsTrain, isAdvance int

	err := scan(
		&r.ID, &r.OfferingID, &r.Email, &r.Phone, &members,
		&sameRoom, &wantsTrain, &r.AccommodationNotes,
		&trainJSON, &packageJSON, &addOns,
		&r.TotalAmount, &isAdvance, &r.AdvancedPaymentAmount,
		&r.PaymentScreenshotPath, &docPaths, &r.Suggestions,
		&r.Status, &createdAt,
	)
	if err != nil {
		return domain.Registration{}, err
	}

	r.SameRoomPreference = sameRoom != 0
	r.WantsTrainBooking = wantsTrain != 0
	r.IsAdvancePayment = isAdvance != 0
	_ = json.Unmarshal([]byte(members), &r.Members)
	_ = json.Unmarshal([]byte(addOns), &r.AddOns)
	_ = json.Unmarshal([]byte(docPaths), &r.MemberDocumentPaths)
	if trainJSON.Valid {
		var tc domain.TrainChoice
		if err := json.Unmarshal([]byte(trainJSON.String), &tc); err == nil {
			r.Train = &tc
		}
	}
	if packageJSON.Valid {
		var pc domain.PackageChoice
		if err := json.Unmarshal([]byte(packageJSON.String), &pc); err == nil {
			r.Package = &pc
		}
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		r.CreatedAt = t
	}
	return r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
