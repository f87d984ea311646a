package technician

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gmn-dev/dispatch/pkg/adapters"
	"github.com/gmn-dev/dispatch/pkg/models/domain"
	"github.com/gmn-dev/dispatch/pkg/models/store"
	"github.com/gmn-dev/dispatch/pkg/store/duckdb"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const columns = `id, name, trade, phone, email, address, city, state, zip_code, notes, hourly_rate, rating,
		is_blacklisted, blacklist_reason, is_active, money_made, jobs_done, created_at, updated_at`

const (
	getQuery    = `SELECT ` + columns + ` FROM technicians WHERE id = ?`
	insertQuery = `INSERT INTO technicians (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	updateQuery = `UPDATE technicians SET name = ?, trade = ?, phone = ?, email = ?, address = ?, city = ?,
		state = ?, zip_code = ?, notes = ?, hourly_rate = ?, rating = ?, is_blacklisted = ?,
		blacklist_reason = ?, updated_at = ? WHERE id = ?`
	deactivateQuery = `UPDATE technicians SET is_active = FALSE, updated_at = ? WHERE id = ?`
	deleteQuery     = `DELETE FROM technicians WHERE id = ?`
	tradesQuery     = `SELECT DISTINCT trade FROM technicians WHERE is_active ORDER BY trade`

	duplicateQuery  = `SELECT COUNT(*) FROM technicians WHERE name = ? AND trade = ?`
	referencesQuery = `SELECT
		(SELECT COUNT(*) FROM work_orders WHERE technician_id = ?) +
		(SELECT COUNT(*) FROM costs WHERE technician_id = ?)`
)

type Store interface {
	List(ctx context.Context, filter domain.TechnicianFilter, page store.Page) ([]store.Technician, int, error)
	Get(ctx context.Context, id string) (*store.Technician, error)
	Create(ctx context.Context, technician store.Technician) (*store.Technician, error)
	Update(ctx context.Context, id string, update domain.TechnicianUpdate) (*store.Technician, error)
	Delete(ctx context.Context, id string) error
	Trades(ctx context.Context) ([]string, error)
}

type defaultStore struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{
		db:    db,
		now:   time.Now,
		newID: uuid.NewString,
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTechnician(row scanner) (store.Technician, error) {
	var t store.Technician
	err := row.Scan(
		&t.ID, &t.Name, &t.Trade, &t.Phone, &t.Email, &t.Address, &t.City, &t.State, &t.ZipCode,
		&t.Notes, &t.HourlyRate, &t.Rating, &t.IsBlacklisted, &t.BlacklistReason, &t.IsActive,
		&t.MoneyMade, &t.JobsDone, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// buildFilter always hides deactivated technicians. Blacklisted ones are
// hidden unless asked for.
func buildFilter(filter domain.TechnicianFilter) (string, []any) {
	conditions := []string{"is_active"}
	var args []any

	if !filter.IncludeBlacklisted {
		conditions = append(conditions, "NOT is_blacklisted")
	}
	if filter.Trade != "" && filter.Trade != "all" {
		conditions = append(conditions, "trade = ?")
		args = append(args, filter.Trade)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		conditions = append(conditions, "(name ILIKE ? OR trade ILIKE ? OR city ILIKE ? OR phone ILIKE ?)")
		args = append(args, pattern, pattern, pattern, pattern)
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (s *defaultStore) List(
	ctx context.Context,
	filter domain.TechnicianFilter,
	page store.Page,
) ([]store.Technician, int, error) {
	logger := zerolog.Ctx(ctx)
	where, args := buildFilter(filter)
	conn := duckdb.Conn(ctx, s.db)

	var total int
	err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM technicians`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("technicians count failed: %w", err)
	}

	query := `SELECT ` + columns + ` FROM technicians` + where + ` ORDER BY name ASC LIMIT ? OFFSET ?`
	rows, err := conn.QueryContext(ctx, query, append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("technicians query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close technicians rows")
		}
	}(rows)

	records := []store.Technician{}
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan technician: %w", err)
		}
		records = append(records, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate technicians: %w", err)
	}

	return records, total, nil
}

func (s *defaultStore) Get(ctx context.Context, id string) (*store.Technician, error) {
	t, err := scanTechnician(duckdb.Conn(ctx, s.db).QueryRowContext(ctx, getQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("technician %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get technician %s: %w", id, err)
	}
	return &t, nil
}

// Create rejects a second technician with the same name and trade.
func (s *defaultStore) Create(ctx context.Context, t store.Technician) (*store.Technician, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	txCtx := duckdb.WithTransaction(ctx, tx)
	conn := duckdb.Conn(txCtx, s.db)

	var existing int
	if err := conn.QueryRowContext(txCtx, duplicateQuery, t.Name, t.Trade).Scan(&existing); err != nil {
		return nil, fmt.Errorf("failed to check for duplicate technician: %w", err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: technician %s (%s) already exists", domain.ErrConflict, t.Name, t.Trade)
	}

	now := s.now()
	t.ID = s.newID()
	t.IsActive = true
	t.IsBlacklisted = false
	t.BlacklistReason = nil
	t.MoneyMade = 0
	t.JobsDone = 0
	t.CreatedAt = &now
	t.UpdatedAt = &now

	_, err = conn.ExecContext(txCtx, insertQuery,
		t.ID, t.Name, t.Trade, t.Phone, t.Email, t.Address, t.City, t.State, t.ZipCode,
		t.Notes, t.HourlyRate, t.Rating, t.IsBlacklisted, t.BlacklistReason, t.IsActive,
		t.MoneyMade, t.JobsDone, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert technician: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit technician: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("id", t.ID).Str("trade", t.Trade).Msg("technician created")
	return &t, nil
}

func (s *defaultStore) Update(ctx context.Context, id string, update domain.TechnicianUpdate) (*store.Technician, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := adapters.ApplyTechnicianUpdate(adapters.MapStoreTechnicianToDomain(*existing), update)
	now := s.now()
	next.UpdatedAt = &now

	t := adapters.MapDomainTechnicianToStore(next)
	_, err = duckdb.Conn(ctx, s.db).ExecContext(ctx, updateQuery,
		t.Name, t.Trade, t.Phone, t.Email, t.Address, t.City,
		t.State, t.ZipCode, t.Notes, t.HourlyRate, t.Rating, t.IsBlacklisted,
		t.BlacklistReason, t.UpdatedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update technician %s: %w", id, err)
	}

	return &t, nil
}

// Delete deactivates technicians that work orders or payment requests still
// point at, and removes the rest.
func (s *defaultStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	conn := duckdb.Conn(ctx, s.db)
	var references int
	if err := conn.QueryRowContext(ctx, referencesQuery, id, id).Scan(&references); err != nil {
		return fmt.Errorf("failed to count references to technician %s: %w", id, err)
	}

	if references > 0 {
		if _, err := conn.ExecContext(ctx, deactivateQuery, s.now(), id); err != nil {
			return fmt.Errorf("failed to deactivate technician %s: %w", id, err)
		}
		zerolog.Ctx(ctx).Info().Str("id", id).Int("references", references).Msg("technician deactivated")
		return nil
	}

	if _, err := conn.ExecContext(ctx, deleteQuery, id); err != nil {
		return fmt.Errorf("failed to delete technician %s: %w", id, err)
	}
	return nil
}

func (s *defaultStore) Trades(ctx context.Context) ([]string, error) {
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, tradesQuery)
	if err != nil {
		return nil, fmt.Errorf("trades query failed: %w", err)
	}
	defer rows.Close()

	trades := []string{}
	for rows.Next() {
		var trade string
		if err := rows.Scan(&trade); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, trade)
	}
	return trades, rows.Err()
}
