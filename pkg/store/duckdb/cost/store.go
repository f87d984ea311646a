package cost

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gmn-dev/dispatch/pkg/adapters"
	"github.com/gmn-dev/dispatch/pkg/models/domain"
	"github.com/gmn-dev/dispatch/pkg/models/store"
	"github.com/gmn-dev/dispatch/pkg/store/duckdb"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
)

const columns = `id, work_order_id, technician_id, amount, status, note, requested_at, approved_at, paid_at`

const (
	getQuery     = `SELECT ` + columns + ` FROM costs WHERE id = ?`
	listAllQuery = `SELECT ` + columns + ` FROM costs ORDER BY requested_at DESC`
	insertQuery  = `INSERT INTO costs (` + columns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	updateQuery  = `UPDATE costs SET amount = ?, status = ?, note = ?, approved_at = ?, paid_at = ?
		WHERE id = ? AND status = ?`
	deleteQuery = `DELETE FROM costs WHERE id = ?`

	workOrderStatusQuery  = `SELECT status FROM work_orders WHERE id = ?`
	technicianActiveQuery = `SELECT is_active FROM technicians WHERE id = ?`
	creditTechnicianQuery = `UPDATE technicians SET money_made = money_made + ?, jobs_done = jobs_done + 1,
		updated_at = ? WHERE id = ?`
	openRequestsQuery = `SELECT COUNT(*) FROM costs
		WHERE work_order_id = ? AND technician_id = ? AND status IN ('requested', 'approved')`
)

type Store interface {
	List(ctx context.Context, filter domain.CostFilter, page store.Page) ([]store.Cost, int, error)
	ListAll(ctx context.Context) ([]store.Cost, error)
	Get(ctx context.Context, id string) (*store.Cost, error)
	Create(ctx context.Context, cost store.Cost) (*store.Cost, error)
	Update(ctx context.Context, id string, update domain.CostUpdate) (*store.Cost, error)
	Delete(ctx context.Context, id string) error
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

func scanCost(row scanner) (store.Cost, error) {
	var c store.Cost
	err := row.Scan(
		&c.ID, &c.WorkOrderID, &c.TechnicianID, &c.Amount, &c.Status, &c.Note,
		&c.RequestedAt, &c.ApprovedAt, &c.PaidAt,
	)
	return c, err
}

func (s *defaultStore) queryAll(ctx context.Context, query string, args ...any) ([]store.Cost, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("costs query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close costs rows")
		}
	}(rows)

	records := []store.Cost{}
	for rows.Next() {
		c, err := scanCost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cost: %w", err)
		}
		records = append(records, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate costs: %w", err)
	}

	return records, nil
}

func buildFilter(filter domain.CostFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if filter.Status != "" && filter.Status != "all" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.WorkOrderID != "" {
		conditions = append(conditions, "work_order_id = ?")
		args = append(args, filter.WorkOrderID)
	}
	if filter.TechnicianID != "" {
		conditions = append(conditions, "technician_id = ?")
		args = append(args, filter.TechnicianID)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (s *defaultStore) List(ctx context.Context, filter domain.CostFilter, page store.Page) ([]store.Cost, int, error) {
	where, args := buildFilter(filter)

	var total int
	err := duckdb.Conn(ctx, s.db).
		QueryRowContext(ctx, `SELECT COUNT(*) FROM costs`+where, args...).
		Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("costs count failed: %w", err)
	}

	query := `SELECT ` + columns + ` FROM costs` + where + ` ORDER BY requested_at DESC LIMIT ? OFFSET ?`
	records, err := s.queryAll(ctx, query, append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (s *defaultStore) ListAll(ctx context.Context) ([]store.Cost, error) {
	return s.queryAll(ctx, listAllQuery)
}

func (s *defaultStore) Get(ctx context.Context, id string) (*store.Cost, error) {
	c, err := scanCost(duckdb.Conn(ctx, s.db).QueryRowContext(ctx, getQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cost %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cost %s: %w", id, err)
	}
	return &c, nil
}

// Create files a payment request. The work order must be completed and the
// technician must not already have an open request against it.
func (s *defaultStore) Create(ctx context.Context, c store.Cost) (*store.Cost, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	txCtx := duckdb.WithTransaction(ctx, tx)
	conn := duckdb.Conn(txCtx, s.db)

	var woStatus string
	err = conn.QueryRowContext(txCtx, workOrderStatusQuery, c.WorkOrderID).Scan(&woStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("work order %s: %w", c.WorkOrderID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up work order %s: %w", c.WorkOrderID, err)
	}
	if domain.WorkOrderStatus(woStatus) != domain.WorkOrderStatusCompleted {
		return nil, fmt.Errorf("%w: payment requests need a completed work order, %s is %s",
			domain.ErrConflict, c.WorkOrderID, woStatus)
	}

	var active bool
	err = conn.QueryRowContext(txCtx, technicianActiveQuery, c.TechnicianID).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("technician %s: %w", c.TechnicianID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up technician %s: %w", c.TechnicianID, err)
	}
	if !active {
		return nil, fmt.Errorf("%w: technician %s is inactive", domain.ErrConflict, c.TechnicianID)
	}

	var open int
	err = conn.QueryRowContext(txCtx, openRequestsQuery, c.WorkOrderID, c.TechnicianID).Scan(&open)
	if err != nil {
		return nil, fmt.Errorf("failed to count open payment requests: %w", err)
	}
	if open > 0 {
		return nil, fmt.Errorf("%w: an open payment request already exists for this work order", domain.ErrConflict)
	}

	now := s.now()
	c.ID = s.newID()
	c.Status = string(domain.CostStatusRequested)
	c.RequestedAt = &now
	c.ApprovedAt = nil
	c.PaidAt = nil

	_, err = conn.ExecContext(txCtx, insertQuery,
		c.ID, c.WorkOrderID, c.TechnicianID, c.Amount, c.Status, c.Note,
		c.RequestedAt, c.ApprovedAt, c.PaidAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert cost: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cost: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("id", c.ID).
		Str("work_order_id", c.WorkOrderID).
		Str("technician_id", c.TechnicianID).
		Msg("payment request created")
	return &c, nil
}

// Update applies amount, note and status changes in one transaction. Moving
// a request to paid credits the technician's earnings in the same transaction,
// and the write only lands if the status is still the one that was read.
func (s *defaultStore) Update(ctx context.Context, id string, update domain.CostUpdate) (*store.Cost, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	txCtx := duckdb.WithTransaction(ctx, tx)
	conn := duckdb.Conn(txCtx, s.db)

	existing, err := s.Get(txCtx, id)
	if err != nil {
		return nil, err
	}
	current := adapters.MapStoreCostToDomain(*existing)
	next := current

	if update.Amount != nil {
		if current.Status == domain.CostStatusPaid {
			return nil, fmt.Errorf("%w: cost %s is already paid", domain.ErrConflict, id)
		}
		next.Amount = *update.Amount
	}
	if update.Note != nil {
		next.Note = *update.Note
	}
	if update.Status != nil {
		if !current.Status.CanTransition(*update.Status) {
			return nil, fmt.Errorf("%w: cannot move cost %s from %s to %s (allowed: %s)",
				domain.ErrConflict, id, current.Status, *update.Status, allowedStatuses(current.Status))
		}
		next.Status = *update.Status
	}

	now := s.now()
	paying := next.Status == domain.CostStatusPaid && current.Status != domain.CostStatusPaid
	switch {
	case next.Status == domain.CostStatusApproved && current.Status != domain.CostStatusApproved:
		next.ApprovedAt = &now
	case paying:
		next.PaidAt = &now
		if next.ApprovedAt == nil {
			next.ApprovedAt = &now
		}
	}

	c := adapters.MapDomainCostToStore(next)
	res, err := conn.ExecContext(txCtx, updateQuery,
		c.Amount, c.Status, c.Note, c.ApprovedAt, c.PaidAt, id, string(current.Status),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update cost %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update cost %s: %w", id, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: cost %s was changed by another request", domain.ErrConflict, id)
	}

	if paying {
		res, err := conn.ExecContext(txCtx, creditTechnicianQuery, next.Amount, now, next.TechnicianID)
		if err != nil {
			return nil, fmt.Errorf("failed to credit technician %s: %w", next.TechnicianID, err)
		}
		if affected, err := res.RowsAffected(); err != nil || affected == 0 {
			return nil, fmt.Errorf("technician %s: %w", next.TechnicianID, domain.ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cost %s: %w", id, err)
	}

	if paying {
		zerolog.Ctx(ctx).Info().
			Str("id", id).
			Str("technician_id", next.TechnicianID).
			Float64("amount", next.Amount).
			Msg("payment request paid")
	}
	return &c, nil
}

func (s *defaultStore) Delete(ctx context.Context, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if domain.CostStatus(existing.Status) == domain.CostStatusPaid {
		return fmt.Errorf("%w: paid cost %s cannot be deleted", domain.ErrConflict, id)
	}

	if _, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, deleteQuery, id); err != nil {
		return fmt.Errorf("failed to delete cost %s: %w", id, err)
	}
	return nil
}

func allowedStatuses(from domain.CostStatus) string {
	next := maps.Keys(from.NextStatuses())
	if len(next) == 0 {
		return "none"
	}
	names := make([]string, 0, len(next))
	for _, status := range next {
		names = append(names, string(status))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
