package workorder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/gmn-dev/dispatch/pkg/adapters"
	"github.com/gmn-dev/dispatch/pkg/models/domain"
	"github.com/gmn-dev/dispatch/pkg/models/store"
	"github.com/gmn-dev/dispatch/pkg/store/duckdb"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const columns = `id, wo_number, client, trade, description, nte, status, priority, city, state, address,
		notes, technician_id, eta_at, created_at, updated_at, completed_at`

const (
	getQuery     = `SELECT ` + columns + ` FROM work_orders WHERE id = ?`
	listAllQuery = `SELECT ` + columns + ` FROM work_orders ORDER BY created_at DESC`
	insertQuery  = `INSERT INTO work_orders (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	updateQuery = `UPDATE work_orders SET client = ?, trade = ?, description = ?, nte = ?, status = ?,
		priority = ?, city = ?, state = ?, address = ?, notes = ?, technician_id = ?, eta_at = ?,
		updated_at = ?, completed_at = ? WHERE id = ?`
	deleteQuery = `DELETE FROM work_orders WHERE id = ?`
)

type Store interface {
	List(ctx context.Context, filter domain.WorkOrderFilter, page store.Page) ([]store.WorkOrder, int, error)
	ListAll(ctx context.Context) ([]store.WorkOrder, error)
	Get(ctx context.Context, id string) (*store.WorkOrder, error)
	Create(ctx context.Context, wo store.WorkOrder) (*store.WorkOrder, error)
	Update(ctx context.Context, id string, update domain.WorkOrderUpdate) (*store.WorkOrder, error)
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

func scanWorkOrder(row scanner) (store.WorkOrder, error) {
	var wo store.WorkOrder
	err := row.Scan(
		&wo.ID, &wo.WONumber, &wo.Client, &wo.Trade, &wo.Description, &wo.NTE, &wo.Status,
		&wo.Priority, &wo.City, &wo.State, &wo.Address, &wo.Notes, &wo.TechnicianID,
		&wo.ETAAt, &wo.CreatedAt, &wo.UpdatedAt, &wo.CompletedAt,
	)
	return wo, err
}

func (s *defaultStore) queryAll(ctx context.Context, query string, args ...any) ([]store.WorkOrder, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("work orders query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close work orders rows")
		}
	}(rows)

	records := []store.WorkOrder{}
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work order: %w", err)
		}
		records = append(records, wo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate work orders: %w", err)
	}

	return records, nil
}

func buildFilter(filter domain.WorkOrderFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if filter.Status != "" && filter.Status != "all" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.TechnicianID != "" {
		conditions = append(conditions, "technician_id = ?")
		args = append(args, filter.TechnicianID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		conditions = append(conditions, "(wo_number ILIKE ? OR client ILIKE ? OR trade ILIKE ? OR city ILIKE ?)")
		args = append(args, pattern, pattern, pattern, pattern)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (s *defaultStore) List(
	ctx context.Context,
	filter domain.WorkOrderFilter,
	page store.Page,
) ([]store.WorkOrder, int, error) {
	where, args := buildFilter(filter)

	var total int
	err := duckdb.Conn(ctx, s.db).
		QueryRowContext(ctx, `SELECT COUNT(*) FROM work_orders`+where, args...).
		Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("work orders count failed: %w", err)
	}

	query := `SELECT ` + columns + ` FROM work_orders` + where + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	records, err := s.queryAll(ctx, query, append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (s *defaultStore) ListAll(ctx context.Context) ([]store.WorkOrder, error) {
	return s.queryAll(ctx, listAllQuery)
}

func (s *defaultStore) Get(ctx context.Context, id string) (*store.WorkOrder, error) {
	wo, err := scanWorkOrder(duckdb.Conn(ctx, s.db).QueryRowContext(ctx, getQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("work order %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get work order %s: %w", id, err)
	}
	return &wo, nil
}

func (s *defaultStore) Create(ctx context.Context, wo store.WorkOrder) (*store.WorkOrder, error) {
	now := s.now()
	wo.ID = s.newID()
	wo.WONumber = generateWONumber(now)
	wo.CreatedAt = &now
	wo.UpdatedAt = &now
	if wo.Status == "" {
		wo.Status = string(domain.WorkOrderStatusWaiting)
	}
	if wo.Status == string(domain.WorkOrderStatusCompleted) {
		wo.CompletedAt = &now
	}

	_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, insertQuery,
		wo.ID, wo.WONumber, wo.Client, wo.Trade, wo.Description, wo.NTE, wo.Status,
		wo.Priority, wo.City, wo.State, wo.Address, wo.Notes, wo.TechnicianID,
		wo.ETAAt, wo.CreatedAt, wo.UpdatedAt, wo.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert work order: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("id", wo.ID).Str("wo_number", wo.WONumber).Msg("work order created")
	return &wo, nil
}

func (s *defaultStore) Update(ctx context.Context, id string, update domain.WorkOrderUpdate) (*store.WorkOrder, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	current := adapters.MapStoreWorkOrderToDomain(*existing)
	next := adapters.ApplyWorkOrderUpdate(current, update)

	now := s.now()
	next.UpdatedAt = &now
	if next.Status == domain.WorkOrderStatusCompleted && current.Status != domain.WorkOrderStatusCompleted {
		next.CompletedAt = &now
	}

	wo := adapters.MapDomainWorkOrderToStore(next)
	_, err = duckdb.Conn(ctx, s.db).ExecContext(ctx, updateQuery,
		wo.Client, wo.Trade, wo.Description, wo.NTE, wo.Status,
		wo.Priority, wo.City, wo.State, wo.Address, wo.Notes, wo.TechnicianID, wo.ETAAt,
		wo.UpdatedAt, wo.CompletedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update work order %s: %w", id, err)
	}

	return &wo, nil
}

func (s *defaultStore) Delete(ctx context.Context, id string) error {
	res, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, deleteQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete work order %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete work order %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("work order %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// generateWONumber mirrors the dispatch board format: WO- followed by the last
// six digits of the unix millis and a three digit random suffix.
func generateWONumber(now time.Time) string {
	millis := fmt.Sprintf("%d", now.UnixMilli())
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	return fmt.Sprintf("WO-%s%03d", millis, rand.IntN(1000))
}
