package workorder

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gmn-dev/dispatch/pkg/models/domain"
	"github.com/gmn-dev/dispatch/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

var columnNames = []string{
	"id", "wo_number", "client", "trade", "description", "nte", "status", "priority", "city", "state",
	"address", "notes", "technician_id", "eta_at", "created_at", "updated_at", "completed_at",
}

type fixture struct {
	db    *sql.DB
	mock  sqlmock.Sqlmock
	store *defaultStore
}

func setupFixture(t *testing.T) *fixture {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	s, err := NewStore(db)
	require.NoError(t, err)

	ds := s.(*defaultStore)
	ds.now = func() time.Time { return fixedNow }
	ds.newID = func() string { return "wo-1" }

	return &fixture{db: db, mock: mock, store: ds}
}

func workOrderRow(rows *sqlmock.Rows, id, status string, nte any, notes any) *sqlmock.Rows {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return rows.AddRow(
		id, "WO-"+id, "Acme", "HVAC", nil, nte, status, "normal", "Austin", "TX",
		nil, notes, nil, nil, created, created, nil,
	)
}

func TestNewStore(t *testing.T) {
	t.Run("nil db", func(t *testing.T) {
		s, err := NewStore(nil)
		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestStore_Get(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		f.mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
			WithArgs("a").
			WillReturnRows(workOrderRow(sqlmock.NewRows(columnNames), "a", "paid", 1000.0, "reassigned"))

		wo, err := f.store.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "a", wo.ID)
		assert.Equal(t, "paid", wo.Status)
		require.NotNil(t, wo.NTE)
		assert.Equal(t, 1000.0, *wo.NTE)
		require.NotNil(t, wo.Notes)
		assert.Equal(t, "reassigned", *wo.Notes)
		assert.Nil(t, wo.Description)
		assert.Nil(t, wo.CompletedAt)
	})

	t.Run("missing", func(t *testing.T) {
		f.mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
			WithArgs("nope").
			WillReturnRows(sqlmock.NewRows(columnNames))

		wo, err := f.store.Get(ctx, "nope")
		assert.Nil(t, wo)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestStore_ListAll(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	rows := sqlmock.NewRows(columnNames)
	workOrderRow(rows, "a", "paid", 1000.0, nil)
	workOrderRow(rows, "b", "waiting", nil, nil)

	f.mock.ExpectQuery(regexp.QuoteMeta(listAllQuery)).WillReturnRows(rows)

	records, err := f.store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].ID)
	assert.Nil(t, records[1].NTE)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestStore_ListAll_QueryError(t *testing.T) {
	f := setupFixture(t)

	f.mock.ExpectQuery(regexp.QuoteMeta(listAllQuery)).WillReturnError(errors.New("boom"))

	records, err := f.store.ListAll(context.Background())
	assert.Error(t, err)
	assert.Nil(t, records)
}

func TestStore_List(t *testing.T) {
	tests := []struct {
		name       string
		filter     domain.WorkOrderFilter
		page       store.Page
		countQuery string
		listQuery  string
		countArgs  []any
		listArgs   []any
	}{
		{
			name:       "no filter",
			filter:     domain.WorkOrderFilter{Status: "all"},
			page:       store.NewPage(2, 10),
			countQuery: `SELECT COUNT(*) FROM work_orders`,
			listQuery:  `SELECT ` + columns + ` FROM work_orders ORDER BY created_at DESC LIMIT ? OFFSET ?`,
			listArgs:   []any{10, 10},
		},
		{
			name:       "status and search",
			filter:     domain.WorkOrderFilter{Status: "paid", Search: " acme "},
			page:       store.NewPage(1, 20),
			countQuery: `SELECT COUNT(*) FROM work_orders WHERE status = ? AND (wo_number ILIKE ? OR client ILIKE ? OR trade ILIKE ? OR city ILIKE ?)`,
			listQuery: `SELECT ` + columns + ` FROM work_orders WHERE status = ? AND ` +
				`(wo_number ILIKE ? OR client ILIKE ? OR trade ILIKE ? OR city ILIKE ?) ORDER BY created_at DESC LIMIT ? OFFSET ?`,
			countArgs: []any{"paid", "%acme%", "%acme%", "%acme%", "%acme%"},
			listArgs:  []any{"paid", "%acme%", "%acme%", "%acme%", "%acme%", 20, 0},
		},
		{
			name:       "technician",
			filter:     domain.WorkOrderFilter{TechnicianID: "tech-1"},
			page:       store.NewPage(1, 500),
			countQuery: `SELECT COUNT(*) FROM work_orders WHERE technician_id = ?`,
			listQuery:  `SELECT ` + columns + ` FROM work_orders WHERE technician_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`,
			countArgs:  []any{"tech-1"},
			listArgs:   []any{"tech-1", 100, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupFixture(t)

			countExpectation := f.mock.ExpectQuery(regexp.QuoteMeta(tt.countQuery))
			if len(tt.countArgs) > 0 {
				countExpectation = countExpectation.WithArgs(toDriverValues(tt.countArgs)...)
			}
			countExpectation.WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

			f.mock.ExpectQuery(regexp.QuoteMeta(tt.listQuery)).
				WithArgs(toDriverValues(tt.listArgs)...).
				WillReturnRows(workOrderRow(sqlmock.NewRows(columnNames), "a", "paid", 1000.0, nil))

			records, total, err := f.store.List(context.Background(), tt.filter, tt.page)
			require.NoError(t, err)
			assert.Equal(t, 1, total)
			assert.Len(t, records, 1)
			assert.NoError(t, f.mock.ExpectationsWereMet())
		})
	}
}

func toDriverValues(args []any) []driver.Value {
	values := make([]driver.Value, 0, len(args))
	for _, a := range args {
		if i, ok := a.(int); ok {
			values = append(values, int64(i))
			continue
		}
		values = append(values, a)
	}
	return values
}

func TestStore_Create(t *testing.T) {
	f := setupFixture(t)
	nte := 450.0
	notes := "reassigned"

	f.mock.ExpectExec(regexp.QuoteMeta(insertQuery)).
		WithArgs(
			"wo-1", sqlmock.AnyArg(), "Acme", "Plumbing", nil, nte, "waiting",
			nil, nil, nil, nil, notes, nil, nil, fixedNow, fixedNow, nil,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	wo, err := f.store.Create(context.Background(), store.WorkOrder{
		Client: "Acme",
		Trade:  "Plumbing",
		NTE:    &nte,
		Notes:  &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, "wo-1", wo.ID)
	assert.Equal(t, "waiting", wo.Status)
	assert.Regexp(t, `^WO-\d{9}$`, wo.WONumber)
	assert.Equal(t, fixedNow, *wo.CreatedAt)
	assert.Equal(t, fixedNow, *wo.UpdatedAt)
	assert.Nil(t, wo.CompletedAt)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestStore_Update(t *testing.T) {
	t.Run("completing stamps completed_at", func(t *testing.T) {
		f := setupFixture(t)
		status := domain.WorkOrderStatusCompleted
		notes := "Incurred - trip only"

		f.mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
			WithArgs("a").
			WillReturnRows(workOrderRow(sqlmock.NewRows(columnNames), "a", "in_progress", 800.0, nil))
		f.mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
			WithArgs(
				"Acme", "HVAC", nil, 800.0, "completed", "normal", "Austin", "TX", nil,
				notes, nil, nil, fixedNow, fixedNow, "a",
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		wo, err := f.store.Update(context.Background(), "a", domain.WorkOrderUpdate{
			Status: &status,
			Notes:  &notes,
		})
		require.NoError(t, err)
		assert.Equal(t, "completed", wo.Status)
		assert.Equal(t, fixedNow, *wo.CompletedAt)
		assert.Equal(t, fixedNow, *wo.UpdatedAt)
		assert.Equal(t, notes, *wo.Notes)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("paid keeps completed_at untouched", func(t *testing.T) {
		f := setupFixture(t)
		status := domain.WorkOrderStatusPaid

		f.mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
			WithArgs("a").
			WillReturnRows(workOrderRow(sqlmock.NewRows(columnNames), "a", "invoiced", 800.0, nil))
		f.mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
			WithArgs(
				"Acme", "HVAC", nil, 800.0, "paid", "normal", "Austin", "TX", nil,
				nil, nil, nil, fixedNow, nil, "a",
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		wo, err := f.store.Update(context.Background(), "a", domain.WorkOrderUpdate{Status: &status})
		require.NoError(t, err)
		assert.Nil(t, wo.CompletedAt)
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("missing work order", func(t *testing.T) {
		f := setupFixture(t)

		f.mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
			WithArgs("nope").
			WillReturnRows(sqlmock.NewRows(columnNames))

		_, err := f.store.Update(context.Background(), "nope", domain.WorkOrderUpdate{})
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestStore_Delete(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	f.mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).WithArgs("a").WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, f.store.Delete(ctx, "a"))

	f.mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).WithArgs("b").WillReturnResult(sqlmock.NewResult(0, 0))
	err := f.store.Delete(ctx, "b")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGenerateWONumber(t *testing.T) {
	number := generateWONumber(time.UnixMilli(1741234567890))
	assert.Regexp(t, `^WO-567890\d{3}$`, number)
}
