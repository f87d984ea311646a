package archive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gmn-dev/dispatch/pkg/models/domain"
	"github.com/gmn-dev/dispatch/pkg/services/commission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Report(ctx context.Context, month domain.Month) (*domain.CommissionReport, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommissionReport), args.Error(1)
}

func (m *mockService) Tiers() commission.TierTable {
	return commission.DefaultTiers
}

type mockArchiver struct {
	mock.Mock
}

func (m *mockArchiver) Archive(ctx context.Context, report *domain.CommissionReport) (string, error) {
	args := m.Called(ctx, report)
	return args.String(0), args.Error(1)
}

var february = domain.Month{Year: 2025, Month: time.February, Location: time.UTC}

func newTestRunner(svc *mockService, archiver *mockArchiver, now time.Time) *Runner {
	r := NewRunner(svc, archiver, RunnerConfig{CheckInterval: time.Millisecond, Location: time.UTC})
	r.now = func() time.Time { return now }
	return r
}

func TestRunner_Tick(t *testing.T) {
	t.Run("archives the closed month once", func(t *testing.T) {
		svc := new(mockService)
		archiver := new(mockArchiver)
		report := &domain.CommissionReport{Month: february}
		svc.On("Report", mock.Anything, february).Return(report, nil).Once()
		archiver.On("Archive", mock.Anything, report).Return("commission/2025-02/commission-2025-02.xlsx", nil).Once()

		r := newTestRunner(svc, archiver, time.Date(2025, 3, 2, 6, 0, 0, 0, time.UTC))
		r.tick(context.Background())
		r.tick(context.Background())

		svc.AssertExpectations(t)
		archiver.AssertExpectations(t)

		progress := <-r.Progress()
		assert.Equal(t, "2025-02", progress.Month)
		assert.Equal(t, "commission/2025-02/commission-2025-02.xlsx", progress.Key)
	})

	t.Run("retries after a failed upload", func(t *testing.T) {
		svc := new(mockService)
		archiver := new(mockArchiver)
		report := &domain.CommissionReport{Month: february}
		svc.On("Report", mock.Anything, february).Return(report, nil).Twice()
		archiver.On("Archive", mock.Anything, report).Return("", errors.New("throttled")).Once()
		archiver.On("Archive", mock.Anything, report).Return("key", nil).Once()

		r := newTestRunner(svc, archiver, time.Date(2025, 3, 2, 6, 0, 0, 0, time.UTC))
		r.tick(context.Background())
		assert.Empty(t, r.lastArchived)
		r.tick(context.Background())
		assert.Equal(t, "2025-02", r.lastArchived)

		svc.AssertExpectations(t)
		archiver.AssertExpectations(t)
	})

	t.Run("report failure skips the upload", func(t *testing.T) {
		svc := new(mockService)
		archiver := new(mockArchiver)
		svc.On("Report", mock.Anything, february).Return(nil, errors.New("db down"))

		r := newTestRunner(svc, archiver, time.Date(2025, 3, 2, 6, 0, 0, 0, time.UTC))
		r.tick(context.Background())

		archiver.AssertNotCalled(t, "Archive", mock.Anything, mock.Anything)
	})
}

func TestRunner_RunStopsOnCancel(t *testing.T) {
	svc := new(mockService)
	archiver := new(mockArchiver)
	report := &domain.CommissionReport{Month: february}
	svc.On("Report", mock.Anything, february).Return(report, nil)
	archiver.On("Archive", mock.Anything, report).Return("key", nil)

	r := newTestRunner(svc, archiver, time.Date(2025, 3, 2, 6, 0, 0, 0, time.UTC))
	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)

	select {
	case progress := <-r.Progress():
		assert.Equal(t, "2025-02", progress.Month)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "runner did not archive")
	}

	cancel()
	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		require.FailNow(t, "runner did not stop")
	}
	archiver.AssertNumberOfCalls(t, "Archive", 1)
}
