package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gmn-dev/dispatch/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() *domain.CommissionReport {
	march := domain.Month{Year: 2025, Month: time.March, Location: time.UTC}
	qualified := domain.QualifiedJob{
		WorkOrder:     domain.WorkOrder{ID: "a", WONumber: "WO-100001", Client: "Acme Facilities", Trade: "HVAC", NTE: 1000},
		TotalCost:     400,
		ProfitRatio:   1.5,
		Qualification: domain.QualificationQualified,
		CountValue:    1,
	}
	partial := domain.QualifiedJob{
		WorkOrder:     domain.WorkOrder{ID: "b", WONumber: "WO-100002", Client: "Beta", Trade: "Plumbing", NTE: 200},
		ProfitRatio:   math.Inf(1),
		Qualification: domain.QualificationPartial,
		CountValue:    0.5,
		Reason:        "NTE ≤ $225 (counts as 0.5)",
		IsLowNTE:      true,
	}
	excluded := domain.QualifiedJob{
		WorkOrder:     domain.WorkOrder{ID: "c", WONumber: "WO-100003", Client: "Gamma", Trade: "Electrical", NTE: 500},
		TotalCost:     400,
		ProfitRatio:   0.25,
		Qualification: domain.QualificationExcluded,
		Reason:        "Profit ratio 25.0% < 75%",
	}
	return &domain.CommissionReport{
		Month:         march,
		Jobs:          []domain.QualifiedJob{qualified, partial, excluded},
		QualifiedJobs: []domain.QualifiedJob{qualified, partial},
		ExcludedJobs:  []domain.QualifiedJob{excluded},
		TotalCount:    1.5,
		Stats:         domain.CommissionStats{Total: 3, Qualified: 1, Partial: 1, Excluded: 1},
	}
}

func TestReporter_Handle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf).Handle(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "Commission report 2025-03 (2025-03-01 to 2025-03-31)")
	assert.Contains(t, out, "Jobs: 3  Qualified: 1  Partial: 1  Reassigned: 0  Excluded: 1")
	assert.Contains(t, out, "Total count: 1.5")
	assert.Contains(t, out, "Commission: $0.00")
	assert.Contains(t, out, "WO-100001")
	assert.Contains(t, out, "QUALIFIED")
	assert.Contains(t, out, "∞")
	assert.Contains(t, out, "Profit ratio 25.0% < 75%")
	assert.NotContains(t, out, "\x1b[", "plain writers get no escape codes")
}

func TestReporter_Empty(t *testing.T) {
	report := &domain.CommissionReport{
		Month: domain.Month{Year: 2025, Month: time.February, Location: time.UTC},
	}

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf).Handle(report))
	assert.Contains(t, buf.String(), "No paid jobs in this period.")
	assert.Contains(t, buf.String(), "2025-02-28")
}

func TestXLSXWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter().Write(&buf, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, jobsSheet}, f.GetSheetList())

	month, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "2025-03", month)

	rows, err := f.GetRows(jobsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "WO #", rows[0][0])
	assert.Equal(t, "WO-100001", rows[1][0])
	assert.Equal(t, "∞", rows[2][5])
	assert.Equal(t, "excluded", rows[3][6])
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestS3Archiver_Archive(t *testing.T) {
	t.Run("uploads the workbook", func(t *testing.T) {
		client := new(mockS3)
		client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			if *in.Bucket != "reports" || *in.Key != "commission/2025-03/commission-2025-03.xlsx" {
				return false
			}
			body, err := io.ReadAll(in.Body)
			return err == nil && len(body) > 0 && *in.ContentType == xlsxContentType
		})).Return(&s3.PutObjectOutput{}, nil)

		key, err := NewS3Archiver(client, "reports", "commission").Archive(context.Background(), sampleReport())
		require.NoError(t, err)
		assert.Equal(t, "commission/2025-03/commission-2025-03.xlsx", key)
		client.AssertExpectations(t)
	})

	t.Run("upload failure", func(t *testing.T) {
		client := new(mockS3)
		client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

		_, err := NewS3Archiver(client, "reports", "").Archive(context.Background(), sampleReport())
		assert.ErrorContains(t, err, "s3://reports/2025-03/commission-2025-03.xlsx")
	})
}

func TestTierReporter_Handle(t *testing.T) {
	var buf bytes.Buffer
	err := NewTierReporter(&buf).Handle([]domain.CommissionTier{
		{Min: 0, Max: 24, Rate: 0},
		{Min: 25, Max: -1, Rate: 3},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "0-24     $0.00")
	assert.Contains(t, buf.String(), "25+      $3.00")
}
