// Package snapshot loads work orders and payment requests exported from the
// dispatch board so commission can be computed without a database.
//
// Files are YAML. JSON exports load as well since the decoder accepts JSON.
package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gmn-dev/dispatch/pkg/adapters"
	"github.com/gmn-dev/dispatch/pkg/models/domain"
	"github.com/gmn-dev/dispatch/pkg/models/store"
	"gopkg.in/yaml.v3"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type workOrderRecord struct {
	ID           string   `yaml:"id"`
	WONumber     string   `yaml:"wo_number"`
	Client       string   `yaml:"client"`
	Trade        string   `yaml:"trade"`
	Description  *string  `yaml:"description"`
	NTE          *float64 `yaml:"nte"`
	Status       string   `yaml:"status"`
	Priority     *string  `yaml:"priority"`
	City         *string  `yaml:"city"`
	State        *string  `yaml:"state"`
	Address      *string  `yaml:"address"`
	Notes        *string  `yaml:"notes"`
	TechnicianID *string  `yaml:"technician_id"`
	ETAAt        string   `yaml:"eta_at"`
	CreatedAt    string   `yaml:"created_at"`
	UpdatedAt    string   `yaml:"updated_at"`
	CompletedAt  string   `yaml:"completed_at"`
}

type costRecord struct {
	ID           string   `yaml:"id"`
	WorkOrderID  string   `yaml:"work_order_id"`
	TechnicianID string   `yaml:"technician_id"`
	Amount       *float64 `yaml:"amount"`
	Status       string   `yaml:"status"`
	Note         *string  `yaml:"note"`
	RequestedAt  string   `yaml:"requested_at"`
	ApprovedAt   string   `yaml:"approved_at"`
	PaidAt       string   `yaml:"paid_at"`
}

type file struct {
	WorkOrders []workOrderRecord `yaml:"work_orders"`
	Costs      []costRecord      `yaml:"costs"`
}

// Snapshot is the decoded content of a snapshot file.
type Snapshot struct {
	WorkOrders []domain.WorkOrder
	Costs      []domain.Cost
}

// Load reads a snapshot file. Timestamps without a zone are read in loc.
func Load(path string, loc *time.Location) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	s, err := Decode(bytes.NewReader(data), loc)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return s, nil
}

func Decode(r io.Reader, loc *time.Location) (*Snapshot, error) {
	if loc == nil {
		loc = time.Local
	}

	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	s := &Snapshot{
		WorkOrders: make([]domain.WorkOrder, 0, len(f.WorkOrders)),
		Costs:      make([]domain.Cost, 0, len(f.Costs)),
	}
	for _, r := range f.WorkOrders {
		s.WorkOrders = append(s.WorkOrders, adapters.MapStoreWorkOrderToDomain(store.WorkOrder{
			ID:           r.ID,
			WONumber:     r.WONumber,
			Client:       r.Client,
			Trade:        r.Trade,
			Description:  r.Description,
			NTE:          r.NTE,
			Status:       r.Status,
			Priority:     r.Priority,
			City:         r.City,
			State:        r.State,
			Address:      r.Address,
			Notes:        r.Notes,
			TechnicianID: r.TechnicianID,
			ETAAt:        parseTime(r.ETAAt, loc),
			CreatedAt:    parseTime(r.CreatedAt, loc),
			UpdatedAt:    parseTime(r.UpdatedAt, loc),
			CompletedAt:  parseTime(r.CompletedAt, loc),
		}))
	}
	for _, r := range f.Costs {
		s.Costs = append(s.Costs, adapters.MapStoreCostToDomain(store.Cost{
			ID:           r.ID,
			WorkOrderID:  r.WorkOrderID,
			TechnicianID: r.TechnicianID,
			Amount:       r.Amount,
			Status:       r.Status,
			Note:         r.Note,
			RequestedAt:  parseTime(r.RequestedAt, loc),
			ApprovedAt:   parseTime(r.ApprovedAt, loc),
			PaidAt:       parseTime(r.PaidAt, loc),
		}))
	}

	return s, nil
}

// parseTime returns nil for empty or unparseable values; such a timestamp is
// treated as absent.
func parseTime(value string, loc *time.Location) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return &t
		}
	}
	return nil
}
