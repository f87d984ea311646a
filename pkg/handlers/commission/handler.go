package commission

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gmn-dev/dispatch/pkg/adapters"
	"github.com/gmn-dev/dispatch/pkg/handlers"
	"github.com/gmn-dev/dispatch/pkg/models/api"
	"github.com/gmn-dev/dispatch/pkg/models/domain"
	"github.com/gmn-dev/dispatch/pkg/services/commission"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	service  commission.Service
	location *time.Location
	now      func() time.Time
}

// NewHandler serves reports for months interpreted in loc.
func NewHandler(service commission.Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		service:  service,
		location: loc,
		now:      time.Now,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Report)
	r.Get("/tiers", h.Tiers)
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	month := commission.CurrentMonth(h.now().In(h.location))
	if value := r.URL.Query().Get("month"); value != "" {
		parsed, err := commission.ParseMonth(value, h.location)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Msg("rejected month selector")
			handlers.WriteError(w, r, fmt.Errorf("%w: month must be YYYY-MM", domain.ErrValidation))
			return
		}
		month = parsed
	}

	report, err := h.service.Report(ctx, month)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapCommissionReportDomainToApi(report))
}

func (h *Handler) Tiers(w http.ResponseWriter, r *http.Request) {
	tiers := h.service.Tiers()
	response := make([]api.CommissionTier, 0, len(tiers))
	for _, tier := range tiers {
		response = append(response, adapters.MapCommissionTierDomainToApi(tier))
	}
	handlers.WriteJSON(w, r, http.StatusOK, response)
}
