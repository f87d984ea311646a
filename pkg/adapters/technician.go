package adapters

import (
	"fmt"
	"strings"

	"github.com/gmn-dev/dispatch/pkg/models/api"
	"github.com/gmn-dev/dispatch/pkg/models/domain"
	"github.com/gmn-dev/dispatch/pkg/models/store"
)

func MapStoreTechnicianToDomain(r store.Technician) domain.Technician {
	rating := domain.DefaultTechnicianRating
	if r.Rating != nil {
		rating = *r.Rating
	}
	return domain.Technician{
		ID:              r.ID,
		Name:            r.Name,
		Trade:           r.Trade,
		Phone:           deref(r.Phone),
		Email:           deref(r.Email),
		Address:         deref(r.Address),
		City:            deref(r.City),
		State:           deref(r.State),
		ZipCode:         deref(r.ZipCode),
		Notes:           deref(r.Notes),
		HourlyRate:      deref(r.HourlyRate),
		Rating:          rating,
		IsBlacklisted:   r.IsBlacklisted,
		BlacklistReason: deref(r.BlacklistReason),
		IsActive:        r.IsActive,
		MoneyMade:       r.MoneyMade,
		JobsDone:        r.JobsDone,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func MapDomainTechnicianToStore(t domain.Technician) store.Technician {
	hourlyRate := t.HourlyRate
	rating := t.Rating
	return store.Technician{
		ID:              t.ID,
		Name:            t.Name,
		Trade:           t.Trade,
		Phone:           optional(t.Phone),
		Email:           optional(t.Email),
		Address:         optional(t.Address),
		City:            optional(t.City),
		State:           optional(t.State),
		ZipCode:         optional(t.ZipCode),
		Notes:           optional(t.Notes),
		HourlyRate:      &hourlyRate,
		Rating:          &rating,
		IsBlacklisted:   t.IsBlacklisted,
		BlacklistReason: optional(t.BlacklistReason),
		IsActive:        t.IsActive,
		MoneyMade:       t.MoneyMade,
		JobsDone:        t.JobsDone,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func MapTechnicianDomainToApi(t domain.Technician) api.Technician {
	return api.Technician{
		ID:              t.ID,
		Name:            t.Name,
		Trade:           t.Trade,
		Phone:           t.Phone,
		Email:           t.Email,
		Address:         t.Address,
		City:            t.City,
		State:           t.State,
		ZipCode:         t.ZipCode,
		Notes:           t.Notes,
		HourlyRate:      t.HourlyRate,
		Rating:          t.Rating,
		IsBlacklisted:   t.IsBlacklisted,
		BlacklistReason: t.BlacklistReason,
		IsActive:        t.IsActive,
		MoneyMade:       t.MoneyMade,
		JobsDone:        t.JobsDone,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func MapCreateTechnicianRequestToDomain(req api.CreateTechnicianRequest) (domain.Technician, error) {
	name := strings.TrimSpace(req.Name)
	trade := strings.TrimSpace(req.Trade)
	if name == "" || trade == "" {
		return domain.Technician{}, fmt.Errorf("%w: name and trade are required", domain.ErrValidation)
	}
	if req.HourlyRate < 0 {
		return domain.Technician{}, fmt.Errorf("%w: hourly rate must not be negative", domain.ErrValidation)
	}

	return domain.Technician{
		Name:       name,
		Trade:      trade,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		ZipCode:    req.ZipCode,
		Notes:      req.Notes,
		HourlyRate: req.HourlyRate,
		Rating:     domain.DefaultTechnicianRating,
		IsActive:   true,
	}, nil
}

func MapUpdateTechnicianRequestToDomain(req api.UpdateTechnicianRequest) (domain.TechnicianUpdate, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return domain.TechnicianUpdate{}, fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
	}
	if req.Trade != nil && strings.TrimSpace(*req.Trade) == "" {
		return domain.TechnicianUpdate{}, fmt.Errorf("%w: trade must not be empty", domain.ErrValidation)
	}
	if req.HourlyRate != nil && *req.HourlyRate < 0 {
		return domain.TechnicianUpdate{}, fmt.Errorf("%w: hourly rate must not be negative", domain.ErrValidation)
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > domain.DefaultTechnicianRating) {
		return domain.TechnicianUpdate{}, fmt.Errorf("%w: rating must be between 0 and 5", domain.ErrValidation)
	}

	return domain.TechnicianUpdate{
		Name:            req.Name,
		Trade:           req.Trade,
		Phone:           req.Phone,
		Email:           req.Email,
		Address:         req.Address,
		City:            req.City,
		State:           req.State,
		ZipCode:         req.ZipCode,
		Notes:           req.Notes,
		HourlyRate:      req.HourlyRate,
		Rating:          req.Rating,
		IsBlacklisted:   req.IsBlacklisted,
		BlacklistReason: req.BlacklistReason,
	}, nil
}

// ApplyTechnicianUpdate returns a copy of t with the set fields of u applied.
// Lifting a blacklist clears its reason.
func ApplyTechnicianUpdate(t domain.Technician, u domain.TechnicianUpdate) domain.Technician {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&t.Name, u.Name)
	set(&t.Trade, u.Trade)
	set(&t.Phone, u.Phone)
	set(&t.Email, u.Email)
	set(&t.Address, u.Address)
	set(&t.City, u.City)
	set(&t.State, u.State)
	set(&t.ZipCode, u.ZipCode)
	set(&t.Notes, u.Notes)
	set(&t.BlacklistReason, u.BlacklistReason)

	if u.HourlyRate != nil {
		t.HourlyRate = *u.HourlyRate
	}
	if u.Rating != nil {
		t.Rating = *u.Rating
	}
	if u.IsBlacklisted != nil {
		t.IsBlacklisted = *u.IsBlacklisted
		if !t.IsBlacklisted && u.BlacklistReason == nil {
			t.BlacklistReason = ""
		}
	}
	return t
}
