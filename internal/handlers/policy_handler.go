package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendaai/agenda-api/internal/audit"
	domain "github.com/agendaai/agenda-api/internal/domain/schedule"
	"github.com/agendaai/agenda-api/internal/httperr"
	"github.com/agendaai/agenda-api/internal/infra/repository"
	"github.com/agendaai/agenda-api/internal/middleware"
	"github.com/agendaai/agenda-api/internal/models"
)

type PolicyHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewPolicyHandler(db *gorm.DB, auditor *audit.Dispatcher) *PolicyHandler {
	return &PolicyHandler{db: db, audit: auditor}
}

// Campos todos opcionais: o PUT é um patch sobre a política existente.
type UpdatePolicyRequest struct {
	WorkPattern *string `json:"work_pattern,omitempty"` // mon_fri | mon_sat | mon_sun | custom
	WorkDays    *string `json:"work_days,omitempty"`    // ex: "1,2,3,4,5" (0=domingo)

	OpenTime  *string `json:"open_time,omitempty"`
	CloseTime *string `json:"close_time,omitempty"`

	HasBreak   *bool   `json:"has_break,omitempty"`
	BreakStart *string `json:"break_start,omitempty"`
	BreakEnd   *string `json:"break_end,omitempty"`

	PerProfessionalHours *bool `json:"per_professional_hours,omitempty"`

	CloseOnNationalHolidays *bool `json:"close_on_national_holidays,omitempty"`
	CloseOnLocalHolidays    *bool `json:"close_on_local_holidays,omitempty"`

	CustomHolidays *string `json:"custom_holidays,omitempty"`
	BlockedDates   *string `json:"blocked_dates,omitempty"`

	DefaultServiceDurationMin *int `json:"default_service_duration_min,omitempty"`

	MinLeadTimeEnabled *bool `json:"min_lead_time_enabled,omitempty"`
	MinLeadTimeHours   *int  `json:"min_lead_time_hours,omitempty"`

	MaxConcurrentEnabled *bool `json:"max_concurrent_enabled,omitempty"`
	MaxConcurrent        *int  `json:"max_concurrent,omitempty"`

	AutoConfirm *bool `json:"auto_confirm,omitempty"`

	BufferEnabled *bool `json:"buffer_enabled,omitempty"`
	BufferMin     *int  `json:"buffer_min,omitempty"`

	CancellationLeadTimeEnabled *bool `json:"cancellation_lead_time_enabled,omitempty"`
	CancellationLeadTimeHours   *int  `json:"cancellation_lead_time_hours,omitempty"`

	ReschedulingAllowed *bool `json:"rescheduling_allowed,omitempty"`
}

func (h *PolicyHandler) loadOrSeed(establishmentID uint) (*models.SchedulePolicy, error) {
	var pol models.SchedulePolicy
	err := h.db.Where("establishment_id = ?", establishmentID).First(&pol).Error
	if err == nil {
		return &pol, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	pol = repository.DefaultPolicy(establishmentID)
	if err := h.db.Create(&pol).Error; err != nil {
		return nil, err
	}
	return &pol, nil
}

func (h *PolicyHandler) Get(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	pol, err := h.loadOrSeed(establishmentID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_policy", "Erro ao buscar a configuração da agenda.")
		return
	}

	c.JSON(http.StatusOK, pol)
}

func (h *PolicyHandler) Update(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	pol, err := h.loadOrSeed(establishmentID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_policy", "Erro ao buscar a configuração da agenda.")
		return
	}

	var req UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.WorkPattern != nil {
		pol.WorkPattern = *req.WorkPattern
	}
	if req.WorkDays != nil {
		pol.WorkDays = *req.WorkDays
	}
	if req.OpenTime != nil {
		pol.OpenTime = *req.OpenTime
	}
	if req.CloseTime != nil {
		pol.CloseTime = *req.CloseTime
	}
	if req.HasBreak != nil {
		pol.HasBreak = *req.HasBreak
	}
	if req.BreakStart != nil {
		pol.BreakStart = *req.BreakStart
	}
	if req.BreakEnd != nil {
		pol.BreakEnd = *req.BreakEnd
	}
	if req.PerProfessionalHours != nil {
		pol.PerProfessionalHours = *req.PerProfessionalHours
	}
	if req.CloseOnNationalHolidays != nil {
		pol.CloseOnNationalHolidays = *req.CloseOnNationalHolidays
	}
	if req.CloseOnLocalHolidays != nil {
		pol.CloseOnLocalHolidays = *req.CloseOnLocalHolidays
	}
	if req.CustomHolidays != nil {
		pol.CustomHolidays = *req.CustomHolidays
	}
	if req.BlockedDates != nil {
		pol.BlockedDates = *req.BlockedDates
	}
	if req.DefaultServiceDurationMin != nil {
		if *req.DefaultServiceDurationMin <= 0 {
			httperr.BadRequest(c, "invalid_duration", "Duração padrão deve ser maior que zero.")
			return
		}
		pol.DefaultServiceDurationMin = *req.DefaultServiceDurationMin
	}
	if req.MinLeadTimeEnabled != nil {
		pol.MinLeadTimeEnabled = *req.MinLeadTimeEnabled
	}
	if req.MinLeadTimeHours != nil {
		if *req.MinLeadTimeHours < 0 {
			httperr.BadRequest(c, "invalid_lead_time", "Antecedência mínima deve ser zero ou positiva (em horas).")
			return
		}
		pol.MinLeadTimeHours = *req.MinLeadTimeHours
	}
	if req.MaxConcurrentEnabled != nil {
		pol.MaxConcurrentEnabled = *req.MaxConcurrentEnabled
	}
	if req.MaxConcurrent != nil {
		if *req.MaxConcurrent < 1 {
			httperr.BadRequest(c, "invalid_max_concurrent", "Limite de agendamentos simultâneos deve ser pelo menos 1.")
			return
		}
		pol.MaxConcurrent = *req.MaxConcurrent
	}
	if req.AutoConfirm != nil {
		pol.AutoConfirm = *req.AutoConfirm
	}
	if req.BufferEnabled != nil {
		pol.BufferEnabled = *req.BufferEnabled
	}
	if req.BufferMin != nil {
		if *req.BufferMin < 0 {
			httperr.BadRequest(c, "invalid_buffer", "Intervalo entre atendimentos deve ser zero ou positivo (em minutos).")
			return
		}
		pol.BufferMin = *req.BufferMin
	}
	if req.CancellationLeadTimeEnabled != nil {
		pol.CancellationLeadTimeEnabled = *req.CancellationLeadTimeEnabled
	}
	if req.CancellationLeadTimeHours != nil {
		if *req.CancellationLeadTimeHours < 0 {
			httperr.BadRequest(c, "invalid_cancellation_lead_time", "Janela de cancelamento deve ser zero ou positiva (em horas).")
			return
		}
		pol.CancellationLeadTimeHours = *req.CancellationLeadTimeHours
	}
	if req.ReschedulingAllowed != nil {
		pol.ReschedulingAllowed = *req.ReschedulingAllowed
	}

	// O motor só aceita política bem formada; rejeita antes de gravar.
	if _, err := domain.PolicyFromModel(pol, time.UTC); err != nil {
		httperr.BadRequest(c, "invalid_policy", "Configuração de agenda inconsistente: "+err.Error())
		return
	}

	if err := h.db.Save(pol).Error; err != nil {
		httperr.Internal(c, "failed_to_update_policy", "Erro ao salvar a configuração da agenda.")
		return
	}

	writeAudit(h.audit, establishmentID, &userID, "policy_updated", "schedule_policy", &pol.ID, nil)

	c.JSON(http.StatusOK, pol)
}
