package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/agendaai/agenda-api/internal/domain/schedule"
	"github.com/agendaai/agenda-api/internal/dto"
	"github.com/agendaai/agenda-api/internal/httperr"
	"github.com/agendaai/agenda-api/internal/httpresp"
	"github.com/agendaai/agenda-api/internal/middleware"
	"github.com/agendaai/agenda-api/internal/models"
	usecase "github.com/agendaai/agenda-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// Toda a regra de agenda (janela, conflito, limite, estado) vive nos casos
// de uso; aqui é só tradução HTTP.
type AppointmentHandler struct {
	create      *usecase.CreateAppointment
	reschedule  *usecase.RescheduleAppointment
	cancel      *usecase.CancelAppointment
	transition  *usecase.TransitionAppointment
	listByDate  *usecase.ListAppointmentsByDate
	listByMonth *usecase.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	create *usecase.CreateAppointment,
	reschedule *usecase.RescheduleAppointment,
	cancel *usecase.CancelAppointment,
	transition *usecase.TransitionAppointment,
	listByDate *usecase.ListAppointmentsByDate,
	listByMonth *usecase.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:      create,
		reschedule:  reschedule,
		cancel:      cancel,
		transition:  transition,
		listByDate:  listByDate,
		listByMonth: listByMonth,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientName     string `json:"client_name" binding:"required"`
	ClientPhone    string `json:"client_phone" binding:"required"`
	ClientEmail    string `json:"client_email"`
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	Date           string `json:"date" binding:"required"` // YYYY-MM-DD
	Time           string `json:"time" binding:"required"` // HH:MM
	Notes          string `json:"notes"`
}

type RescheduleAppointmentRequest struct {
	Date string `json:"date" binding:"required"` // YYYY-MM-DD
	Time string `json:"time" binding:"required"` // HH:MM
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), usecase.CreateAppointmentInput{
		EstablishmentID: establishmentID,
		ProfessionalID:  req.ProfessionalID,
		ServiceID:       req.ServiceID,
		ClientName:      req.ClientName,
		ClientPhone:     req.ClientPhone,
		ClientEmail:     req.ClientEmail,
		Date:            req.Date,
		Time:            req.Time,
		Notes:           req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LISTAGENS
// ======================================================

func toListDTO(aps []models.Appointment) []dto.AppointmentListDTO {
	out := make([]dto.AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, dto.AppointmentListDTO{
			ID:               ap.ID,
			ProfessionalID:   ap.ProfessionalID,
			StartTime:        ap.StartTime,
			EndTime:          ap.EndTime,
			Status:           ap.Status,
			ClientName:       ap.Client.Name,
			ServiceName:      ap.ServiceName,
			ProfessionalName: ap.ProfessionalName,
			Price:            ap.Price,
		})
	}
	return out
}

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Informe a data no formato YYYY-MM-DD.")
		return
	}

	professionalID := uintQuery(c, "professional_id")

	aps, err := h.listByDate.Execute(c.Request.Context(), establishmentID, professionalID, dateStr)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, toListDTO(aps))
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_period", "Informe year e month válidos.")
		return
	}

	professionalID := uintQuery(c, "professional_id")

	aps, err := h.listByMonth.Execute(c.Request.Context(), establishmentID, professionalID, year, month)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, toListDTO(aps))
}

// ======================================================
// TRANSIÇÕES DE STATUS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.applyTransition(c, domain.StatusConfirmed)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.applyTransition(c, domain.StatusCompleted)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	h.applyTransition(c, domain.StatusNoShow)
}

func (h *AppointmentHandler) applyTransition(c *gin.Context, target domain.Status) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	ap, err := h.transition.Execute(
		c.Request.Context(),
		establishmentID,
		uint(id),
		target,
		domain.ActorEstablishment,
		time.Time{},
	)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	ap, err := h.cancel.Execute(
		c.Request.Context(),
		establishmentID,
		uint(id),
		domain.ActorEstablishment,
		time.Time{},
	)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// REMARCAÇÃO
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), usecase.RescheduleAppointmentInput{
		EstablishmentID: establishmentID,
		AppointmentID:   uint(id),
		Date:            req.Date,
		Time:            req.Time,
		Actor:           domain.ActorEstablishment,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}
