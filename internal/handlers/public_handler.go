package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/agendaai/agenda-api/internal/domain/schedule"
	"github.com/agendaai/agenda-api/internal/httperr"
	"github.com/agendaai/agenda-api/internal/models"
	usecase "github.com/agendaai/agenda-api/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// Superfície pública da agenda: tudo chaveado pelo slug do estabelecimento,
// sem autenticação. O cliente prova posse do agendamento pelo telefone.
type PublicHandler struct {
	db           *gorm.DB
	availability *usecase.GetAvailability
	create       *usecase.CreateAppointment
	reschedule   *usecase.RescheduleAppointment
	cancel       *usecase.CancelAppointment
}

func NewPublicHandler(
	db *gorm.DB,
	availability *usecase.GetAvailability,
	create *usecase.CreateAppointment,
	reschedule *usecase.RescheduleAppointment,
	cancel *usecase.CancelAppointment,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		availability: availability,
		create:       create,
		reschedule:   reschedule,
		cancel:       cancel,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ClientName     string `json:"client_name" binding:"required"`
	ClientPhone    string `json:"client_phone" binding:"required"`
	ClientEmail    string `json:"client_email"`
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	Date           string `json:"date" binding:"required"` // YYYY-MM-DD
	Time           string `json:"time" binding:"required"` // HH:mm
	Notes          string `json:"notes"`
}

type PublicRescheduleRequest struct {
	ClientPhone string `json:"client_phone" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:mm
}

type PublicCancelRequest struct {
	ClientPhone string `json:"client_phone" binding:"required"`
}

////////////////////////////////////////////////////////
// HELPERS
////////////////////////////////////////////////////////

func (h *PublicHandler) findBySlug(c *gin.Context) (*models.Establishment, bool) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))

	var est models.Establishment
	if err := h.db.Where("slug = ?", slug).First(&est).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "establishment_not_found", "Estabelecimento não encontrado.")
			return nil, false
		}
		httperr.Internal(c, "internal_error", "Erro interno. Tente novamente.")
		return nil, false
	}

	return &est, true
}

// ownsAppointment confere o telefone informado contra o cliente do
// agendamento antes de liberar cancelamento/remarcação pública.
func (h *PublicHandler) ownsAppointment(
	c *gin.Context,
	establishmentID uint,
	appointmentID uint,
	phone string,
) bool {
	var ap models.Appointment
	if err := h.db.Preload("Client").
		Where("id = ? AND establishment_id = ?", appointmentID, establishmentID).
		First(&ap).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "appointment_not_found", "Agendamento não encontrado.")
			return false
		}
		httperr.Internal(c, "internal_error", "Erro interno. Tente novamente.")
		return false
	}

	if strings.TrimSpace(phone) == "" || ap.Client.Phone != strings.TrimSpace(phone) {
		httperr.Write(c, http.StatusForbidden, "not_permitted", "Telefone não confere com o agendamento.")
		return false
	}

	return true
}

////////////////////////////////////////////////////////
// PROFILE
////////////////////////////////////////////////////////

func (h *PublicHandler) GetEstablishment(c *gin.Context) {
	est, ok := h.findBySlug(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       est.ID,
		"name":     est.Name,
		"slug":     est.Slug,
		"phone":    est.Phone,
		"address":  est.Address,
		"timezone": est.Timezone,
		"logo_url": est.LogoURL,
	})
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	est, ok := h.findBySlug(c)
	if !ok {
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.Where("establishment_id = ? AND active = ?", est.ID, true)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"establishment": gin.H{
			"id":   est.ID,
			"name": est.Name,
			"slug": est.Slug,
		},
		"services": services,
	})
}

////////////////////////////////////////////////////////
// PROFESSIONALS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListProfessionals(c *gin.Context) {
	est, ok := h.findBySlug(c)
	if !ok {
		return
	}

	var professionals []models.Professional
	if err := h.db.
		Where("establishment_id = ? AND active = ?", est.ID, true).
		Order("id ASC").
		Find(&professionals).Error; err != nil {

		httperr.Internal(c, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}

	out := make([]gin.H, 0, len(professionals))
	for _, p := range professionals {
		out = append(out, gin.H{"id": p.ID, "name": p.Name})
	}

	c.JSON(http.StatusOK, gin.H{"professionals": out})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	est, ok := h.findBySlug(c)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Informe a data no formato YYYY-MM-DD.")
		return
	}

	professionalID, err := strconv.ParseUint(c.Query("professional_id"), 10, 64)
	if err != nil || professionalID == 0 {
		httperr.BadRequest(c, "missing_professional", "Informe o professional_id.")
		return
	}

	serviceID := uintQuery(c, "service_id")

	slots, err := h.availability.Execute(c.Request.Context(), usecase.AvailabilityInput{
		EstablishmentID: est.ID,
		ProfessionalID:  uint(professionalID),
		ServiceID:       serviceID,
		Date:            dateStr,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// CREATE
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	est, ok := h.findBySlug(c)
	if !ok {
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), usecase.CreateAppointmentInput{
		EstablishmentID: est.ID,
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

////////////////////////////////////////////////////////
// CANCEL / RESCHEDULE
////////////////////////////////////////////////////////

func (h *PublicHandler) CancelAppointment(c *gin.Context) {
	est, ok := h.findBySlug(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req PublicCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if !h.ownsAppointment(c, est.ID, uint(id), req.ClientPhone) {
		return
	}

	ap, err := h.cancel.Execute(
		c.Request.Context(),
		est.ID,
		uint(id),
		domain.ActorClient,
		time.Time{},
	)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *PublicHandler) RescheduleAppointment(c *gin.Context) {
	est, ok := h.findBySlug(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req PublicRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if !h.ownsAppointment(c, est.ID, uint(id), req.ClientPhone) {
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), usecase.RescheduleAppointmentInput{
		EstablishmentID: est.ID,
		AppointmentID:   uint(id),
		Date:            req.Date,
		Time:            req.Time,
		Actor:           domain.ActorClient,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}
