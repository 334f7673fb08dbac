package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendaai/agenda-api/internal/audit"
	domain "github.com/agendaai/agenda-api/internal/domain/schedule"
	"github.com/agendaai/agenda-api/internal/middleware"
	"github.com/agendaai/agenda-api/internal/models"
)

type ProfessionalHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewProfessionalHandler(db *gorm.DB, auditor *audit.Dispatcher) *ProfessionalHandler {
	return &ProfessionalHandler{db: db, audit: auditor}
}

// --------- Requests ---------

type CreateProfessionalRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`

	EntryTime string `json:"entry_time"` // HH:MM
	ExitTime  string `json:"exit_time"`  // HH:MM
	WorkDays  string `json:"work_days"`  // ex: "1,2,3,4,5" (0=domingo)
}

type UpdateProfessionalRequest struct {
	Name      *string `json:"name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	EntryTime *string `json:"entry_time,omitempty"`
	ExitTime  *string `json:"exit_time,omitempty"`
	WorkDays  *string `json:"work_days,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

func validClock(s string) bool {
	if s == "" {
		return true
	}
	_, err := domain.ParseClock(s)
	return err == nil
}

// --------- Handlers ---------

func (h *ProfessionalHandler) List(c *gin.Context) {
	establishmentIDVal, _ := c.Get(middleware.ContextEstablishmentID)
	establishmentID := establishmentIDVal.(uint)

	activeStr := strings.TrimSpace(c.Query("active"))

	q := h.db.Where("establishment_id = ?", establishmentID)

	if activeStr == "true" {
		q = q.Where("active = ?", true)
	} else if activeStr == "false" {
		q = q.Where("active = ?", false)
	}

	var professionals []models.Professional
	if err := q.
		Order("id ASC").
		Find(&professionals).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_professionals"})
		return
	}

	c.JSON(http.StatusOK, professionals)
}

func (h *ProfessionalHandler) Create(c *gin.Context) {
	establishmentIDVal, _ := c.Get(middleware.ContextEstablishmentID)
	establishmentID := establishmentIDVal.(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if !validClock(req.EntryTime) || !validClock(req.ExitTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_time_format"})
		return
	}

	professional := models.Professional{
		EstablishmentID: establishmentID,
		Name:            req.Name,
		Phone:           req.Phone,
		EntryTime:       req.EntryTime,
		ExitTime:        req.ExitTime,
		WorkDays:        req.WorkDays,
		Active:          true,
	}

	if err := h.db.Create(&professional).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_professional"})
		return
	}

	writeAudit(h.audit, establishmentID, &userID, "professional_created", "professional", &professional.ID, nil)

	c.JSON(http.StatusCreated, professional)
}

func (h *ProfessionalHandler) Update(c *gin.Context) {
	establishmentIDVal, _ := c.Get(middleware.ContextEstablishmentID)
	establishmentID := establishmentIDVal.(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id := c.Param("id")

	var professional models.Professional
	if err := h.db.
		Where("id = ? AND establishment_id = ?", id, establishmentID).
		First(&professional).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "professional_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_professional"})
		return
	}

	var req UpdateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.EntryTime != nil && !validClock(*req.EntryTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_time_format"})
		return
	}
	if req.ExitTime != nil && !validClock(*req.ExitTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_time_format"})
		return
	}

	if req.Name != nil {
		professional.Name = *req.Name
	}
	if req.Phone != nil {
		professional.Phone = *req.Phone
	}
	if req.EntryTime != nil {
		professional.EntryTime = *req.EntryTime
	}
	if req.ExitTime != nil {
		professional.ExitTime = *req.ExitTime
	}
	if req.WorkDays != nil {
		professional.WorkDays = *req.WorkDays
	}
	if req.Active != nil {
		professional.Active = *req.Active
	}

	if err := h.db.Save(&professional).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_professional"})
		return
	}

	writeAudit(h.audit, establishmentID, &userID, "professional_updated", "professional", &professional.ID, nil)

	c.JSON(http.StatusOK, professional)
}
