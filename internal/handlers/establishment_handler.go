package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendaai/agenda-api/internal/audit"
	"github.com/agendaai/agenda-api/internal/httperr"
	"github.com/agendaai/agenda-api/internal/media"
	"github.com/agendaai/agenda-api/internal/middleware"
	"github.com/agendaai/agenda-api/internal/models"
	"github.com/agendaai/agenda-api/internal/timezone"
)

type EstablishmentHandler struct {
	db      *gorm.DB
	storage *media.Storage
	audit   *audit.Dispatcher
}

func NewEstablishmentHandler(db *gorm.DB, storage *media.Storage, auditor *audit.Dispatcher) *EstablishmentHandler {
	return &EstablishmentHandler{db: db, storage: storage, audit: auditor}
}

type UpdateEstablishmentRequest struct {
	Name         *string `json:"name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	Municipality *string `json:"municipality,omitempty"`
	Timezone     *string `json:"timezone,omitempty"`
}

func (h *EstablishmentHandler) GetMe(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)

	var est models.Establishment
	if err := h.db.First(&est, establishmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "establishment_not_found", "Estabelecimento não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_establishment", "Erro ao buscar dados do estabelecimento.")
		return
	}

	c.JSON(http.StatusOK, est)
}

func (h *EstablishmentHandler) UpdateMe(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var est models.Establishment
	if err := h.db.First(&est, establishmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "establishment_not_found", "Estabelecimento não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_establishment", "Erro ao buscar dados do estabelecimento.")
		return
	}

	var req UpdateEstablishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.Name != nil {
		est.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		est.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		est.Address = strings.TrimSpace(*req.Address)
	}
	if req.Municipality != nil {
		est.Municipality = strings.TrimSpace(*req.Municipality)
	}
	if req.Timezone != nil {
		tz := strings.TrimSpace(*req.Timezone)
		if !timezone.IsValid(tz) {
			httperr.BadRequest(c, "invalid_timezone", "Timezone inválido. Use um nome IANA, ex: America/Sao_Paulo.")
			return
		}
		est.Timezone = tz
	}

	if err := h.db.Save(&est).Error; err != nil {
		httperr.Internal(c, "failed_to_update_establishment", "Erro ao salvar os dados do estabelecimento.")
		return
	}

	writeAudit(h.audit, establishmentID, &userID, "establishment_updated", "establishment", &est.ID, nil)

	c.JSON(http.StatusOK, est)
}

// ======================================================
// LOGO
// ======================================================

// UploadLogo recebe multipart "logo", normaliza (decode, resize, webp)
// e sobe para o bucket. A URL pública fica no cadastro.
func (h *EstablishmentHandler) UploadLogo(c *gin.Context) {
	establishmentID := c.MustGet(middleware.ContextEstablishmentID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	if h.storage == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "storage_not_configured", "Upload de imagens não está habilitado nesse ambiente.")
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Envie o arquivo no campo 'logo'.")
		return
	}

	if fileHeader.Size > 5*1024*1024 {
		httperr.BadRequest(c, "file_too_large", "A imagem deve ter no máximo 5MB.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_file", "Erro ao ler o arquivo enviado.")
		return
	}
	defer file.Close()

	normalized, err := media.NormalizeLogo(file)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Arquivo não é uma imagem JPEG ou PNG válida.")
		return
	}

	url, err := h.storage.UploadLogo(c.Request.Context(), establishmentID, normalized)
	if err != nil {
		httperr.Internal(c, "failed_to_upload_logo", "Erro ao enviar a imagem.")
		return
	}

	if err := h.db.Model(&models.Establishment{}).
		Where("id = ?", establishmentID).
		Update("logo_url", url).Error; err != nil {

		httperr.Internal(c, "failed_to_save_logo", "Erro ao salvar a URL da logo.")
		return
	}

	writeAudit(h.audit, establishmentID, &userID, "logo_uploaded", "establishment", &establishmentID, gin.H{"url": url})

	c.JSON(http.StatusOK, gin.H{"logo_url": url})
}
