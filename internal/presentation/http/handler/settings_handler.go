package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/application/service"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles application settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get handles retrieving all settings sections
func (h *SettingsHandler) Get(c *gin.Context) {
	response.OK(c, "Settings retrieved successfully", gin.H{
		service.SettingsKeyCompanyProfile:   h.settingsService.CompanyProfile(),
		service.SettingsKeyPrintPreferences: h.settingsService.PrintPreferences(),
		service.SettingsKeyUIPreferences:    h.settingsService.UIPreferences(),
		service.SettingsKeySyncMetadata:     h.settingsService.SyncMetadata(),
	})
}

// GetCompanyProfile handles retrieving the company profile
func (h *SettingsHandler) GetCompanyProfile(c *gin.Context) {
	response.OK(c, "Company profile retrieved successfully", h.settingsService.CompanyProfile())
}

// UpdateCompanyProfile handles updating the company profile
func (h *SettingsHandler) UpdateCompanyProfile(c *gin.Context) {
	var profile service.CompanyProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.settingsService.UpdateCompanyProfile(c.Request.Context(), profile); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Company profile updated successfully", h.settingsService.CompanyProfile())
}

// GetPrintPreferences handles retrieving print preferences
func (h *SettingsHandler) GetPrintPreferences(c *gin.Context) {
	response.OK(c, "Print preferences retrieved successfully", h.settingsService.PrintPreferences())
}

// UpdatePrintPreferences handles updating print preferences
func (h *SettingsHandler) UpdatePrintPreferences(c *gin.Context) {
	var prefs service.PrintPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.settingsService.UpdatePrintPreferences(c.Request.Context(), prefs); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Print preferences updated successfully", h.settingsService.PrintPreferences())
}

// GetUIPreferences handles retrieving UI preferences
func (h *SettingsHandler) GetUIPreferences(c *gin.Context) {
	response.OK(c, "UI preferences retrieved successfully", h.settingsService.UIPreferences())
}

// UpdateUIPreferences handles updating UI preferences
func (h *SettingsHandler) UpdateUIPreferences(c *gin.Context) {
	var prefs service.UIPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.settingsService.UpdateUIPreferences(c.Request.Context(), prefs); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "UI preferences updated successfully", h.settingsService.UIPreferences())
}

// RecentDocuments handles retrieving the recently opened document list
func (h *SettingsHandler) RecentDocuments(c *gin.Context) {
	response.OK(c, "Recent documents retrieved successfully", h.settingsService.RecentDocuments())
}

// AddRecentDocument handles recording a document as recently opened
func (h *SettingsHandler) AddRecentDocument(c *gin.Context) {
	var req struct {
		DocumentID   uuid.UUID         `json:"document_id" binding:"required"`
		DocumentType enum.DocumentType `json:"document_type" binding:"required"`
		Number       string            `json:"number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	entry := service.RecentDocumentEntry{
		DocumentID:   req.DocumentID,
		DocumentType: req.DocumentType,
		Number:       req.Number,
		OpenedAt:     time.Now().UTC(),
	}
	if err := h.settingsService.AddRecentDocument(c.Request.Context(), entry); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Recent document recorded successfully", h.settingsService.RecentDocuments())
}

// Export handles exporting all settings as a JSON download
func (h *SettingsHandler) Export(c *gin.Context) {
	data, err := h.settingsService.Export(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="settings-export.json"`)
	c.Data(200, "application/json", data)
}

// Import handles importing a previously exported settings document. Known
// sections are applied independently; the response reports whether every
// section applied cleanly.
func (h *SettingsHandler) Import(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "Unable to read request body")
		return
	}

	clean := h.settingsService.Import(c.Request.Context(), data)
	if !clean {
		response.ErrorWithCode(c, 422, "Settings import failed for one or more sections")
		return
	}

	response.OK(c, "Settings imported successfully", nil)
}
