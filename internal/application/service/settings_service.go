package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/entity"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/repository"
	"github.com/scrapdocs/scrapdocs-api/pkg/apperror"
	"github.com/scrapdocs/scrapdocs-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// Settings section keys. Each key owns one independently validated document.
const (
	SettingsKeyCompanyProfile   = "company_profile"
	SettingsKeyPrintPreferences = "print_preferences"
	SettingsKeyUIPreferences    = "ui_preferences"
	SettingsKeySyncMetadata     = "sync_metadata"
	SettingsKeyRecentDocuments  = "recent_documents"
)

// MaxRecentDocuments caps the most-recently-used document list.
const MaxRecentDocuments = 10

// CompanyProfile identifies the issuing company on documents and tax
// submissions
type CompanyProfile struct {
	Name       string `json:"name" validate:"required"`
	NameArabic string `json:"name_arabic"`
	VATNumber  string `json:"vat_number" validate:"omitempty,len=15,numeric"`
	CRNumber   string `json:"cr_number"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Phone      string `json:"phone"`
	Email      string `json:"email" validate:"omitempty,email"`
	LogoPath   string `json:"logo_path"`
}

// PrintPreferences controls document rendering and the receipt printer
type PrintPreferences struct {
	PaperSize   string `json:"paper_size" validate:"oneof=A4 A5 thermal_80mm thermal_58mm"`
	Copies      int    `json:"copies" validate:"min=1,max=5"`
	ShowLogo    bool   `json:"show_logo"`
	FooterText  string `json:"footer_text"`
	PrinterName string `json:"printer_name"`
}

// UIPreferences holds display settings
type UIPreferences struct {
	Language       string          `json:"language" validate:"oneof=en ar"`
	Theme          string          `json:"theme" validate:"oneof=light dark"`
	DateFormat     string          `json:"date_format" validate:"required"`
	DefaultVATRate decimal.Decimal `json:"default_vat_rate"`
}

// SyncMetadata records export/import bookkeeping
type SyncMetadata struct {
	DeviceName   string     `json:"device_name"`
	LastExportAt *time.Time `json:"last_export_at,omitempty"`
	LastImportAt *time.Time `json:"last_import_at,omitempty"`
}

// RecentDocumentEntry is one slot in the most-recently-used list
type RecentDocumentEntry struct {
	DocumentID   uuid.UUID         `json:"document_id"`
	DocumentType enum.DocumentType `json:"document_type"`
	Number       string            `json:"number"`
	OpenedAt     time.Time         `json:"opened_at"`
}

// SettingsService owns the settings store. Sections are loaded once, served
// from memory and written through to the repository on every update.
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	validate     *validator.Validate
	log          zerolog.Logger

	mu       sync.RWMutex
	sections map[string]json.RawMessage
}

// NewSettingsService creates a new settings service. Call Load before serving.
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		validate:     validator.New(),
		log:          logger.WithComponent("settings"),
		sections:     make(map[string]json.RawMessage),
	}
}

func defaultSections() map[string]interface{} {
	return map[string]interface{}{
		SettingsKeyCompanyProfile: CompanyProfile{
			Name: "Scrap Trading Co.",
		},
		SettingsKeyPrintPreferences: PrintPreferences{
			PaperSize: "A4",
			Copies:    1,
			ShowLogo:  true,
		},
		SettingsKeyUIPreferences: UIPreferences{
			Language:       "en",
			Theme:          "light",
			DateFormat:     "DD/MM/YYYY",
			DefaultVATRate: decimal.NewFromFloat(0.15),
		},
		SettingsKeySyncMetadata:    SyncMetadata{},
		SettingsKeyRecentDocuments: []RecentDocumentEntry{},
	}
}

// Load reads all stored sections into memory, filling defaults for any
// section that has never been written. Defaults are persisted so a fresh
// database ends up fully populated.
func (s *SettingsService) Load(ctx context.Context) error {
	stored, err := s.settingsRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sections = make(map[string]json.RawMessage)
	for _, setting := range stored {
		s.sections[setting.Key] = json.RawMessage(setting.Value)
	}

	for key, def := range defaultSections() {
		if _, ok := s.sections[key]; ok {
			continue
		}
		raw, err := json.Marshal(def)
		if err != nil {
			return err
		}
		s.sections[key] = raw
		if err := s.settingsRepo.Upsert(ctx, &entity.Setting{Key: key, Value: raw}); err != nil {
			return err
		}
	}
	return nil
}

func (s *SettingsService) section(key string, out interface{}) {
	s.mu.RLock()
	raw, ok := s.sections[key]
	s.mu.RUnlock()
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("Corrupt settings section, serving defaults")
	}
}

func (s *SettingsService) store(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sections[key] = raw
	s.mu.Unlock()
	return s.settingsRepo.Upsert(ctx, &entity.Setting{Key: key, Value: raw})
}

// CompanyProfile returns the company profile section
func (s *SettingsService) CompanyProfile() CompanyProfile {
	profile := defaultSections()[SettingsKeyCompanyProfile].(CompanyProfile)
	s.section(SettingsKeyCompanyProfile, &profile)
	return profile
}

// UpdateCompanyProfile validates and stores the company profile
func (s *SettingsService) UpdateCompanyProfile(ctx context.Context, profile CompanyProfile) error {
	if err := s.validate.Struct(profile); err != nil {
		return validationError(err)
	}
	return s.store(ctx, SettingsKeyCompanyProfile, profile)
}

// PrintPreferences returns the print preferences section
func (s *SettingsService) PrintPreferences() PrintPreferences {
	prefs := defaultSections()[SettingsKeyPrintPreferences].(PrintPreferences)
	s.section(SettingsKeyPrintPreferences, &prefs)
	return prefs
}

// UpdatePrintPreferences validates and stores the print preferences
func (s *SettingsService) UpdatePrintPreferences(ctx context.Context, prefs PrintPreferences) error {
	if err := s.validate.Struct(prefs); err != nil {
		return validationError(err)
	}
	return s.store(ctx, SettingsKeyPrintPreferences, prefs)
}

// UIPreferences returns the display settings section
func (s *SettingsService) UIPreferences() UIPreferences {
	prefs := defaultSections()[SettingsKeyUIPreferences].(UIPreferences)
	s.section(SettingsKeyUIPreferences, &prefs)
	return prefs
}

// UpdateUIPreferences validates and stores the display settings
func (s *SettingsService) UpdateUIPreferences(ctx context.Context, prefs UIPreferences) error {
	if err := s.validate.Struct(prefs); err != nil {
		return validationError(err)
	}
	if prefs.DefaultVATRate.IsNegative() {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "default_vat_rate", Message: "must not be negative"},
		})
	}
	return s.store(ctx, SettingsKeyUIPreferences, prefs)
}

// SyncMetadata returns the sync bookkeeping section
func (s *SettingsService) SyncMetadata() SyncMetadata {
	meta := SyncMetadata{}
	s.section(SettingsKeySyncMetadata, &meta)
	return meta
}

// RecentDocuments returns the most-recently-used list, newest first
func (s *SettingsService) RecentDocuments() []RecentDocumentEntry {
	entries := []RecentDocumentEntry{}
	s.section(SettingsKeyRecentDocuments, &entries)
	return entries
}

// AddRecentDocument pushes an entry to the front of the most-recently-used
// list. Re-opening a listed document moves it to the front instead of
// duplicating it; the list never exceeds MaxRecentDocuments.
func (s *SettingsService) AddRecentDocument(ctx context.Context, entry RecentDocumentEntry) error {
	entries := s.RecentDocuments()

	updated := make([]RecentDocumentEntry, 0, len(entries)+1)
	updated = append(updated, entry)
	for _, existing := range entries {
		if existing.DocumentID == entry.DocumentID {
			continue
		}
		updated = append(updated, existing)
	}
	if len(updated) > MaxRecentDocuments {
		updated = updated[:MaxRecentDocuments]
	}

	return s.store(ctx, SettingsKeyRecentDocuments, updated)
}

// Export serializes every section into a single JSON document. The export
// timestamp is recorded first so the document itself carries it.
func (s *SettingsService) Export(ctx context.Context) ([]byte, error) {
	meta := s.SyncMetadata()
	exportedAt := time.Now().UTC()
	meta.LastExportAt = &exportedAt
	if err := s.store(ctx, SettingsKeySyncMetadata, meta); err != nil {
		return nil, err
	}

	s.mu.RLock()
	snapshot := make(map[string]json.RawMessage, len(s.sections))
	for key, raw := range s.sections {
		snapshot[key] = raw
	}
	s.mu.RUnlock()

	return json.MarshalIndent(snapshot, "", "  ")
}

// Import applies an exported settings document. Each known top-level key is
// validated and applied independently; unknown keys are ignored. The single
// boolean reports whether the payload parsed and every present section
// applied cleanly.
func (s *SettingsService) Import(ctx context.Context, data []byte) bool {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		s.log.Warn().Err(err).Msg("Settings import rejected: malformed document")
		return false
	}

	ok := true
	apply := func(key string, err error) {
		if err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("Settings import: section rejected")
			ok = false
		}
	}

	if raw, present := payload[SettingsKeyCompanyProfile]; present {
		var profile CompanyProfile
		if err := json.Unmarshal(raw, &profile); err != nil {
			apply(SettingsKeyCompanyProfile, err)
		} else {
			apply(SettingsKeyCompanyProfile, s.UpdateCompanyProfile(ctx, profile))
		}
	}
	if raw, present := payload[SettingsKeyPrintPreferences]; present {
		var prefs PrintPreferences
		if err := json.Unmarshal(raw, &prefs); err != nil {
			apply(SettingsKeyPrintPreferences, err)
		} else {
			apply(SettingsKeyPrintPreferences, s.UpdatePrintPreferences(ctx, prefs))
		}
	}
	if raw, present := payload[SettingsKeyUIPreferences]; present {
		var prefs UIPreferences
		if err := json.Unmarshal(raw, &prefs); err != nil {
			apply(SettingsKeyUIPreferences, err)
		} else {
			apply(SettingsKeyUIPreferences, s.UpdateUIPreferences(ctx, prefs))
		}
	}
	if raw, present := payload[SettingsKeyRecentDocuments]; present {
		var entries []RecentDocumentEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			apply(SettingsKeyRecentDocuments, err)
		} else {
			if len(entries) > MaxRecentDocuments {
				entries = entries[:MaxRecentDocuments]
			}
			apply(SettingsKeyRecentDocuments, s.store(ctx, SettingsKeyRecentDocuments, entries))
		}
	}

	// Carry the exporter's bookkeeping across, then stamp this import
	meta := s.SyncMetadata()
	if raw, present := payload[SettingsKeySyncMetadata]; present {
		var imported SyncMetadata
		if err := json.Unmarshal(raw, &imported); err != nil {
			apply(SettingsKeySyncMetadata, err)
		} else {
			meta = imported
		}
	}
	importedAt := time.Now().UTC()
	meta.LastImportAt = &importedAt
	if err := s.store(ctx, SettingsKeySyncMetadata, meta); err != nil {
		s.log.Error().Err(err).Msg("Settings import: failed to record sync metadata")
	}

	return ok
}

// Flush persists every in-memory section. Updates already write through, so
// this is only needed on shutdown to be certain nothing is lost.
func (s *SettingsService) Flush(ctx context.Context) error {
	s.mu.RLock()
	snapshot := make(map[string]json.RawMessage, len(s.sections))
	for key, raw := range s.sections {
		snapshot[key] = raw
	}
	s.mu.RUnlock()

	for key, raw := range snapshot {
		if err := s.settingsRepo.Upsert(ctx, &entity.Setting{Key: key, Value: raw}); err != nil {
			return err
		}
	}
	return nil
}

// validationError converts validator failures into the field-error envelope
func validationError(err error) error {
	var fieldErrors []apperror.FieldError
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, verr := range verrs {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   verr.Field(),
				Message: "failed validation on '" + verr.Tag() + "'",
			})
		}
		return apperror.NewValidationError(fieldErrors)
	}
	return err
}
