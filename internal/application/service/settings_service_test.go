package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/scrapdocs/scrapdocs-api/internal/domain/enum"
	"github.com/scrapdocs/scrapdocs-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettingsFixture(t *testing.T) (*SettingsService, *fakeSettingsRepo) {
	t.Helper()
	repo := newFakeSettingsRepo()
	svc := NewSettingsService(repo)
	require.NoError(t, svc.Load(context.Background()))
	return svc, repo
}

func TestLoadSeedsDefaults(t *testing.T) {
	svc, repo := newSettingsFixture(t)

	// All five sections are persisted on first load
	for _, key := range []string{
		SettingsKeyCompanyProfile,
		SettingsKeyPrintPreferences,
		SettingsKeyUIPreferences,
		SettingsKeySyncMetadata,
		SettingsKeyRecentDocuments,
	} {
		_, ok := repo.rows[key]
		assert.True(t, ok, "missing section %s", key)
	}

	assert.Equal(t, "Scrap Trading Co.", svc.CompanyProfile().Name)
	assert.Equal(t, "A4", svc.PrintPreferences().PaperSize)
	assert.Equal(t, 1, svc.PrintPreferences().Copies)
	assert.True(t, svc.PrintPreferences().ShowLogo)
	assert.Equal(t, "en", svc.UIPreferences().Language)
	assert.Equal(t, "light", svc.UIPreferences().Theme)
	assert.True(t, svc.UIPreferences().DefaultVATRate.Equal(decimal.NewFromFloat(0.15)))
	assert.Empty(t, svc.RecentDocuments())
}

func TestLoadKeepsStoredSections(t *testing.T) {
	repo := newFakeSettingsRepo()
	first := NewSettingsService(repo)
	require.NoError(t, first.Load(context.Background()))
	require.NoError(t, first.UpdateCompanyProfile(context.Background(), CompanyProfile{
		Name:      "Gulf Scrap Trading",
		VATNumber: "310122393500003",
	}))

	second := NewSettingsService(repo)
	require.NoError(t, second.Load(context.Background()))
	assert.Equal(t, "Gulf Scrap Trading", second.CompanyProfile().Name)
}

func TestUpdateCompanyProfileValidation(t *testing.T) {
	svc, _ := newSettingsFixture(t)
	ctx := context.Background()

	err := svc.UpdateCompanyProfile(ctx, CompanyProfile{
		Name:      "Gulf Scrap Trading",
		VATNumber: "12AB",
	})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 422, appErr.Code)
	require.NotEmpty(t, appErr.Errors)

	// A rejected update leaves the stored section untouched
	assert.Equal(t, "Scrap Trading Co.", svc.CompanyProfile().Name)

	require.NoError(t, svc.UpdateCompanyProfile(ctx, CompanyProfile{
		Name:      "Gulf Scrap Trading",
		VATNumber: "310122393500003",
		Email:     "office@gulfscrap.example",
	}))
	assert.Equal(t, "Gulf Scrap Trading", svc.CompanyProfile().Name)
}

func TestUpdatePrintPreferencesValidation(t *testing.T) {
	svc, _ := newSettingsFixture(t)
	ctx := context.Background()

	err := svc.UpdatePrintPreferences(ctx, PrintPreferences{PaperSize: "letter", Copies: 1})
	require.Error(t, err)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	err = svc.UpdatePrintPreferences(ctx, PrintPreferences{PaperSize: "A4", Copies: 9})
	require.Error(t, err)

	require.NoError(t, svc.UpdatePrintPreferences(ctx, PrintPreferences{
		PaperSize: "thermal_80mm",
		Copies:    2,
	}))
	assert.Equal(t, "thermal_80mm", svc.PrintPreferences().PaperSize)
}

func TestUpdateUIPreferencesRejectsNegativeVATRate(t *testing.T) {
	svc, _ := newSettingsFixture(t)

	err := svc.UpdateUIPreferences(context.Background(), UIPreferences{
		Language:       "en",
		Theme:          "dark",
		DateFormat:     "DD/MM/YYYY",
		DefaultVATRate: decimal.NewFromFloat(-0.05),
	})
	require.Error(t, err)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)
}

func TestRecentDocumentsMostRecentFirst(t *testing.T) {
	svc, _ := newSettingsFixture(t)
	ctx := context.Background()

	first := RecentDocumentEntry{
		DocumentID:   uuid.New(),
		DocumentType: enum.DocumentTypeInvoice,
		Number:       "INV-000001",
	}
	second := RecentDocumentEntry{
		DocumentID:   uuid.New(),
		DocumentType: enum.DocumentTypeQuotation,
		Number:       "QT-000001",
	}
	require.NoError(t, svc.AddRecentDocument(ctx, first))
	require.NoError(t, svc.AddRecentDocument(ctx, second))

	entries := svc.RecentDocuments()
	require.Len(t, entries, 2)
	assert.Equal(t, second.DocumentID, entries[0].DocumentID)
	assert.Equal(t, first.DocumentID, entries[1].DocumentID)

	// Re-opening moves to the front without duplicating
	require.NoError(t, svc.AddRecentDocument(ctx, first))
	entries = svc.RecentDocuments()
	require.Len(t, entries, 2)
	assert.Equal(t, first.DocumentID, entries[0].DocumentID)
}

func TestRecentDocumentsCapDropsOldest(t *testing.T) {
	svc, _ := newSettingsFixture(t)
	ctx := context.Background()

	var oldest uuid.UUID
	for i := 0; i < MaxRecentDocuments+1; i++ {
		entry := RecentDocumentEntry{
			DocumentID:   uuid.New(),
			DocumentType: enum.DocumentTypeInvoice,
			Number:       fmt.Sprintf("INV-%06d", i+1),
		}
		if i == 0 {
			oldest = entry.DocumentID
		}
		require.NoError(t, svc.AddRecentDocument(ctx, entry))
	}

	entries := svc.RecentDocuments()
	require.Len(t, entries, MaxRecentDocuments)
	for _, entry := range entries {
		assert.NotEqual(t, oldest, entry.DocumentID)
	}
	assert.Equal(t, "INV-000011", entries[0].Number)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	source, _ := newSettingsFixture(t)
	require.NoError(t, source.UpdateCompanyProfile(ctx, CompanyProfile{
		Name:      "Gulf Scrap Trading",
		VATNumber: "310122393500003",
	}))
	require.NoError(t, source.UpdateUIPreferences(ctx, UIPreferences{
		Language:       "ar",
		Theme:          "dark",
		DateFormat:     "YYYY-MM-DD",
		DefaultVATRate: decimal.NewFromFloat(0.15),
	}))

	data, err := source.Export(ctx)
	require.NoError(t, err)
	exportedAt := source.SyncMetadata().LastExportAt
	require.NotNil(t, exportedAt)

	target, _ := newSettingsFixture(t)
	require.True(t, target.Import(ctx, data))

	assert.Equal(t, "Gulf Scrap Trading", target.CompanyProfile().Name)
	assert.Equal(t, "ar", target.UIPreferences().Language)
	assert.Equal(t, "dark", target.UIPreferences().Theme)

	meta := target.SyncMetadata()
	assert.NotNil(t, meta.LastImportAt)
	// The exporter's bookkeeping travels with the document
	require.NotNil(t, meta.LastExportAt)
	assert.True(t, meta.LastExportAt.Equal(*exportedAt))
}

func TestImportMalformedDocument(t *testing.T) {
	svc, _ := newSettingsFixture(t)
	assert.False(t, svc.Import(context.Background(), []byte("{not json")))
	// Nothing changed
	assert.Equal(t, "Scrap Trading Co.", svc.CompanyProfile().Name)
}

func TestImportAppliesValidSectionsIndependently(t *testing.T) {
	svc, _ := newSettingsFixture(t)

	payload := []byte(`{
		"company_profile": {"name": "Gulf Scrap Trading", "vat_number": "bad"},
		"ui_preferences": {"language": "ar", "theme": "dark", "date_format": "YYYY-MM-DD", "default_vat_rate": "0.15"}
	}`)
	assert.False(t, svc.Import(context.Background(), payload))

	// The invalid company profile was rejected, the valid UI section applied
	assert.Equal(t, "Scrap Trading Co.", svc.CompanyProfile().Name)
	assert.Equal(t, "ar", svc.UIPreferences().Language)
}

func TestImportIgnoresUnknownKeys(t *testing.T) {
	svc, _ := newSettingsFixture(t)

	payload := []byte(`{"legacy_section": {"anything": true}}`)
	assert.True(t, svc.Import(context.Background(), payload))
	assert.NotNil(t, svc.SyncMetadata().LastImportAt)
}
