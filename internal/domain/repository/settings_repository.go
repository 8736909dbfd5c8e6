package repository

import (
	"context"

	"github.com/scrapdocs/scrapdocs-api/internal/domain/entity"
)

// SettingsRepository defines the interface for the settings key-value store.
// One row per top-level section, addressed by key.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (*entity.Setting, error)
	GetAll(ctx context.Context) ([]entity.Setting, error)
	Upsert(ctx context.Context, setting *entity.Setting) error
	Delete(ctx context.Context, key string) error
}
