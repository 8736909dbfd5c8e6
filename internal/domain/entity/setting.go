package entity

import (
	"time"
)

// Setting stores one top-level settings section as a JSON document. The
// settings service owns the schema; this row is just the persisted bytes.
type Setting struct {
	Key       string    `gorm:"size:100;primaryKey" json:"key"`
	Value     []byte    `gorm:"type:jsonb;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Setting model
func (Setting) TableName() string {
	return "settings"
}
