package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields. IDs are generated application-side so
// the same models work on both postgres and sqlite.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns an ID when none was set by the caller
func (m *BaseModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// User represents a local account. Beyond authentication the system only
// uses the account as a display-name gate; there is no authorization model.
type User struct {
	BaseModel
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	DisplayName  string `gorm:"type:varchar(200);not null;column:display_name"`
	PasswordHash string `gorm:"type:varchar(255);not null;column:password_hash"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

// FontFamily enumerates the PDF font choices
type FontFamily string

const (
	FontHelvetica FontFamily = "Helvetica"
	FontCourier   FontFamily = "Courier"
	FontTimes     FontFamily = "Times"
)

// DesignSettings holds presentation configuration for rendered documents.
// One row per user, independent of any single estimate. Logo is an
// optional base64 data URI.
type DesignSettings struct {
	BaseModel
	UserID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex;column:user_id"`
	PrimaryColor   string     `gorm:"type:varchar(20);not null;default:'#38B2AC';column:primary_color"`
	SecondaryColor string     `gorm:"type:varchar(20);not null;default:'#4A5568';column:secondary_color"`
	FontFamily     FontFamily `gorm:"type:varchar(50);not null;default:'Helvetica';column:font_family"`
	Logo           string     `gorm:"type:text"`
}

// DefaultDesignSettings returns the settings used before a user saves any
func DefaultDesignSettings(userID uuid.UUID) DesignSettings {
	return DesignSettings{
		UserID:         userID,
		PrimaryColor:   "#38B2AC",
		SecondaryColor: "#4A5568",
		FontFamily:     FontHelvetica,
	}
}

// KVEntry is a single key-value row. Estimate history lives here under a
// fixed key as one serialized list, rewritten wholesale on every mutation.
type KVEntry struct {
	Key       string    `gorm:"type:varchar(100);primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for KVEntry
func (KVEntry) TableName() string {
	return "kv_entries"
}

// NumberSequence is a per-prefix/year counter backing generated estimate
// numbers like EST-2026-042.
type NumberSequence struct {
	Prefix     string    `gorm:"type:varchar(10);primaryKey"`
	Year       int       `gorm:"primaryKey"`
	LastNumber int       `gorm:"not null;default:0;column:last_number"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for NumberSequence
func (NumberSequence) TableName() string {
	return "number_sequences"
}
