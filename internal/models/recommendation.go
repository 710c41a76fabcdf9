package models

import "time"

// Recommendation is one scored suggestion for a user. The full set for a
// user is replaced atomically on every regeneration; no history is kept.
type Recommendation struct {
	Base
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	SecurityID  uint      `gorm:"not null" json:"security_id"`
	Score       float64   `gorm:"not null" json:"score"`
	Reason      string    `gorm:"type:text" json:"reason"`
	GeneratedAt time.Time `gorm:"not null" json:"generated_at"`

	Security Security `gorm:"foreignKey:SecurityID" json:"security,omitempty"`
}
