package models

// User represents the user model in the database.
type User struct {
	Base
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	Portfolios []Portfolio     `gorm:"foreignKey:UserID" json:"portfolios,omitempty"`
	Preference *UserPreference `gorm:"foreignKey:UserID" json:"preference,omitempty"`
}
