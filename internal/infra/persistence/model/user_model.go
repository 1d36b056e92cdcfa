package model

import "time"

// UserModel mirrors the 'users' table. The partial unique index keeps emails
// unique among active rows only, so a deactivated account frees its email.
type UserModel struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	Email          string `gorm:"type:varchar(255);not null;index:idx_users_active_email,unique,where:is_active"`
	HashedPassword string `gorm:"type:varchar(255);not null"`
	Role           string `gorm:"type:varchar(20);not null;default:'buyer'"`
	IsActive       bool   `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Products      []ProductModel      `gorm:"foreignKey:SellerID"`
	Reviews       []ReviewModel       `gorm:"foreignKey:UserID"`
	RefreshTokens []RefreshTokenModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
