package model

import "time"

// ReviewModel mirrors the 'reviews' table. The partial unique index limits a
// user to one active review per product. The check constraint keeps grades
// within the 1 to 5 range.
type ReviewModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	UserID      int64     `gorm:"not null;index:idx_reviews_active_user_product,unique,where:is_active"`
	ProductID   int64     `gorm:"not null;index:idx_reviews_active_user_product,unique,where:is_active"`
	Comment     *string   `gorm:"type:text"`
	CommentDate time.Time `gorm:"not null;autoCreateTime"`
	Grade       int       `gorm:"not null;check:grade >= 1 AND grade <= 5"`
	IsActive    bool      `gorm:"not null;default:true"`

	User    *UserModel    `gorm:"foreignKey:UserID"`
	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (ReviewModel) TableName() string {
	return "reviews"
}
