package model

// CategoryModel mirrors the 'categories' table. The partial unique index keeps
// names unique among active rows only, so a soft-deleted category frees its name.
type CategoryModel struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"type:varchar(255);not null;index:idx_categories_active_name,unique,where:is_active"`
	ParentID *int64 `gorm:"index"`
	IsActive bool   `gorm:"not null;default:true"`

	Parent   *CategoryModel  `gorm:"foreignKey:ParentID"`
	Children []CategoryModel `gorm:"foreignKey:ParentID"`
}

// TableName explicitly sets the table name for GORM.
func (CategoryModel) TableName() string {
	return "categories"
}
