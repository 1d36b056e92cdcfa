package model

// ProductModel mirrors the 'products' table. The partial unique index keeps
// names unique among active rows only. Rating is derived from active reviews
// and stored with two decimal places.
type ProductModel struct {
	ID          int64    `gorm:"primaryKey;autoIncrement"`
	Name        string   `gorm:"type:varchar(255);not null;index:idx_products_active_name,unique,where:is_active"`
	Description *string  `gorm:"type:varchar(500)"`
	Price       *float64 `gorm:"type:numeric(10,2)"`
	ImageURL    *string  `gorm:"type:varchar(200)"`
	Stock       int      `gorm:"not null;default:0"`
	CategoryID  int64    `gorm:"not null;index"`
	Rating      float64  `gorm:"type:numeric(5,2);not null;default:0"`
	SellerID    int64    `gorm:"not null;index"`
	IsActive    bool     `gorm:"not null;default:true"`

	Category *CategoryModel `gorm:"foreignKey:CategoryID"`
	Seller   *UserModel     `gorm:"foreignKey:SellerID"`
	Reviews  []ReviewModel  `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
