// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

// Product is an item offered for sale. Every product belongs to exactly one
// category and one seller. Rating is derived from the grades of the product's
// active reviews and is never set directly by clients.
type Product struct {
	ID          int64    // The unique identifier for the product.
	Name        string   // The display name, unique among active products.
	Description *string  // Optional free-form description.
	Price       *float64 // Optional unit price.
	ImageURL    *string  // Optional URL of the product image.
	Stock       int      // Units available for sale.
	CategoryID  int64    // Links the product to its category.
	Rating      float64  // Average grade over active reviews, 0 when unreviewed.
	SellerID    int64    // Links the product to the user who owns it.
	IsActive    bool     // Soft-delete marker. Inactive products are hidden from reads.
}
