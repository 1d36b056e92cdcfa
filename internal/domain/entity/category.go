// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

// Category is a node in the product catalog tree. A nil ParentID marks a
// top-level category. The name must stay unique among active categories.
type Category struct {
	ID       int64  // The unique identifier for the category.
	Name     string // The display name of the category.
	ParentID *int64 // Links to the parent category, nil for top-level nodes.
	IsActive bool   // Soft-delete marker. Inactive categories are hidden from reads.
}
