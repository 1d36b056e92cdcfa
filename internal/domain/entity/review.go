// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// Review is a grade with an optional comment that a user leaves on a product.
// A user may hold at most one active review per product.
type Review struct {
	ID          int64     // The unique identifier for the review.
	UserID      int64     // Links the review to its author.
	ProductID   int64     // Links the review to the graded product.
	Comment     *string   // Optional free-form comment.
	CommentDate time.Time // Timestamp of when the review was written.
	Grade       int       // The grade given to the product, from 1 to 5.
	IsActive    bool      // Soft-delete marker. Inactive reviews are hidden from reads.
}
