package models

import "time"

// Category is an independent entity referenced, not owned, by products.
// Name is free text; uniqueness is not enforced. Deleting a category that
// products still reference leaves those references dangling on purpose.
type Category struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
