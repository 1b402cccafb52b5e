package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Review is a single product review, embedded in the product record. The
// reviewer display name is copied at submission time; User is the reviewer's
// identifier and is only consulted for the one-review-per-user check.
// Reviews are immutable and only go away with the parent product.
type Review struct {
	Name    string `json:"name"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	User    string `json:"user"`
}

// Reviews is the ordered review sequence of a product, stored as a JSONB
// column. Insertion order is submission order.
type Reviews []Review

// Value implements driver.Valuer so the sequence can be written as JSONB.
func (r Reviews) Value() (driver.Value, error) {
	if r == nil {
		r = Reviews{}
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner for reading the JSONB column.
func (r *Reviews) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = Reviews{}
		return nil
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return errors.New("unsupported type for reviews column")
	}
}

// Product represents a catalog product. Rating and NumReviews are derived
// from the Reviews sequence and recomputed on every review append, never
// mutated independently. Fields are tagged for both DB scanning and JSON
// serialization.
type Product struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	Brand        string    `db:"brand" json:"brand"`
	Price        float64   `db:"price" json:"price"`
	CategoryID   string    `db:"category_id" json:"category"`
	Quantity     int       `db:"quantity" json:"quantity"`
	CountInStock *int      `db:"count_in_stock" json:"countInStock,omitempty"`
	Image        string    `db:"image" json:"image"`
	Reviews      Reviews   `db:"reviews" json:"reviews"`
	NumReviews   int       `db:"num_reviews" json:"numReviews"`
	Rating       float64   `db:"rating" json:"rating"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// ProductWithCategory is a product with its category reference expanded to
// the full record, used by the admin listing. The expanded category shadows
// the embedded CategoryID in JSON output.
type ProductWithCategory struct {
	Product
	Category Category `db:"category" json:"category"`
}
