package domain

import "time"

// Recipe is a user-owned recipe with optional tag and ingredient links.
// Tags and Ingredients hold the fully loaded associations; both may be empty.
type Recipe struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	TimeMinutes int       `json:"time_minutes"`
	Price       float64   `json:"price"`
	Link        string    `json:"link,omitempty"`
	// Image is the stored filename under the recipe-image namespace,
	// empty when no image has been uploaded.
	Image         string    `json:"image,omitempty"`
	ImageBlurHash string    `json:"image_blur_hash,omitempty"`
	UserID        int64     `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Tags        []*Tag        `json:"tags"`
	Ingredients []*Ingredient `json:"ingredients"`
}
