package models

// Product is a single catalog entry. The ID is an opaque UUID string
// assigned at creation; UserID is the owning user and never changes.
type Product struct {
	ID          string `json:"pk"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Category    string `json:"category"`
	IsFeatured  bool   `json:"is_featured"`
	UserID      int    `json:"user_id"`
}
