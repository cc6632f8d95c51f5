package models

import "time"

// Review ratings are bounded to [MinRating, MaxRating]; fractions are allowed.
const (
	MinRating = 1.0
	MaxRating = 5.0
)

// Review belongs to one Whop and is public only once Verified.
type Review struct {
	ID        string    `db:"id"         json:"id"`
	WhopID    string    `db:"whop_id"    json:"whopId"`
	Author    string    `db:"author"     json:"author"`
	Content   string    `db:"content"    json:"content"`
	Rating    float64   `db:"rating"     json:"rating"`
	Verified  bool      `db:"verified"   json:"verified"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ReviewInput is submitted by end users.
type ReviewInput struct {
	Author  string  `json:"author"`
	Content string  `json:"content"`
	Rating  float64 `json:"rating"`
}
