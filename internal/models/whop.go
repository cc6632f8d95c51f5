package models

import (
	"strings"
	"time"
)

// Whop is a listed digital product. Description, Category and Price are
// nullable in storage; Price is free text, not a money type.
type Whop struct {
	ID            string    `db:"id"             json:"id"`
	Name          string    `db:"name"           json:"name"`
	Slug          string    `db:"slug"           json:"slug"`
	Description   *string   `db:"description"    json:"description"`
	Category      *string   `db:"category"       json:"category"`
	Price         *string   `db:"price"          json:"price"`
	Rating        float64   `db:"rating"         json:"rating"`
	AffiliateLink *string   `db:"affiliate_link" json:"affiliateLink,omitempty"`
	Website       *string   `db:"website"        json:"website,omitempty"`
	CreatedAt     time.Time `db:"created_at"     json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updatedAt"`
}

// DescriptionText returns the description or "".
func (w *Whop) DescriptionText() string {
	return deref(w.Description)
}

// CategoryText returns the category or "".
func (w *Whop) CategoryText() string {
	return deref(w.Category)
}

// PriceText returns the price or "".
func (w *Whop) PriceText() string {
	return deref(w.Price)
}

// WhopDetail is the public item page: the whop with its codes and verified reviews.
type WhopDetail struct {
	Whop
	PromoCodes []PromoCode `json:"promoCodes"`
	Reviews    []Review    `json:"reviews"`
}

// WhopFilter narrows a catalog listing.
type WhopFilter struct {
	Category string
	Query    string
	Limit    int
	Offset   int
}

// WhopInput is the admin create/update payload.
type WhopInput struct {
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	Description   *string `json:"description"`
	Category      *string `json:"category"`
	Price         *string `json:"price"`
	AffiliateLink *string `json:"affiliateLink"`
	Website       *string `json:"website"`
}

// Slugify lowercases name and joins its alphanumeric runs with dashes.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// StringPtr returns a pointer to s, or nil when s is blank.
func StringPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
