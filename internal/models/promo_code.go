package models

import "time"

// PromoType enumerates promo code kinds.
type PromoType string

const (
	PromoDiscount  PromoType = "discount"
	PromoFreeTrial PromoType = "free_trial"
	PromoBonus     PromoType = "bonus"
	PromoCashback  PromoType = "cashback"
)

// Valid reports whether t is a known promo type.
func (t PromoType) Valid() bool {
	switch t {
	case PromoDiscount, PromoFreeTrial, PromoBonus, PromoCashback:
		return true
	}
	return false
}

// PromoCode belongs to exactly one Whop. Value is free text ("20%", "7 days").
type PromoCode struct {
	ID          string    `db:"id"          json:"id"`
	WhopID      string    `db:"whop_id"     json:"whopId"`
	Title       string    `db:"title"       json:"title"`
	Description string    `db:"description" json:"description"`
	Code        *string   `db:"code"        json:"code"`
	Type        PromoType `db:"type"        json:"type"`
	Value       string    `db:"value"       json:"value"`
	CreatedAt   time.Time `db:"created_at"  json:"createdAt"`
}

// PromoCodeInput is the admin create/update payload.
type PromoCodeInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        *string   `json:"code"`
	Type        PromoType `json:"type"`
	Value       string    `json:"value"`
}
