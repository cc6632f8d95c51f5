package models

import "time"

// ActionType tags a tracking event.
type ActionType string

const (
	ActionCodeReveal ActionType = "code_reveal"
	ActionOfferClick ActionType = "offer_click"
)

// Valid reports whether a is a known action.
func (a ActionType) Valid() bool {
	return a == ActionCodeReveal || a == ActionOfferClick
}

// TrackingEvent is an append-only record of a user action.
type TrackingEvent struct {
	ID          string     `db:"id"            json:"id"`
	WhopID      string     `db:"whop_id"       json:"whopId"`
	PromoCodeID *string    `db:"promo_code_id" json:"promoCodeId,omitempty"`
	ActionType  ActionType `db:"action_type"   json:"actionType"`
	CreatedAt   time.Time  `db:"created_at"    json:"createdAt"`
}

// TrackingEventRow is a tracking event joined with the whop name for reporting.
type TrackingEventRow struct {
	TrackingEvent
	WhopName string `db:"whop_name" json:"whopName"`
}
