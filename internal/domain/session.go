package domain

import "time"

// CheckoutSession is the server-held, in-progress selection of one customer.
type CheckoutSession struct {
	ID        string        `json:"id"`
	TourID    string        `json:"tourId"`
	Selection TourSelection `json:"selection"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
