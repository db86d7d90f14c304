package domain

// Slot is a bookable date/time with a capacity.
type Slot struct {
	ID       string `json:"id"`
	TourID   string `json:"tourId"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Capacity int    `json:"capacity"`
	Booked   int    `json:"booked"`
	Enabled  bool   `json:"enabled"`
}

// Remaining is the number of places still open on the slot.
func (s Slot) Remaining() int {
	return s.Capacity - s.Booked
}
