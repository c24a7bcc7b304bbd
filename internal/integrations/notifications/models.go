package notifications

import "time"

// BookingEvent событие изменения бронирования
type BookingEvent struct {
	BookingID  int64     `json:"booking_id"`
	VendorID   int64     `json:"vendor_id"`
	CustomerID int64     `json:"customer_id"`
	StaffID    *int64    `json:"staff_id,omitempty"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	StartAt    time.Time `json:"start_at"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Routing keys событий бронирования
const (
	EventBookingCreated     = "booking.created"
	EventBookingStatus      = "booking.status_changed"
	EventBookingReassigned  = "booking.reassigned"
	EventBookingRescheduled = "booking.rescheduled"
)
