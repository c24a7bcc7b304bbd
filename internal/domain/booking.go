package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents a customer reservation against a role/booking item.
// The bookings table is the system of record for status and lifecycle;
// the assigned staff member carries a materialized calendar copy that is
// only ever written together with the ledger in one transaction.
type Booking struct {
	ID              int64
	VendorID        int64
	RoleID          int64
	BookingItemID   int64
	CustomerID      int64
	StaffID         *int64 // nil until a staff member is resolved
	StartAt         time.Time
	DurationMinutes int
	Status          BookingStatus

	// Status change audit
	StatusReason    *string
	StatusChangedAt *time.Time
	StatusChangedBy *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndAt returns the end of the booking interval
func (b *Booking) EndAt() time.Time {
	return b.StartAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// IsActive returns true if the booking counts toward role capacity.
// Every non-cancelled booking occupies capacity, including completed ones,
// since completion does not free the time interval retroactively.
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsTerminal returns true if the booking is in a terminal state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return !b.IsTerminal()
}

// CanBeUpdated returns true if the booking fields can still be changed
func (b *Booking) CanBeUpdated() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanTransitionTo validates a status transition.
// pending -> confirmed -> completed; cancellation from any non-terminal state.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	if b.IsTerminal() {
		return false
	}
	switch next {
	case StatusCancelled:
		return true
	case StatusConfirmed:
		return b.Status == StatusPending
	case StatusCompleted:
		return b.Status == StatusConfirmed || b.Status == StatusPending
	default:
		return false
	}
}

// Overlaps reports whether the booking interval truly overlaps [start, end).
// Touching boundaries do not count as overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartAt.Before(end) && b.EndAt().After(start)
}

// VendorBookingsFilter filters bookings of a vendor
type VendorBookingsFilter struct {
	VendorID        int64
	RoleID          *int64
	StaffID         *int64
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *BookingStatus
	IncludeInactive bool
}
