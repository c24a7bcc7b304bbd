package domain

import "time"

// StaffMember represents vendor personnel. The staff member owns its
// concrete working shifts and its calendar of assigned bookings; every
// "is this person busy at time T" question is answered from these records.
type StaffMember struct {
	ID               int64
	VendorID         int64
	Name             string
	QualifiedItemIDs []int64
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Loaded by the repository together with the staff member
	Shifts   []StaffShift
	Bookings []StaffBooking
}

// IsQualified returns true if the staff member may serve the booking item
func (s *StaffMember) IsQualified(itemID int64) bool {
	for _, id := range s.QualifiedItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

// HasCoveringShift returns true if some working shift fully contains [start, end)
func (s *StaffMember) HasCoveringShift(start, end time.Time) bool {
	for _, shift := range s.Shifts {
		if shift.Covers(start, end) {
			return true
		}
	}
	return false
}

// HasBookingConflict returns true if [start, end) overlaps an active calendar
// entry. excludeBookingID skips the booking's own entry when re-validating an
// update or a reassignment.
func (s *StaffMember) HasBookingConflict(start, end time.Time, excludeBookingID int64) bool {
	for _, b := range s.Bookings {
		if b.BookingID == excludeBookingID {
			continue
		}
		if !b.IsActive() {
			continue
		}
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// ActiveBookingCount returns the number of active calendar entries
func (s *StaffMember) ActiveBookingCount() int {
	count := 0
	for _, b := range s.Bookings {
		if b.IsActive() {
			count++
		}
	}
	return count
}

// StaffShift is a concrete working time window of a staff member on a
// specific date (not a weekly template)
type StaffShift struct {
	ID        int64
	StaffID   int64
	StartAt   time.Time
	EndAt     time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DurationMinutes returns the shift length in minutes
func (s *StaffShift) DurationMinutes() int {
	return int(s.EndAt.Sub(s.StartAt) / time.Minute)
}

// Covers reports whether the shift fully contains [start, end)
func (s *StaffShift) Covers(start, end time.Time) bool {
	return !start.Before(s.StartAt) && !end.After(s.EndAt)
}

// Overlaps reports whether the shift overlaps [start, end).
// Touching boundaries do not count.
func (s *StaffShift) Overlaps(start, end time.Time) bool {
	return s.StartAt.Before(end) && s.EndAt.After(start)
}

// StaffBooking is the materialized copy of a booking on the assigned staff
// member's calendar. The booking ledger stays the system of record; this
// record exists so conflict checks never join across the whole ledger.
type StaffBooking struct {
	ID        int64
	StaffID   int64
	BookingID int64
	StartAt   time.Time
	EndAt     time.Time
	Status    BookingStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the calendar entry blocks the time interval
func (b *StaffBooking) IsActive() bool {
	return b.Status != StatusCancelled
}

// Overlaps reports whether the entry truly overlaps [start, end)
func (b *StaffBooking) Overlaps(start, end time.Time) bool {
	return b.StartAt.Before(end) && b.EndAt.After(start)
}
