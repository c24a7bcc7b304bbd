package domain

import "time"

// TimeSlot represents a bookable time window for a role
type TimeSlot struct {
	StartAt   time.Time
	EndAt     time.Time
	RoleID    int64
	Capacity  int // effective capacity of the window
	Remaining int // capacity minus active overlapping bookings
}

// IsFull returns true if the slot has no remaining capacity
func (s *TimeSlot) IsFull() bool {
	return s.Remaining <= 0
}

// StaffAvailability describes a staff member able to take a booking,
// ranked by current load
type StaffAvailability struct {
	StaffID        int64
	Name           string
	ActiveBookings int
}

// ValidationResult is the outcome of validating a desired booking request.
// All fields are always present; Reason is empty when available.
type ValidationResult struct {
	IsAvailable       bool
	AvailableStaffIDs []int64
	Reason            string
	Alternatives      []TimeSlot
}

// WorkloadSummary is a day-level workload report for one staff member
type WorkloadSummary struct {
	StaffID         int64
	Date            time.Time
	ActiveBookings  int
	BookedMinutes   int
	ShiftMinutes    int
	Utilization     float64 // booked minutes / shift minutes, 0 when no shifts
	HourlyOccupancy [24]int // active bookings overlapping each hour of the day
}
