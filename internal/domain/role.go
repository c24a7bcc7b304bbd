package domain

import "time"

// Role is a staffing qualification bucket within a vendor, e.g. "Surf Instructor".
// DefaultCapacity limits concurrent non-cancelled bookings per time window
// unless a shift or exception overrides it.
type Role struct {
	ID              int64
	VendorID        int64
	Name            string
	DefaultCapacity int
	BookingItemIDs  []int64 // booking items this role is qualified to serve
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ServesItem returns true if the role is qualified for the booking item
func (r *Role) ServesItem(itemID int64) bool {
	for _, id := range r.BookingItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}
