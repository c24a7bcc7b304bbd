package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// RoleShift is a recurring weekly availability template for a role:
// on DayOfWeek the role may be staffed between StartTime and EndTime.
// Multiple shifts per role/day are legal and model extra capacity windows.
// Deleting a shift never invalidates bookings already made under it.
type RoleShift struct {
	ID             int64
	RoleID         int64
	VendorID       int64
	DayOfWeek      int // 0 = Sunday ... 6 = Saturday
	StartTime      types.TimeString
	EndTime        types.TimeString
	Capacity       *int    // nil = inherit the role's default capacity
	BookingItemIDs []int64 // empty = all items the role is qualified for
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EffectiveCapacity resolves the capacity for this shift window
func (s *RoleShift) EffectiveCapacity(roleDefault int) int {
	if s.Capacity != nil {
		return *s.Capacity
	}
	return roleDefault
}

// AppliesToItem returns true if the shift serves the booking item.
// An empty item list means the shift serves everything the role serves.
func (s *RoleShift) AppliesToItem(itemID int64) bool {
	if len(s.BookingItemIDs) == 0 {
		return true
	}
	for _, id := range s.BookingItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

// Contains reports whether [start, end) lies entirely within the shift window.
// A booking that would start before the window opens or end after it closes
// is excluded, never clipped.
func (s *RoleShift) Contains(start, end types.TimeString) bool {
	return !start.IsBefore(s.StartTime) && !end.IsAfter(s.EndTime)
}

// OverlapsWindow reports whether the shift window overlaps [start, end)
// on the same day of week. Touching boundaries do not count.
func (s *RoleShift) OverlapsWindow(start, end types.TimeString) bool {
	return s.StartTime.IsBefore(end) && s.EndTime.IsAfter(start)
}
