package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ExceptionType classifies a date-specific schedule override
type ExceptionType string

const (
	ExceptionClosed        ExceptionType = "closed"
	ExceptionModifiedHours ExceptionType = "modified_hours"
	ExceptionSpecialEvent  ExceptionType = "special_event"
	ExceptionBlackout      ExceptionType = "blackout"
)

// ScheduleException is a date-scoped override of the normal shift templates.
// Empty RoleIDs and BookingItemIDs mean the exception applies vendor-wide;
// otherwise it matches when the role list intersects OR the item is listed.
type ScheduleException struct {
	ID             int64
	VendorID       int64
	Date           time.Time
	Type           ExceptionType
	RoleIDs        []int64
	BookingItemIDs []int64

	// Replacement window for MODIFIED_HOURS, both required with start < end
	StartTime *types.TimeString
	EndTime   *types.TimeString
	Capacity  *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsVendorWide returns true if the exception applies to the whole vendor
func (e *ScheduleException) IsVendorWide() bool {
	return len(e.RoleIDs) == 0 && len(e.BookingItemIDs) == 0
}

// Matches reports whether the exception affects any of the given roles
// or the given booking item
func (e *ScheduleException) Matches(roleIDs []int64, itemID int64) bool {
	if e.IsVendorWide() {
		return true
	}
	for _, affected := range e.RoleIDs {
		for _, id := range roleIDs {
			if affected == id {
				return true
			}
		}
	}
	for _, affected := range e.BookingItemIDs {
		if affected == itemID {
			return true
		}
	}
	return false
}

// Vetoes returns true if the exception forbids all slots and admissions
// for what it covers
func (e *ScheduleException) Vetoes() bool {
	return e.Type == ExceptionClosed || e.Type == ExceptionBlackout
}
