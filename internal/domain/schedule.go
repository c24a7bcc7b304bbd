package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ScheduleStatus represents the lifecycle of a staff schedule entry
type ScheduleStatus string

const (
	ScheduleDraft     ScheduleStatus = "draft"
	SchedulePublished ScheduleStatus = "published"
	ScheduleCancelled ScheduleStatus = "cancelled"
)

// StaffSchedule binds a role + concrete date + time window to one staff
// member. Entries are generated as drafts from RoleShift templates and only
// published entries are authoritative for resolving who covers a role.
type StaffSchedule struct {
	ID        int64
	RoleID    int64
	StaffID   int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Status    ScheduleStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPublished returns true if the entry is authoritative for coverage
func (s *StaffSchedule) IsPublished() bool {
	return s.Status == SchedulePublished
}

// CanTransitionTo validates a schedule status transition.
// draft -> published; draft/published -> cancelled.
func (s *StaffSchedule) CanTransitionTo(next ScheduleStatus) bool {
	switch next {
	case SchedulePublished:
		return s.Status == ScheduleDraft
	case ScheduleCancelled:
		return s.Status == ScheduleDraft || s.Status == SchedulePublished
	default:
		return false
	}
}

// OverlapsWindow reports whether the entry's window overlaps [start, end)
// on the same date. Touching boundaries do not count.
func (s *StaffSchedule) OverlapsWindow(start, end types.TimeString) bool {
	return s.StartTime.IsBefore(end) && s.EndTime.IsAfter(start)
}

// CoversWindow reports whether the entry's window fully contains [start, end)
func (s *StaffSchedule) CoversWindow(start, end types.TimeString) bool {
	return !start.IsBefore(s.StartTime) && !end.IsAfter(s.EndTime)
}
