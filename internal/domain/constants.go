package domain

// Slot generation
const (
	// SlotStrideMinutes fixed stride between candidate slot starts
	SlotStrideMinutes = 30

	// AlternativeSearchDays how many following days are scanned for
	// alternative slots when a requested slot is unavailable
	AlternativeSearchDays = 7
)

// Staff shift rules
const (
	MinStaffShiftMinutes = 60  // 1 hour
	MaxStaffShiftMinutes = 720 // 12 hours
	MinShiftGapMinutes   = 30  // minimum gap between two shifts of one person
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// TimePreference partitions slots by time of day
type TimePreference string

const (
	PreferenceMorning   TimePreference = "morning"   // before 12:00
	PreferenceAfternoon TimePreference = "afternoon" // 12:00 - 17:00
	PreferenceEvening   TimePreference = "evening"   // from 17:00
)

// ActiveStatuses are statuses that occupy capacity
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// Reason strings surfaced to clients by the availability engine
const (
	ReasonNoSlots           = "No available time slots found"
	ReasonCapacityExhausted = "Role is already at capacity for this time slot"
	ReasonVendorClosed      = "Vendor is closed on this date"
	ReasonStaffUnavailable  = "Requested staff member is not available"
	ReasonOutsideShift      = "Requested time is outside of any shift window"
)
