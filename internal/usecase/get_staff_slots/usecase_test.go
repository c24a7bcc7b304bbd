package get_staff_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityService "github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

type mockAvailSvc struct {
	slots        []domain.TimeSlot
	reason       string
	err          error
	calls        int
	lastDuration int
}

func (m *mockAvailSvc) StaffDaySlots(ctx context.Context, vendorID, staffID int64, date time.Time, durationMinutes int) ([]domain.TimeSlot, string, error) {
	m.calls++
	m.lastDuration = durationMinutes
	if m.err != nil {
		return nil, "", m.err
	}
	return m.slots, m.reason, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var testDate = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return testDate.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func slot(startHour int) domain.TimeSlot {
	return domain.TimeSlot{
		StartAt:   at(startHour, 0),
		EndAt:     at(startHour+1, 0),
		Capacity:  1,
		Remaining: 1,
	}
}

func validRequest() *Request {
	return &Request{VendorID: 10, StaffID: 3, Date: testDate, DurationMinutes: 60}
}

func TestExecute_ReturnsStaffSlots(t *testing.T) {
	availSvc := &mockAvailSvc{slots: []domain.TimeSlot{slot(9), slot(10)}}
	uc := NewUseCase(availSvc, nopLogger{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.StaffID)
	assert.Equal(t, "2026-06-15", resp.Date)
	assert.Equal(t, 60, resp.DurationMinutes)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, at(9, 0), resp.Slots[0].StartAt)
	assert.Equal(t, at(10, 0), resp.Slots[0].EndAt)
	assert.Empty(t, resp.Reason)
}

func TestExecute_DefaultDurationIsStride(t *testing.T) {
	availSvc := &mockAvailSvc{}
	uc := NewUseCase(availSvc, nopLogger{})

	req := validRequest()
	req.DurationMinutes = 0

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, domain.SlotStrideMinutes, availSvc.lastDuration)
	assert.Equal(t, domain.SlotStrideMinutes, resp.DurationMinutes)
}

func TestExecute_ReasonPassedThrough(t *testing.T) {
	availSvc := &mockAvailSvc{reason: domain.ReasonStaffUnavailable}
	uc := NewUseCase(availSvc, nopLogger{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Empty(t, resp.Slots)
	assert.Equal(t, domain.ReasonStaffUnavailable, resp.Reason)
}

func TestExecute_StaffNotFound(t *testing.T) {
	availSvc := &mockAvailSvc{err: availabilityService.ErrStaffNotFound}
	uc := NewUseCase(availSvc, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestExecute_EngineFailure(t *testing.T) {
	availSvc := &mockAvailSvc{err: availabilityService.ErrInternal}
	uc := NewUseCase(availSvc, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"zero vendor id", func(req *Request) { req.VendorID = 0 }},
		{"zero staff id", func(req *Request) { req.StaffID = 0 }},
		{"missing date", func(req *Request) { req.Date = time.Time{} }},
		{"negative duration", func(req *Request) { req.DurationMinutes = -30 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			availSvc := &mockAvailSvc{}
			uc := NewUseCase(availSvc, nopLogger{})

			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, availSvc.calls)
		})
	}
}
