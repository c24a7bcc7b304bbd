package staff

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type StaffService interface {
	Create(ctx context.Context, staff *domain.StaffMember) (*domain.StaffMember, error)
	GetByID(ctx context.Context, vendorID, staffID int64) (*domain.StaffMember, error)
	GetByVendor(ctx context.Context, vendorID int64) ([]*domain.StaffMember, error)
	Update(ctx context.Context, staff *domain.StaffMember) (*domain.StaffMember, error)
	AddShift(ctx context.Context, vendorID int64, shift *domain.StaffShift) (*domain.StaffShift, error)
	UpdateShift(ctx context.Context, vendorID int64, shift *domain.StaffShift) (*domain.StaffShift, error)
	DeleteShift(ctx context.Context, vendorID, staffID, shiftID int64) error
	ReplaceShifts(ctx context.Context, vendorID, staffID int64, shifts []*domain.StaffShift) ([]*domain.StaffShift, error)
	Workload(ctx context.Context, vendorID, staffID int64, date time.Time) (*domain.WorkloadSummary, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
