package staff

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// StaffRepository интерфейс репозитория персонала
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffMember) (*domain.StaffMember, error)
	GetByID(ctx context.Context, id int64) (*domain.StaffMember, error)
	GetByVendor(ctx context.Context, vendorID int64) ([]*domain.StaffMember, error)
	Update(ctx context.Context, staff *domain.StaffMember) error
	ReplaceQualifications(ctx context.Context, staffID int64, itemIDs []int64) error
	AddShift(ctx context.Context, shift *domain.StaffShift) (*domain.StaffShift, error)
	UpdateShift(ctx context.Context, shift *domain.StaffShift) error
	DeleteShift(ctx context.Context, staffID, shiftID int64) error
	GetShifts(ctx context.Context, staffID int64) ([]domain.StaffShift, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
