package get_staff_slots

import (
	"context"

	getStaffSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_staff_slots"
)

type GetStaffSlotsUseCase interface {
	Execute(ctx context.Context, req *getStaffSlots.Request) (*getStaffSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
