package find_available_staff

import (
	"context"

	findStaff "github.com/m04kA/SMC-SchedulingService/internal/usecase/find_available_staff"
)

type FindAvailableStaffUseCase interface {
	Execute(ctx context.Context, req *findStaff.Request) (*findStaff.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
