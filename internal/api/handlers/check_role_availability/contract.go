package check_role_availability

import (
	"context"

	checkRole "github.com/m04kA/SMC-SchedulingService/internal/usecase/check_role_availability"
)

type CheckRoleAvailabilityUseCase interface {
	Execute(ctx context.Context, req *checkRole.Request) (*checkRole.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
