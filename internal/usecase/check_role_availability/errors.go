package check_role_availability

import "errors"

var (
	// ErrRoleNotFound возвращается, когда роль не найдена
	ErrRoleNotFound = errors.New("check_role_availability: role not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_role_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_role_availability: internal error")
)
