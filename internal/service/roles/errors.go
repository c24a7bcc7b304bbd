package roles

import "errors"

var (
	// ErrRoleNotFound возвращается, когда роль не найдена
	ErrRoleNotFound = errors.New("role not found")

	// ErrAccessDenied возвращается, когда роль принадлежит другому вендору
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
