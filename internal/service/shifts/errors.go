package shifts

import "errors"

var (
	// ErrShiftNotFound возвращается, когда шаблон смены не найден
	ErrShiftNotFound = errors.New("role shift not found")

	// ErrRoleNotFound возвращается, когда роль не найдена
	ErrRoleNotFound = errors.New("role not found")

	// ErrAccessDenied возвращается, когда смена принадлежит другому вендору
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrItemNotServed возвращается, когда услуга смены не входит в список роли
	ErrItemNotServed = errors.New("booking item is not served by the role")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
