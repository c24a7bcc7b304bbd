package availability

import "errors"

var (
	// ErrNoRoles возвращается, когда услугу не обслуживает ни одна роль вендора
	ErrNoRoles = errors.New("no role serves the booking item")

	// ErrVendorClosed возвращается, когда дата закрыта исключением расписания
	ErrVendorClosed = errors.New("vendor is closed on this date")

	// ErrOutsideShift возвращается, когда запрошенное окно не попадает
	// ни в одну действующую смену
	ErrOutsideShift = errors.New("requested window is outside of any shift")

	// ErrCapacityExhausted возвращается, когда вместимость окна исчерпана
	ErrCapacityExhausted = errors.New("role capacity is exhausted for the window")

	// ErrStaffNotFound возвращается, когда сотрудник не найден у вендора
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
