package get_staff_slots

import "errors"

var (
	// ErrStaffNotFound возвращается, когда сотрудник не найден у вендора
	ErrStaffNotFound = errors.New("get_staff_slots: staff member not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_staff_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("get_staff_slots: internal error")
)
