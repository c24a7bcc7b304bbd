package staff

import "errors"

var (
	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrShiftNotFound возвращается, когда смена не найдена
	ErrShiftNotFound = errors.New("staff shift not found")

	// ErrAccessDenied возвращается, когда сотрудник принадлежит другому вендору
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrShiftTooShort возвращается, когда смена короче минимальной длительности
	ErrShiftTooShort = errors.New("shift is shorter than the minimum duration")

	// ErrShiftTooLong возвращается, когда смена длиннее максимальной длительности
	ErrShiftTooLong = errors.New("shift is longer than the maximum duration")

	// ErrShiftOverlap возвращается, когда смена пересекается с другой
	// или не соблюден минимальный перерыв между сменами
	ErrShiftOverlap = errors.New("shift overlaps another shift or violates the minimum gap")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
