package schedules

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда запись назначения не найдена
	ErrScheduleNotFound = errors.New("schedule entry not found")

	// ErrRoleNotFound возвращается, когда роль не найдена
	ErrRoleNotFound = errors.New("role not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrStaffInactive возвращается при назначении деактивированного сотрудника
	ErrStaffInactive = errors.New("staff member is inactive")

	// ErrStaffNotQualified возвращается, когда сотрудник не обслуживает
	// ни одну услугу роли
	ErrStaffNotQualified = errors.New("staff member is not qualified for the role")

	// ErrScheduleConflict возвращается, когда окно назначения пересекается
	// с другим назначением сотрудника на ту же дату
	ErrScheduleConflict = errors.New("schedule entry overlaps an existing assignment")

	// ErrAccessDenied возвращается, когда запись принадлежит другому вендору
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("invalid schedule status transition")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
