package reassign_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reassign_booking: booking not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("reassign_booking: staff member not found")

	// ErrBookingNotActive возвращается при попытке переназначить
	// завершенное или отмененное бронирование
	ErrBookingNotActive = errors.New("reassign_booking: booking is not active")

	// ErrStaffNotEligible возвращается, когда сотрудник не подходит:
	// другой вендор, нет квалификации или нет покрывающего назначения
	ErrStaffNotEligible = errors.New("reassign_booking: staff member is not eligible")

	// ErrStaffConflict возвращается, когда календарь сотрудника занят
	// в интервале бронирования
	ErrStaffConflict = errors.New("reassign_booking: staff member has a conflicting booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reassign_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reassign_booking: internal error")
)
