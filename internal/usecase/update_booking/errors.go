package update_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("update_booking: booking not found")

	// ErrBookingNotActive возвращается при попытке перенести завершенное
	// или отмененное бронирование
	ErrBookingNotActive = errors.New("update_booking: booking is not active")

	// ErrInvalidDate возвращается при попытке перенести в прошлое
	ErrInvalidDate = errors.New("update_booking: new start is in the past")

	// ErrInvalidTimeSlot возвращается, когда время не кратно шагу слотов
	ErrInvalidTimeSlot = errors.New("update_booking: start time is not aligned to the slot stride")

	// ErrVendorClosed возвращается, когда новая дата закрыта исключением расписания
	ErrVendorClosed = errors.New("update_booking: vendor is closed on this date")

	// ErrOutsideShift возвращается, когда новый интервал не попадает ни в одну смену
	ErrOutsideShift = errors.New("update_booking: requested time is outside of any shift window")

	// ErrSlotNotAvailable возвращается, когда вместимость всех ролей исчерпана
	ErrSlotNotAvailable = errors.New("update_booking: slot is not available")

	// ErrStaffUnavailable возвращается, когда запрошенный сотрудник
	// не назначен, не квалифицирован или занят в новое время
	ErrStaffUnavailable = errors.New("update_booking: requested staff member is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
)
