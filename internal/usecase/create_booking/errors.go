package create_booking

import "errors"

var (
	// ErrItemNotFound возвращается, когда услуга не найдена в каталоге
	ErrItemNotFound = errors.New("create_booking: booking item not found")

	// ErrItemVendorMismatch возвращается, когда услуга принадлежит другому вендору
	ErrItemVendorMismatch = errors.New("create_booking: booking item belongs to another vendor")

	// ErrInvalidDate возвращается при попытке бронировать в прошлом
	ErrInvalidDate = errors.New("create_booking: booking start is in the past")

	// ErrInvalidTimeSlot возвращается, когда время не кратно шагу слотов
	ErrInvalidTimeSlot = errors.New("create_booking: start time is not aligned to the slot stride")

	// ErrVendorClosed возвращается, когда дата закрыта исключением расписания
	ErrVendorClosed = errors.New("create_booking: vendor is closed on this date")

	// ErrOutsideShift возвращается, когда интервал не попадает ни в одну смену
	ErrOutsideShift = errors.New("create_booking: requested time is outside of any shift window")

	// ErrSlotNotAvailable возвращается, когда вместимость всех ролей исчерпана
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrStaffUnavailable возвращается, когда запрошенный сотрудник
	// не назначен, не квалифицирован или занят в это время
	ErrStaffUnavailable = errors.New("create_booking: requested staff member is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
