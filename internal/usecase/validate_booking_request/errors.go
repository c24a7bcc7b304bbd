package validate_booking_request

import "errors"

var (
	// ErrItemNotFound возвращается, когда услуга не найдена в каталоге
	ErrItemNotFound = errors.New("validate_booking_request: booking item not found")

	// ErrItemVendorMismatch возвращается, когда услуга принадлежит другому вендору
	ErrItemVendorMismatch = errors.New("validate_booking_request: booking item belongs to another vendor")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("validate_booking_request: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("validate_booking_request: internal error")
)
