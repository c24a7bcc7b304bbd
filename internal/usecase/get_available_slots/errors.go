package get_available_slots

import "errors"

var (
	// ErrItemNotFound возвращается, когда услуга не найдена в каталоге
	ErrItemNotFound = errors.New("get_available_slots: booking item not found")

	// ErrItemVendorMismatch возвращается, когда услуга принадлежит другому вендору
	ErrItemVendorMismatch = errors.New("get_available_slots: booking item belongs to another vendor")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
