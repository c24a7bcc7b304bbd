package find_available_staff

import "errors"

var (
	// ErrItemNotFound возвращается, когда услуга не найдена в каталоге
	ErrItemNotFound = errors.New("find_available_staff: booking item not found")

	// ErrItemVendorMismatch возвращается, когда услуга принадлежит другому вендору
	ErrItemVendorMismatch = errors.New("find_available_staff: booking item belongs to another vendor")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("find_available_staff: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("find_available_staff: internal error")
)
