package catalogservice

import "errors"

var (
	// ErrItemNotFound возвращается, когда услуга не найдена в каталоге
	ErrItemNotFound = errors.New("booking item not found in catalog")

	// ErrVendorNotFound возвращается, когда вендор не найден в каталоге
	ErrVendorNotFound = errors.New("vendor not found in catalog")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalogservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")
)
