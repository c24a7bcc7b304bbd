package exceptions

import "errors"

var (
	// ErrExceptionNotFound возвращается, когда исключение не найдено
	ErrExceptionNotFound = errors.New("schedule exception not found")

	// ErrAccessDenied возвращается, когда исключение принадлежит другому вендору
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrForeignScope возвращается, когда исключение ссылается на роль
	// или услугу чужого вендора
	ErrForeignScope = errors.New("exception scope references another vendor")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
