package roleshift

import "errors"

var (
	// ErrShiftNotFound возвращается, когда шаблон смены не найден
	ErrShiftNotFound = errors.New("roleshift.repository: shift not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("roleshift.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("roleshift.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("roleshift.repository: failed to scan row")
)
