package check_role_availability

import "time"

// Request модель запроса проверки вместимости роли
type Request struct {
	VendorID int64     // ID вендора
	RoleID   int64     // ID роли
	StartAt  time.Time // Начало интервала
	EndAt    time.Time // Конец интервала
}

// Response отчет о вместимости роли на интервале
type Response struct {
	RoleID    int64  // ID роли
	Available bool   // Есть ли свободная вместимость на весь интервал
	Capacity  int    // Действующая вместимость покрывающего окна
	Booked    int    // Активные бронирования, пересекающие интервал
	Remaining int    // Свободный остаток
	Reason    string // Причина недоступности, иначе пустая строка
}
