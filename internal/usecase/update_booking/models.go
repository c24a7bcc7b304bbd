package update_booking

import "time"

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID  int64     // ID бронирования
	CustomerID int64     // ID клиента (владелец бронирования)
	NewStartAt time.Time // Новое начало бронирования
	StaffID    *int64    // Желаемый сотрудник на новое время (опционально)
}

// Response модель ответа с перенесенным бронированием
type Response struct {
	ID              int64     // ID бронирования
	CustomerID      int64     // ID клиента
	VendorID        int64     // ID вендора
	RoleID          int64     // Роль, принявшая бронирование после переноса
	BookingItemID   int64     // ID услуги
	StaffID         *int64    // Назначенный сотрудник (nil, если не назначен)
	StartAt         time.Time // Новое начало бронирования
	DurationMinutes int       // Длительность в минутах
	Status          string    // Статус бронирования
	UpdatedAt       time.Time // Время обновления
}
