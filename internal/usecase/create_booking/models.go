package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID    int64     // ID клиента
	VendorID      int64     // ID вендора
	BookingItemID int64     // ID услуги из каталога
	StartAt       time.Time // Начало бронирования
	StaffID       *int64    // Желаемый сотрудник (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64     // ID созданного бронирования
	CustomerID      int64     // ID клиента
	VendorID        int64     // ID вендора
	RoleID          int64     // Роль, принявшая бронирование
	BookingItemID   int64     // ID услуги
	StaffID         *int64    // Назначенный сотрудник (nil, если не назначен)
	StartAt         time.Time // Начало бронирования
	DurationMinutes int       // Длительность в минутах
	Status          string    // Статус бронирования

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
