package reassign_booking

import "time"

// Request модель запроса переназначения бронирования
type Request struct {
	BookingID  int64  // ID бронирования
	VendorID   int64  // ID вендора (проверка принадлежности)
	NewStaffID int64  // Новый исполнитель
	ChangedBy  string // Инициатор переназначения
}

// Response модель ответа с переназначенным бронированием
type Response struct {
	BookingID  int64     // ID бронирования
	OldStaffID *int64    // Прежний исполнитель (nil, если не был назначен)
	NewStaffID int64     // Новый исполнитель
	StartAt    time.Time // Начало бронирования
	Status     string    // Статус бронирования
}
