package validate_booking_request

import "time"

// Request модель запроса предварительной проверки бронирования
type Request struct {
	VendorID      int64     // ID вендора
	BookingItemID int64     // ID услуги из каталога
	StartAt       time.Time // Желаемое начало
	StaffID       *int64    // Желаемый сотрудник (опционально)
}

// Alternative альтернативный слот в ответе
type Alternative struct {
	StartAt   time.Time // Начало слота
	EndAt     time.Time // Конец слота
	RoleID    int64     // Роль слота
	Remaining int       // Свободный остаток
}

// Response результат проверки
// Ответ всегда полный: при недоступности заполняются причина и альтернативы
type Response struct {
	IsAvailable       bool          // Можно ли принять бронирование
	AvailableStaffIDs []int64       // Сотрудники, способные принять бронирование
	Reason            string        // Причина недоступности, иначе пустая строка
	Alternatives      []Alternative // Ближайшие свободные слоты за следующие дни
}
