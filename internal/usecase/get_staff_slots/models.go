package get_staff_slots

import "time"

// Request модель запроса слотов сотрудника
type Request struct {
	VendorID        int64     // ID вендора
	StaffID         int64     // ID сотрудника
	Date            time.Time // Дата (без времени)
	DurationMinutes int       // Длительность слота, по умолчанию 30 минут
}

// Slot один свободный интервал сотрудника
type Slot struct {
	StartAt time.Time // Начало слота
	EndAt   time.Time // Конец слота
}

// Response модель ответа со слотами сотрудника
type Response struct {
	VendorID        int64  // ID вендора
	StaffID         int64  // ID сотрудника
	Date            string // Дата в формате YYYY-MM-DD
	DurationMinutes int    // Длительность слота
	Slots           []Slot // Слоты по возрастанию времени начала
	Reason          string // Причина пустого списка, иначе пустая строка
}
