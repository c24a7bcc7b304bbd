package find_available_staff

import "time"

// Request модель запроса поиска доступных сотрудников
type Request struct {
	VendorID      int64     // ID вендора
	BookingItemID int64     // ID услуги из каталога
	StartAt       time.Time // Начало интервала
}

// Candidate доступный сотрудник в ответе
type Candidate struct {
	StaffID        int64  // ID сотрудника
	Name           string // Имя сотрудника
	RoleID         int64  // Роль, по назначению которой сотрудник доступен
	ActiveBookings int    // Текущая загрузка (активные записи календаря)
}

// Response модель ответа со списком кандидатов
// Кандидаты отсортированы по возрастанию загрузки, при равной загрузке
// по возрастанию ID
type Response struct {
	Candidates []Candidate
}
