package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса слотов доступности
type Request struct {
	VendorID         int64                  // ID вендора
	BookingItemID    int64                  // ID услуги из каталога
	Date             time.Time              // Дата (без времени)
	Preference       *domain.TimePreference // Фильтр по времени суток (опционально)
	ExcludeBookingID *int64                 // Исключить бронирование из подсчета (перенос)
}

// Slot один слот доступности в ответе
type Slot struct {
	StartAt   time.Time // Начало слота
	EndAt     time.Time // Конец слота
	RoleID    int64     // Роль, которая примет бронирование на этот слот
	Capacity  int       // Суммарная вместимость окна
	Remaining int       // Свободный остаток
}

// Response модель ответа со слотами
type Response struct {
	VendorID        int64  // ID вендора
	BookingItemID   int64  // ID услуги
	Date            string // Дата в формате YYYY-MM-DD
	DurationMinutes int    // Длительность услуги
	Slots           []Slot // Слоты по возрастанию времени начала
	Reason          string // Причина пустого списка, иначе пустая строка
}
