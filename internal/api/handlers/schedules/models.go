package schedules

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ScheduleRequest HTTP request model записи назначения
type ScheduleRequest struct {
	RoleID    int64  `json:"roleId"`
	StaffID   int64  `json:"staffId"`
	Date      string `json:"date"`      // "YYYY-MM-DD"
	StartTime string `json:"startTime"` // "HH:MM"
	EndTime   string `json:"endTime"`   // "HH:MM"
	Status    string `json:"status,omitempty"`
}

// GenerateDraftsRequest HTTP request model генерации черновиков
type GenerateDraftsRequest struct {
	StaffIDs []int64 `json:"staffIds"`
	From     string  `json:"from"` // "YYYY-MM-DD"
	To       string  `json:"to"`   // "YYYY-MM-DD"
}

// PublishRequest HTTP request model публикации диапазона
type PublishRequest struct {
	From string `json:"from"` // "YYYY-MM-DD"
	To   string `json:"to"`   // "YYYY-MM-DD"
}

// ScheduleResponse HTTP модель записи назначения
type ScheduleResponse struct {
	ID        int64  `json:"id"`
	RoleID    int64  `json:"roleId"`
	StaffID   int64  `json:"staffId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// SchedulesListResponse HTTP модель списка назначений
type SchedulesListResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
}

// PublishResponse HTTP модель результата публикации
type PublishResponse struct {
	Published int64 `json:"published"`
}

// ToDomain конвертирует HTTP запрос в доменную модель
func (r *ScheduleRequest) ToDomain(entryID int64) (*domain.StaffSchedule, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	status := domain.ScheduleDraft
	if r.Status != "" {
		status = domain.ScheduleStatus(r.Status)
	}

	return &domain.StaffSchedule{
		ID:        entryID,
		RoleID:    r.RoleID,
		StaffID:   r.StaffID,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
		Status:    status,
	}, nil
}

// FromDomain конвертирует доменную модель в HTTP response
func FromDomain(entry *domain.StaffSchedule) ScheduleResponse {
	return ScheduleResponse{
		ID:        entry.ID,
		RoleID:    entry.RoleID,
		StaffID:   entry.StaffID,
		Date:      entry.Date.Format(domain.DateFormat),
		StartTime: entry.StartTime.String(),
		EndTime:   entry.EndTime.String(),
		Status:    string(entry.Status),
		CreatedAt: entry.CreatedAt.Format(time.RFC3339),
		UpdatedAt: entry.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainList конвертирует список доменных моделей в HTTP response
func FromDomainList(entries []*domain.StaffSchedule) *SchedulesListResponse {
	result := make([]ScheduleResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, FromDomain(entry))
	}
	return &SchedulesListResponse{Schedules: result}
}
