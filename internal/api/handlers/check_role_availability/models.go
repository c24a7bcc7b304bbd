package check_role_availability

import (
	checkRole "github.com/m04kA/SMC-SchedulingService/internal/usecase/check_role_availability"
)

// RoleAvailabilityResponse HTTP response model
type RoleAvailabilityResponse struct {
	RoleID    int64  `json:"roleId"`
	Available bool   `json:"available"`
	Capacity  int    `json:"capacity"`
	Booked    int    `json:"booked"`
	Remaining int    `json:"remaining"`
	Reason    string `json:"reason,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkRole.Response) *RoleAvailabilityResponse {
	return &RoleAvailabilityResponse{
		RoleID:    resp.RoleID,
		Available: resp.Available,
		Capacity:  resp.Capacity,
		Booked:    resp.Booked,
		Remaining: resp.Remaining,
		Reason:    resp.Reason,
	}
}
