package find_available_staff

import (
	findStaff "github.com/m04kA/SMC-SchedulingService/internal/usecase/find_available_staff"
)

// CandidateResponse доступный сотрудник в HTTP ответе
type CandidateResponse struct {
	StaffID        int64  `json:"staffId"`
	Name           string `json:"name"`
	RoleID         int64  `json:"roleId"`
	ActiveBookings int    `json:"activeBookings"`
}

// CandidatesResponse HTTP response model
type CandidatesResponse struct {
	Candidates []CandidateResponse `json:"candidates"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *findStaff.Response) *CandidatesResponse {
	candidates := make([]CandidateResponse, 0, len(resp.Candidates))
	for _, c := range resp.Candidates {
		candidates = append(candidates, CandidateResponse{
			StaffID:        c.StaffID,
			Name:           c.Name,
			RoleID:         c.RoleID,
			ActiveBookings: c.ActiveBookings,
		})
	}

	return &CandidatesResponse{Candidates: candidates}
}
