package roles

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// RoleRequest HTTP request model создания и обновления роли
type RoleRequest struct {
	Name            string  `json:"name"`
	DefaultCapacity int     `json:"defaultCapacity"`
	BookingItemIDs  []int64 `json:"bookingItemIds"`
	Active          *bool   `json:"active,omitempty"`
}

// RoleResponse HTTP модель роли
type RoleResponse struct {
	ID              int64   `json:"id"`
	VendorID        int64   `json:"vendorId"`
	Name            string  `json:"name"`
	DefaultCapacity int     `json:"defaultCapacity"`
	BookingItemIDs  []int64 `json:"bookingItemIds"`
	Active          bool    `json:"active"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// RolesListResponse HTTP модель списка ролей
type RolesListResponse struct {
	Roles []RoleResponse `json:"roles"`
}

// ToDomain конвертирует HTTP запрос в доменную модель
func (r *RoleRequest) ToDomain(vendorID, roleID int64) *domain.Role {
	active := true
	if r.Active != nil {
		active = *r.Active
	}

	return &domain.Role{
		ID:              roleID,
		VendorID:        vendorID,
		Name:            r.Name,
		DefaultCapacity: r.DefaultCapacity,
		BookingItemIDs:  r.BookingItemIDs,
		Active:          active,
	}
}

// FromDomain конвертирует доменную модель в HTTP response
func FromDomain(role *domain.Role) RoleResponse {
	return RoleResponse{
		ID:              role.ID,
		VendorID:        role.VendorID,
		Name:            role.Name,
		DefaultCapacity: role.DefaultCapacity,
		BookingItemIDs:  role.BookingItemIDs,
		Active:          role.Active,
		CreatedAt:       role.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       role.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainList конвертирует список доменных моделей в HTTP response
func FromDomainList(roles []*domain.Role) *RolesListResponse {
	result := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		result = append(result, FromDomain(role))
	}
	return &RolesListResponse{Roles: result}
}
