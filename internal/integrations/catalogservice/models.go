package catalogservice

// BookingItem модель услуги из каталога
type BookingItem struct {
	ID              int64   `json:"id"`
	VendorID        int64   `json:"vendor_id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	Active          bool    `json:"active"`
}

// Vendor модель вендора из каталога
type Vendor struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
	Active   bool   `json:"active"`
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
