package catalog

import "time"

// Project is the top-level grouping of products for one tracking effort.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product is a named article of merchandise, parent of SKCs and images.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	SKCCount  int       `json:"skc_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Image is an uploaded product photo. At most one image per product carries
// IsPrimary; the server enforces the exclusivity.
type Image struct {
	ID               int64     `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	IsPrimary        bool      `json:"is_primary"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

// Stats are the per-user entity counts shown on the dashboard header.
type Stats struct {
	ProjectCount int `json:"project_count"`
	ProductCount int `json:"product_count"`
	SKCCount     int `json:"skc_count"`
	ImageCount   int `json:"image_count"`
}
