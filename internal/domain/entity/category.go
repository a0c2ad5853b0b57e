package entity

import "time"

// Category agrupa productos del catálogo. Name es único sin distinguir mayúsculas.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
