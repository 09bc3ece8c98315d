package entity

import "time"

// Mentor perfil de mentor (1:1 con un User de rol mentor).
type Mentor struct {
	ID          string
	UserID      string
	Name        string
	Expertise   string
	Experience  string
	ContactInfo string
	IsAvailable bool
	CreatedAt   time.Time
}
