package dto

import "time"

// StatsResponse estadísticas del panel de administración.
type StatsResponse struct {
	TotalUsers       int    `json:"total_users"`
	TotalOrgs        int    `json:"total_orgs"`
	VerifiedOrgs     int    `json:"verified_orgs"`
	PendingOrgs      int    `json:"pending_orgs"`
	TotalMatches     int    `json:"total_matches"`
	VerifiedShare    string `json:"verified_share"`     // porcentaje, 2 decimales
	MatchesPerVerOrg string `json:"matches_per_verified"` // matches / organizaciones verificadas
}

// LogResponse entrada de auditoría.
type LogResponse struct {
	ID        string         `json:"id"`
	UserID    *string        `json:"user_id,omitempty"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
