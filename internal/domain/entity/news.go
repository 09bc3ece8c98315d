package entity

import "time"

// News noticia publicada por una organización.
type News struct {
	ID             string
	OrganizationID string
	Title          string
	Content        string
	MediaIDs       []string
	ViewsCount     int
	CreatedAt      time.Time
}

// NewsItem noticia con el nombre de la organización autora (listados).
type NewsItem struct {
	News
	OrganizationName string
}
