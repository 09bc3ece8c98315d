package entity

import "time"

// Tipos de recurso publicados por administradores.
const (
	ResourceCourse      = "course"
	ResourceCompetition = "competition"
)

// Resource curso o concurso; IsActive implementa el borrado lógico.
type Resource struct {
	ID        string
	Type      string
	Title     string
	Content   string
	Deadline  string // solo concursos
	Link      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
