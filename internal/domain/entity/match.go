package entity

import "time"

// Like arista dirigida de interés entre organizaciones (append-only).
type Like struct {
	ID        string
	FromOrgID string
	ToOrgID   string
	CreatedAt time.Time
}

// Match par no dirigido creado al detectar interés mutuo.
type Match struct {
	ID        string
	Org1ID    string
	Org2ID    string
	IsActive  bool
	CreatedAt time.Time
}

// NewMatch construye un match normalizando el par (org1 < org2) para que
// el mismo par no ordenado tenga siempre la misma representación.
func NewMatch(id, a, b string, at time.Time) *Match {
	if b < a {
		a, b = b, a
	}
	return &Match{ID: id, Org1ID: a, Org2ID: b, IsActive: true, CreatedAt: at}
}

// Partner devuelve el otro extremo del match respecto a orgID.
func (m *Match) Partner(orgID string) string {
	if m.Org1ID == orgID {
		return m.Org2ID
	}
	return m.Org1ID
}
