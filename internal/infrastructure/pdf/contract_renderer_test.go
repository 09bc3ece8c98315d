package pdf_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/partnerhub/internal/application/ports"
	"github.com/jhoicas/partnerhub/internal/infrastructure/pdf"
)

func sampleDoc() ports.ContractDocument {
	return ports.ContractDocument{
		ContractID:    "3f2a9c1e-0000-4000-8000-000000000000",
		Type:          "Partnership",
		Details:       "Clause one.\n\nClause two with a longer paragraph that wraps over the estimated line width of the page.",
		CreatorName:   "Alpha LLC",
		CreatorINN:    "1111111111",
		RecipientName: "Beta LLC",
		RecipientINN:  "2222222222",
		CreatedAt:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRender_GeneraPDF(t *testing.T) {
	out, err := pdf.NewContractRenderer("").Render(context.Background(), sampleDoc())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un PDF")
}

func TestRender_FuenteInexistente(t *testing.T) {
	r := pdf.NewContractRenderer(filepath.Join(t.TempDir(), "nope.ttf"))
	_, err := r.Render(context.Background(), sampleDoc())
	assert.ErrorContains(t, err, "cargar fuente")
}
