// Package pdf genera la representación gráfica de los contratos entre organizaciones.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de contrato     │  N° + Fecha                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PARTE 1: Nombre + ИНН        │  PARTE 2: Nombre + ИНН      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONDICIONES: texto libre                                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS                                                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"

	"github.com/jhoicas/partnerhub/internal/application/ports"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const customFamily = "contract"

var _ ports.ContractRenderer = (*ContractRenderer)(nil)

// ── Renderer ──────────────────────────────────────────────────────────────────

// ContractRenderer implementa ports.ContractRenderer usando Maroto v2.
// Las fuentes base de PDF no tienen cirílico: con fontPath se registra una TTF UTF-8.
type ContractRenderer struct {
	fontPath string
}

// NewContractRenderer construye el renderer. fontPath vacío usa helvetica.
func NewContractRenderer(fontPath string) *ContractRenderer {
	return &ContractRenderer{fontPath: fontPath}
}

// Render genera el PDF del contrato y devuelve sus bytes.
func (g *ContractRenderer) Render(_ context.Context, doc ports.ContractDocument) ([]byte, error) {
	family := "helvetica"
	builder := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithTitle("Договор "+doc.ContractID, true).
		WithAuthor(doc.CreatorName, true)
	if g.fontPath != "" {
		fonts, err := repository.New().
			AddUTF8Font(customFamily, fontstyle.Normal, g.fontPath).
			AddUTF8Font(customFamily, fontstyle.Bold, g.fontPath).
			Load()
		if err != nil {
			return nil, fmt.Errorf("pdf: cargar fuente %s: %w", g.fontPath, err)
		}
		builder = builder.WithCustomFonts(fonts)
		family = customFamily
	}
	cfg := builder.WithDefaultFont(&props.Font{Family: family, Size: 10}).Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(detailRows(doc.Details)...)
	m.AddRows(line.NewRow(6))
	m.AddRows(signatureRow(doc))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(doc ports.ContractDocument) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("ДОГОВОР", props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(doc.Type, "—"), props.Text{Size: 10, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("№ "+shortID(doc.ContractID), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2,
			}),
			text.New("Дата: "+doc.CreatedAt.Format("02.01.2006"), props.Text{
				Size: 9, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func partiesRow(doc ports.ContractDocument) core.Row {
	party := func(title, name, inn string) core.Col {
		return col.New(6).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(name, "—"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New("ИНН: "+nonEmpty(inn, "—"), props.Text{Size: 9, Top: 12, Color: colorGray}),
		)
	}
	return row.New(20).Add(
		party("СТОРОНА 1", doc.CreatorName, doc.CreatorINN),
		party("СТОРОНА 2", doc.RecipientName, doc.RecipientINN),
	)
}

// detailRows: una fila por párrafo de las condiciones.
func detailRows(details string) []core.Row {
	rows := []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New("УСЛОВИЯ ДОГОВОРА", props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2}),
		)),
	}
	for _, p := range strings.Split(details, "\n") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		rows = append(rows, row.New(paragraphHeight(p)).Add(col.New(12).Add(
			text.New(p, props.Text{Size: 10, Top: 1, Align: align.Left}),
		)))
	}
	return rows
}

func signatureRow(doc ports.ContractDocument) core.Row {
	sign := func(name string) core.Col {
		return col.New(6).Add(
			text.New("_______________________", props.Text{Size: 10, Top: 8}),
			text.New(nonEmpty(name, "—"), props.Text{Size: 8, Top: 14, Color: colorGray}),
		)
	}
	return row.New(24).Add(sign(doc.CreatorName), sign(doc.RecipientName))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

// paragraphHeight estima la altura (mm) de un párrafo a ~95 caracteres por línea.
func paragraphHeight(p string) float64 {
	lines := len([]rune(p))/95 + 1
	return float64(lines)*5 + 2
}
