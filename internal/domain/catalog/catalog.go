// Package catalog contiene las tablas de opciones inmutables (formas jurídicas, rangos de
// facturación, capacidades, formatos) y la lista de moderación que consume el núcleo.
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// SelfEmployed forma jurídica que pide "сфера деятельности" en lugar de ОКВЭД.
const SelfEmployed = "Самозанятость"

// Catalog tablas de consulta cargadas al arrancar el proceso.
type Catalog struct {
	LegalForms         []string
	TurnoverRanges     []string
	CanGiveOptions     []string
	NeedOptions        []string
	InteractionFormats []string
	PartnershipTypes   []string
	BlockedKeywords    []string
}

// Default devuelve el catálogo incorporado.
func Default() *Catalog {
	capabilities := []string{
		"Финансирование", "Информационное", "Кадровое", "Идейное", "Площадка",
		"Совместный брендинг", "Кросс-продвижение", "Мероприятия",
		"Совместный контент", "Спонсорство", "Партнёрская программа",
	}
	return &Catalog{
		LegalForms:         []string{SelfEmployed, "ИП", "ООО", "ПАО", "Образовательная организация", "Иное"},
		TurnoverRanges:     []string{"До 3 млн", "4-10 млн", "11-20 млн", "21+ млн"},
		CanGiveOptions:     slices.Clone(capabilities),
		NeedOptions:        slices.Clone(capabilities),
		InteractionFormats: []string{"Очно", "Дистанционно"},
		PartnershipTypes:   []string{"Постоянное", "Разовое"},
		BlockedKeywords: []string{
			"игорн", "казино", "ставк", "букмекер", "алкоголь", "водка",
			"пиво", "вино", "табак", "сигарет", "табачн",
		},
	}
}

// Validate comprueba que ninguna tabla obligatoria esté vacía.
func (c *Catalog) Validate() error {
	tables := map[string][]string{
		"legal_forms":         c.LegalForms,
		"turnover_ranges":     c.TurnoverRanges,
		"can_give":            c.CanGiveOptions,
		"need":                c.NeedOptions,
		"interaction_formats": c.InteractionFormats,
		"partnership_types":   c.PartnershipTypes,
	}
	for name, values := range tables {
		if len(values) == 0 {
			return fmt.Errorf("catalog: tabla %s vacía", name)
		}
	}
	return nil
}

// IsBlocked indica si text contiene alguna palabra de la lista de moderación.
// La comparación usa plegado de mayúsculas Unicode (cirílico incluido).
func (c *Catalog) IsBlocked(text string) bool {
	folded := cases.Fold().String(text)
	for _, kw := range c.BlockedKeywords {
		if kw == "" {
			continue
		}
		if strings.Contains(folded, cases.Fold().String(kw)) {
			return true
		}
	}
	return false
}

// Has indica si value pertenece al conjunto de opciones.
func Has(options []string, value string) bool {
	return slices.Contains(options, value)
}
