// Package catalogfile carga el catálogo de opciones desde un archivo TOML.
// Las tablas ausentes conservan los valores incorporados.
package catalogfile

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/jhoicas/partnerhub/internal/domain/catalog"
)

type fileCatalog struct {
	LegalForms         []string `toml:"legal_forms"`
	TurnoverRanges     []string `toml:"turnover_ranges"`
	CanGive            []string `toml:"can_give"`
	Need               []string `toml:"need"`
	InteractionFormats []string `toml:"interaction_formats"`
	PartnershipTypes   []string `toml:"partnership_types"`
	BlockedKeywords    []string `toml:"blocked_keywords"`
}

// Load devuelve el catálogo por defecto si path está vacío; si no, lo sobrescribe
// con las tablas definidas en el archivo y lo valida.
func Load(path string) (*catalog.Catalog, error) {
	cat := catalog.Default()
	if path == "" {
		return cat, nil
	}
	var raw fileCatalog
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("catalog: leer %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("catalog: claves desconocidas en %s: %v", path, undecoded)
	}
	if meta.IsDefined("legal_forms") {
		cat.LegalForms = raw.LegalForms
	}
	if meta.IsDefined("turnover_ranges") {
		cat.TurnoverRanges = raw.TurnoverRanges
	}
	if meta.IsDefined("can_give") {
		cat.CanGiveOptions = raw.CanGive
	}
	if meta.IsDefined("need") {
		cat.NeedOptions = raw.Need
	}
	if meta.IsDefined("interaction_formats") {
		cat.InteractionFormats = raw.InteractionFormats
	}
	if meta.IsDefined("partnership_types") {
		cat.PartnershipTypes = raw.PartnershipTypes
	}
	if meta.IsDefined("blocked_keywords") {
		cat.BlockedKeywords = raw.BlockedKeywords
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}
