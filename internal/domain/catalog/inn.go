package catalog

import (
	"fmt"
	"strings"

	"github.com/jhoicas/partnerhub/internal/domain"
)

// NormalizeINN recorta espacios y valida que el ИНН tenga solo dígitos y longitud 10 o 12.
func NormalizeINN(raw string) (string, error) {
	inn := strings.TrimSpace(raw)
	if len(inn) != 10 && len(inn) != 12 {
		return "", fmt.Errorf("%w: ИНН должен содержать 10 или 12 цифр", domain.ErrInvalidInput)
	}
	for _, r := range inn {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: ИНН должен содержать 10 или 12 цифр", domain.ErrInvalidInput)
		}
	}
	return inn, nil
}
