package valueobjects

import (
	"regexp"
	"strings"

	"github.com/rafabene/marketplace-backend/internal/domain/errors"
)

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9\-]+(\.[a-z0-9\-]+)*\.[a-z]{2,}$`)

// Email é um endereço normalizado (minúsculo, sem espaços) e já validado
type Email struct {
	value string
}

// NewEmail valida e normaliza o endereço; falhas retornam errors.ErrInvalidEmail
func NewEmail(raw string) (Email, error) {
	addr := strings.ToLower(strings.TrimSpace(raw))
	if len(addr) > 254 || !emailPattern.MatchString(addr) {
		return Email{}, errors.ErrInvalidEmail
	}
	local, _, _ := strings.Cut(addr, "@")
	if len(local) > 64 || strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return Email{}, errors.ErrInvalidEmail
	}
	return Email{value: addr}, nil
}

func (e Email) String() string {
	return e.value
}

// Domain retorna a parte após o @
func (e Email) Domain() string {
	_, domain, _ := strings.Cut(e.value, "@")
	return domain
}
