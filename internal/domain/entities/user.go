package entities

import (
	"strings"
	"time"

	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/valueobjects"
)

const (
	maxProfileName = 100
	maxProfileBio  = 1000
)

// User é o perfil local de quem se autentica no provedor hospedado.
// ID é o "sub" do token; não existe senha armazenada aqui.
type User struct {
	ID        string
	Email     valueobjects.Email
	Name      string
	Role      Role
	AvatarURL *string
	Bio       string
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// HasPermission verifica se o papel do usuário concede a permissão
func (u *User) HasPermission(permission Permission) bool {
	return u.Role.HasPermission(permission)
}

// GetPermissions lista as permissões do papel como strings (formato da API)
func (u *User) GetPermissions() []string {
	perms := u.Role.GetPermissions()
	result := make([]string, len(perms))
	for i, p := range perms {
		result[i] = string(p)
	}
	return result
}

// Validate confere os campos editáveis do perfil
func (u *User) Validate() error {
	name := strings.TrimSpace(u.Name)
	switch {
	case u.Email.String() == "":
		return errors.ErrInvalidEmail
	case len(name) < 2:
		return errors.Wrap(errors.ErrInvalidInput, "name must be at least 2 characters")
	case len(name) > maxProfileName:
		return errors.Wrap(errors.ErrInvalidInput, "name must be at most 100 characters")
	case len(u.Bio) > maxProfileBio:
		return errors.Wrap(errors.ErrInvalidInput, "bio must be at most 1000 characters")
	case !u.Role.IsValid():
		return errors.Wrap(errors.ErrInvalidInput, "invalid role")
	}
	return nil
}
