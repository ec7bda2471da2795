package dto

import (
	"time"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// UpdateProfileRequest representa a edição do próprio perfil
type UpdateProfileRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=2,max=100"`
	Bio       *string `json:"bio" binding:"omitempty,max=1000"`
	Location  *string `json:"location" binding:"omitempty,max=200"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
}

// ToInput converte a requisição para o input do serviço
func (r UpdateProfileRequest) ToInput() services.UpdateProfileInput {
	return services.UpdateProfileInput{
		Name:      r.Name,
		Bio:       r.Bio,
		Location:  r.Location,
		AvatarURL: r.AvatarURL,
	}
}

// ListProfilesQuery são os filtros de listagem de perfis (admin)
type ListProfilesQuery struct {
	Role string `form:"role" binding:"omitempty,oneof=admin user guest"`
	PageQuery
}

// ProfileResponse representa o perfil público de um usuário
type ProfileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MeResponse inclui os dados privados do próprio usuário
type MeResponse struct {
	ProfileResponse
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// AdminProfileResponse é a visão do administrador
type AdminProfileResponse struct {
	ProfileResponse
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ToProfileResponse converte uma entidade User para ProfileResponse
func ToProfileResponse(user *entities.User) ProfileResponse {
	return ProfileResponse{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Bio:       user.Bio,
		Location:  user.Location,
		CreatedAt: user.CreatedAt,
	}
}

// ToMeResponse converte o usuário autenticado
func ToMeResponse(user *entities.User) MeResponse {
	return MeResponse{
		ProfileResponse: ToProfileResponse(user),
		Email:           user.Email.String(),
		Role:            string(user.Role),
		Permissions:     user.GetPermissions(),
	}
}

// ToAdminProfileResponses converte uma lista de usuários para a visão do admin
func ToAdminProfileResponses(users []*entities.User) []AdminProfileResponse {
	responses := make([]AdminProfileResponse, len(users))
	for i, user := range users {
		responses[i] = AdminProfileResponse{
			ProfileResponse: ToProfileResponse(user),
			Email:           user.Email.String(),
			Role:            string(user.Role),
		}
	}
	return responses
}
