package services

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
	"github.com/rafabene/marketplace-backend/internal/domain/valueobjects"
)

// ProfileService contém a lógica de negócio dos perfis.
// As identidades vêm do provedor de autenticação; aqui só guardamos o perfil.
type ProfileService struct {
	userRepo repositories.UserRepository
	logger   ports.Logger
	adminIDs map[string]bool
}

// NewProfileService cria um novo ProfileService.
// adminIDs lista sujeitos do provedor que sempre recebem o papel admin.
func NewProfileService(
	userRepo repositories.UserRepository,
	logger ports.Logger,
	adminIDs []string,
) *ProfileService {
	admins := make(map[string]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	return &ProfileService{
		userRepo: userRepo,
		logger:   logger,
		adminIDs: admins,
	}
}

// EnsureProfile cria o perfil no primeiro acesso autenticado
func (s *ProfileService) EnsureProfile(ctx context.Context, subject, email, name, role string) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, subject)
	if err != nil {
		return nil, err
	}

	if user != nil {
		if s.adminIDs[subject] && user.Role != entities.RoleAdmin {
			user.Role = entities.RoleAdmin
			user.UpdatedAt = time.Now()
			if err := s.userRepo.Update(ctx, user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}

	validEmail, err := valueobjects.NewEmail(email)
	if err != nil {
		return nil, errors.ErrInvalidEmail
	}

	user = &entities.User{
		ID:    subject,
		Email: validEmail,
		Name:  displayName(name, validEmail.String()),
		Role:  entities.Role(role),
	}
	if !user.Role.IsValid() {
		user.Role = entities.RoleUser
	}
	if s.adminIDs[subject] {
		user.Role = entities.RoleAdmin
	}

	s.logger.Info("creating profile", "user_id", subject, "role", user.Role)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if !stdErrors.Is(err, errors.ErrConflict) {
			return nil, err
		}
		// Outra requisição pode ter criado o perfil em paralelo
		existing, findErr := s.userRepo.FindByID(ctx, subject)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			// ID ocupado por perfil removido, ou email de outro perfil
			if other, _ := s.userRepo.FindByEmail(ctx, validEmail.String()); other != nil {
				return nil, errors.ErrEmailAlreadyExists
			}
			return nil, errors.ErrForbidden
		}
		return existing, nil
	}

	return user, nil
}

// GetProfile busca um perfil por ID
func (s *ProfileService) GetProfile(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfileInput contém os campos editáveis do próprio perfil
type UpdateProfileInput struct {
	Name      *string
	Bio       *string
	Location  *string
	AvatarURL *string
}

// UpdateProfile altera o perfil do usuário autenticado
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entities.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Location != nil {
		user.Location = *input.Location
	}
	if input.AvatarURL != nil {
		if *input.AvatarURL == "" {
			user.AvatarURL = nil
		} else {
			user.AvatarURL = input.AvatarURL
		}
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListProfiles lista perfis com filtros (somente admin)
func (s *ProfileService) ListProfiles(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, error) {
	return s.userRepo.List(ctx, filters)
}

// DeleteProfile remove (soft delete) um perfil
func (s *ProfileService) DeleteProfile(ctx context.Context, id string) error {
	if _, err := s.GetProfile(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deleting profile", "user_id", id)
	return s.userRepo.Delete(ctx, id)
}

// displayName usa o nome da claim ou a parte local do email
func displayName(name, email string) string {
	name = strings.TrimSpace(name)
	if len(name) >= 2 {
		return name
	}
	local, _, _ := strings.Cut(email, "@")
	if len(local) >= 2 {
		return local
	}
	return "user"
}
