package services_test

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/logging"
	"github.com/rafabene/marketplace-backend/internal/services"
)

var _ = Describe("ProfileService", func() {
	var (
		ctx      context.Context
		e        *env
		profiles *services.ProfileService
	)

	BeforeEach(func() {
		ctx = context.Background()
		e = newEnv(nil)
		profiles = services.NewProfileService(e.users, logging.NewNopLogger(), []string{"auth|root"})
	})

	Describe("EnsureProfile", func() {
		It("cria o perfil no primeiro acesso com nome derivado do email", func() {
			user, err := profiles.EnsureProfile(ctx, "auth|ana", " Ana.Souza@Example.com ", "", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Email.String()).To(Equal("ana.souza@example.com"))
			Expect(user.Name).To(Equal("ana.souza"))
			Expect(user.Role).To(Equal(entities.RoleUser))

			again, err := profiles.EnsureProfile(ctx, "auth|ana", "ana.souza@example.com", "Outro Nome", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Name).To(Equal("ana.souza"))
		})

		It("promove sujeitos configurados como admin", func() {
			user, err := profiles.EnsureProfile(ctx, "auth|root", "root@example.com", "Root", "user")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role).To(Equal(entities.RoleAdmin))
		})

		It("rejeita email inválido", func() {
			_, err := profiles.EnsureProfile(ctx, "auth|bad", "sem-arroba", "Bad", "")
			Expect(err).To(MatchError(errors.ErrInvalidEmail))
		})

		It("recusa email já usado por outro perfil", func() {
			_, err := profiles.EnsureProfile(ctx, "auth|ana", "ana@example.com", "Ana", "")
			Expect(err).NotTo(HaveOccurred())

			_, err = profiles.EnsureProfile(ctx, "auth|outra", "ana@example.com", "Outra Ana", "")
			Expect(err).To(MatchError(errors.ErrEmailAlreadyExists))
		})
	})

	Describe("UpdateProfile", func() {
		BeforeEach(func() {
			_, err := profiles.EnsureProfile(ctx, "auth|ana", "ana@example.com", "Ana", "")
			Expect(err).NotTo(HaveOccurred())
		})

		It("altera apenas os campos informados", func() {
			bio := "Fotógrafa em Bangkok"
			user, err := profiles.UpdateProfile(ctx, "auth|ana", services.UpdateProfileInput{Bio: &bio})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Bio).To(Equal(bio))
			Expect(user.Name).To(Equal("Ana"))
		})

		It("valida nome e bio", func() {
			short := "A"
			_, err := profiles.UpdateProfile(ctx, "auth|ana", services.UpdateProfileInput{Name: &short})
			Expect(err).To(MatchError(errors.ErrInvalidInput))

			long := strings.Repeat("x", 1001)
			_, err = profiles.UpdateProfile(ctx, "auth|ana", services.UpdateProfileInput{Bio: &long})
			Expect(err).To(MatchError(errors.ErrInvalidInput))
		})

		It("retorna ErrUserNotFound para perfil inexistente", func() {
			name := "Fantasma"
			_, err := profiles.UpdateProfile(ctx, "auth|ghost", services.UpdateProfileInput{Name: &name})
			Expect(err).To(MatchError(errors.ErrUserNotFound))
		})
	})
})
