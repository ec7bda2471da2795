package services_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
	"github.com/rafabene/marketplace-backend/internal/services"
)

var _ = Describe("JobService", func() {
	var (
		ctx       context.Context
		e         *env
		poster    *entities.User
		applicant *entities.User
		job       *entities.Job
	)

	BeforeEach(func() {
		ctx = context.Background()
		e = newEnv(nil)
		poster = e.user(sellerID, "poster@example.com")
		applicant = e.user(buyerID, "applicant@example.com")
		job = e.job(poster, "Backend Go Developer")
	})

	It("aceita uma única candidatura por candidato", func() {
		app, err := e.Jobs.Apply(ctx, applicant, job.ID, "  Tenho 5 anos de Go.  ")
		Expect(err).NotTo(HaveOccurred())
		Expect(app.Status).To(Equal(entities.ApplicationPending))
		Expect(app.CoverLetter).To(Equal("Tenho 5 anos de Go."))
		Expect(e.publisher.Keys()).To(ContainElement(ports.EventJobApplied))

		_, err = e.Jobs.Apply(ctx, applicant, job.ID, "de novo")
		Expect(err).To(MatchError(errors.ErrAlreadyApplied))

		mine, err := e.Jobs.ListMyApplications(ctx, applicant)
		Expect(err).NotTo(HaveOccurred())
		Expect(mine).To(HaveLen(1))
	})

	It("recusa candidatura à própria vaga", func() {
		_, err := e.Jobs.Apply(ctx, poster, job.ID, "")
		Expect(err).To(MatchError(errors.ErrOwnListing))
	})

	It("recusa candidatura a vaga encerrada", func() {
		closed := entities.JobClosed
		_, err := e.Jobs.Update(ctx, poster, job.ID, services.JobInput{Status: &closed})
		Expect(err).NotTo(HaveOccurred())

		_, err = e.Jobs.Apply(ctx, applicant, job.ID, "")
		Expect(err).To(MatchError(errors.ErrJobClosed))
	})

	It("move a candidatura pelo funil só para frente", func() {
		app, err := e.Jobs.Apply(ctx, applicant, job.ID, "")
		Expect(err).NotTo(HaveOccurred())

		_, err = e.Jobs.SetApplicationStatus(ctx, applicant, app.ID, entities.ApplicationHired)
		Expect(err).To(MatchError(errors.ErrForbidden))

		app, err = e.Jobs.SetApplicationStatus(ctx, poster, app.ID, entities.ApplicationShortlisted)
		Expect(err).NotTo(HaveOccurred())
		Expect(app.Status).To(Equal(entities.ApplicationShortlisted))

		app, err = e.Jobs.SetApplicationStatus(ctx, poster, app.ID, entities.ApplicationHired)
		Expect(err).NotTo(HaveOccurred())
		Expect(app.Status).To(Equal(entities.ApplicationHired))

		_, err = e.Jobs.SetApplicationStatus(ctx, poster, app.ID, entities.ApplicationRejected)
		Expect(err).To(MatchError(errors.ErrInvalidTransition))
		_, err = e.Jobs.SetApplicationStatus(ctx, poster, "ffffffff-0000-0000-0000-000000000000", entities.ApplicationHired)
		Expect(err).To(MatchError(errors.ErrApplicationMissing))
	})

	It("lista apenas vagas abertas para quem não é dono", func() {
		draft := e.job(poster, "Frontend React Developer")
		closed := entities.JobClosed
		_, err := e.Jobs.Update(ctx, poster, draft.ID, services.JobInput{Status: &closed})
		Expect(err).NotTo(HaveOccurred())

		public, total, err := e.Jobs.List(ctx, nil, repositories.JobFilters{})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(1)))
		Expect(public[0].ID).To(Equal(job.ID))

		_, _, err = e.Jobs.List(ctx, applicant, repositories.JobFilters{Status: &closed})
		Expect(err).To(MatchError(errors.ErrForbidden))

		own, total, err := e.Jobs.List(ctx, poster, repositories.JobFilters{PosterID: &poster.ID, Status: &closed})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(1)))
		Expect(own[0].ID).To(Equal(draft.ID))
	})
})

var _ = Describe("TalentService", func() {
	var (
		ctx       context.Context
		e         *env
		provider  *entities.User
		requester *entities.User
	)

	headline := func(s string) services.FreelancerInput {
		return services.FreelancerInput{Headline: &s, Skills: []string{"Go", "go", " SQL "}}
	}

	BeforeEach(func() {
		ctx = context.Background()
		e = newEnv(nil)
		provider = e.user(sellerID, "provider@example.com")
		requester = e.user(buyerID, "client@example.com")
	})

	It("permite um único perfil de freelancer e de artista por usuário", func() {
		f, err := e.Talent.CreateFreelancer(ctx, provider, headline("Go consultant"))
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Skills).To(Equal([]string{"go", "sql"}))

		_, err = e.Talent.CreateFreelancer(ctx, provider, headline("Another headline"))
		Expect(err).To(MatchError(errors.ErrProfileExists))

		stage := "DJ Somchai"
		_, err = e.Talent.CreateArtiste(ctx, provider, services.ArtisteInput{StageName: &stage})
		Expect(err).NotTo(HaveOccurred())
		_, err = e.Talent.CreateArtiste(ctx, provider, services.ArtisteInput{StageName: &stage})
		Expect(err).To(MatchError(errors.ErrProfileExists))
	})

	It("responde pedidos de contratação apenas enquanto pendentes", func() {
		f, err := e.Talent.CreateFreelancer(ctx, provider, headline("Go consultant"))
		Expect(err).NotTo(HaveOccurred())

		_, err = e.Talent.RequestBooking(ctx, provider, services.BookingInput{EntityType: entities.EntityFreelancer, EntityID: f.ID})
		Expect(err).To(MatchError(errors.ErrOwnListing))

		booking, err := e.Talent.RequestBooking(ctx, requester, services.BookingInput{
			EntityType: entities.EntityFreelancer,
			EntityID:   f.ID,
			Message:    "Preciso de ajuda com uma API",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(booking.Status).To(Equal(entities.BookingPending))
		Expect(booking.ProviderID).To(Equal(provider.ID))

		_, err = e.Talent.RespondBooking(ctx, requester, booking.ID, true)
		Expect(err).To(MatchError(errors.ErrForbidden))

		accepted, err := e.Talent.RespondBooking(ctx, provider, booking.ID, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(accepted.Status).To(Equal(entities.BookingAccepted))

		_, err = e.Talent.RespondBooking(ctx, provider, booking.ID, false)
		Expect(err).To(MatchError(errors.ErrInvalidTransition))
		Expect(e.publisher.Keys()).To(Equal([]string{ports.EventBookingRequested, ports.EventBookingResponded}))

		received, err := e.Talent.ListBookings(ctx, provider, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(received).To(HaveLen(1))
	})

	It("recusa contratar freelancer indisponível", func() {
		unavailable := entities.Unavailable
		input := headline("Go consultant")
		input.Availability = &unavailable
		f, err := e.Talent.CreateFreelancer(ctx, provider, input)
		Expect(err).NotTo(HaveOccurred())

		_, err = e.Talent.RequestBooking(ctx, requester, services.BookingInput{EntityType: entities.EntityFreelancer, EntityID: f.ID})
		Expect(err).To(MatchError(errors.ErrListingUnavailable))
	})
})

var _ = Describe("EventService.ListNearby", func() {
	var (
		ctx       context.Context
		e         *env
		organizer *entities.User
	)

	titles := func(events []*entities.Event) []string {
		out := make([]string, 0, len(events))
		for _, ev := range events {
			out = append(out, ev.Title)
		}
		return out
	}

	BeforeEach(func() {
		ctx = context.Background()
		e = newEnv(nil)
		organizer = e.user(sellerID, "organizer@example.com")
	})

	It("filtra pelo raio e ordena do mais próximo ao mais distante", func() {
		e.eventAt(organizer, "Rama IX Park", 13.6850, 100.6640)
		e.eventAt(organizer, "Lumphini Night Market", 13.7310, 100.5420)
		e.eventAt(organizer, "Chiang Mai Lantern", 18.7883, 98.9853)

		nearby, err := e.Events.ListNearby(ctx, 13.7307, 100.5418, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(titles(nearby)).To(Equal([]string{"Lumphini Night Market", "Rama IX Park"}))
		Expect(*nearby[0].DistanceKm).To(BeNumerically("<", 1))
		Expect(*nearby[1].DistanceKm).To(BeNumerically("~", 14, 2))

		walkable, err := e.Events.ListNearby(ctx, 13.7307, 100.5418, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(titles(walkable)).To(Equal([]string{"Lumphini Night Market"}))
	})

	It("encontra eventos do outro lado do antimeridiano", func() {
		e.eventAt(organizer, "Taveuni Dive", -16.85, -179.95)
		e.eventAt(organizer, "Savusavu Regatta", -16.78, 179.33)

		nearby, err := e.Events.ListNearby(ctx, -16.80, 179.90, 80)
		Expect(err).NotTo(HaveOccurred())
		Expect(titles(nearby)).To(Equal([]string{"Taveuni Dive", "Savusavu Regatta"}))
	})

	It("recusa coordenadas inválidas", func() {
		_, err := e.Events.ListNearby(ctx, 91, 0, 10)
		Expect(err).To(MatchError(errors.ErrInvalidInput))
	})
})

var _ = Describe("ProductService visibilidade", func() {
	var (
		ctx    context.Context
		e      *env
		seller *entities.User
		buyer  *entities.User
		draft  *entities.Product
	)

	BeforeEach(func() {
		ctx = context.Background()
		e = newEnv(nil)
		seller = e.user(sellerID, "seller@example.com")
		buyer = e.user(buyerID, "buyer@example.com")
		e.product(seller, "Vintage Camera", "1200.00", "THB", 1)
		e.product(seller, "Lens Cap", "50.00", "THB", 5)
		draft = &entities.Product{
			SellerID: seller.ID,
			Title:    "Secret Prototype",
			Category: "misc",
			Price:    decimal.NewFromInt(99),
			Currency: "THB",
			Stock:    1,
			Status:   entities.ProductDraft,
		}
		Expect(e.products.Create(ctx, draft)).To(Succeed())
	})

	It("esconde rascunhos de quem não é dono", func() {
		_, err := e.Products.Get(ctx, nil, draft.ID)
		Expect(err).To(MatchError(errors.ErrListingNotFound))
		_, err = e.Products.Get(ctx, buyer, draft.ID)
		Expect(err).To(MatchError(errors.ErrListingNotFound))

		own, err := e.Products.Get(ctx, seller, draft.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(own.Title).To(Equal("Secret Prototype"))

		_, total, err := e.Products.List(ctx, buyer, repositories.ProductFilters{SellerID: &seller.ID})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(2)))

		status := entities.ProductDraft
		_, _, err = e.Products.List(ctx, nil, repositories.ProductFilters{Status: &status})
		Expect(err).To(MatchError(errors.ErrForbidden))

		drafts, total, err := e.Products.List(ctx, seller, repositories.ProductFilters{SellerID: &seller.ID, Status: &status})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(1)))
		Expect(drafts[0].ID).To(Equal(draft.ID))
	})
})
