package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
	"github.com/rafabene/marketplace-backend/internal/domain/valueobjects"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/i18n"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/ids"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/logging"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/marketplace-backend/internal/services"
	"github.com/rafabene/marketplace-backend/internal/testutil"
)

func TestServices(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Services Suite")
}

// recordingPublisher guarda os eventos publicados
type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event ports.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.events))
	for _, e := range p.events {
		keys = append(keys, e.Key)
	}
	return keys
}

// fakeGateway responde cobranças com o status configurado
type fakeGateway struct {
	mu       sync.Mutex
	status   ports.ChargeStatus
	err      error
	requests []ports.ChargeRequest
	charges  map[string]*ports.Charge
	events   map[string]*ports.PaymentEvent
	// beforeCharge roda antes da resposta do gateway, fora do lock
	beforeCharge func(req ports.ChargeRequest)
}

func newFakeGateway(status ports.ChargeStatus) *fakeGateway {
	return &fakeGateway{
		status:  status,
		charges: map[string]*ports.Charge{},
		events:  map[string]*ports.PaymentEvent{},
	}
}

func (g *fakeGateway) CreateCharge(_ context.Context, req ports.ChargeRequest) (*ports.Charge, error) {
	if g.beforeCharge != nil {
		g.beforeCharge(req)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	charge := &ports.Charge{
		ID:       "chrg_test_" + req.OrderNumber,
		Status:   g.status,
		Amount:   req.Amount,
		Currency: req.Currency,
		OrderID:  req.OrderID,
	}
	switch g.status {
	case ports.ChargePending:
		charge.AuthorizeURI = "https://pay.example.com/authorize/" + charge.ID
	case ports.ChargeFailed:
		charge.FailureCode = "insufficient_fund"
		charge.FailureMessage = "insufficient funds in the account"
	}
	g.charges[charge.ID] = charge
	return charge, nil
}

func (g *fakeGateway) RetrieveCharge(_ context.Context, chargeID string) (*ports.Charge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.charges[chargeID], nil
}

func (g *fakeGateway) RetrieveEvent(_ context.Context, eventID string) (*ports.PaymentEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.events[eventID], nil
}

// complete simula o gateway concluindo a cobrança de forma assíncrona
func (g *fakeGateway) complete(eventID, chargeID string, status ports.ChargeStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	charge := *g.charges[chargeID]
	charge.Status = status
	charge.AuthorizeURI = ""
	g.charges[chargeID] = &charge
	g.events[eventID] = &ports.PaymentEvent{ID: eventID, Key: "charge.complete", Charge: &charge}
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

// recordingBroadcaster guarda as mensagens enviadas por usuário
type recordingBroadcaster struct {
	mu   sync.Mutex
	sent map[string][]ports.RealtimeMessage
}

func (b *recordingBroadcaster) SendToUser(userID string, msg ports.RealtimeMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sent == nil {
		b.sent = map[string][]ports.RealtimeMessage{}
	}
	b.sent[userID] = append(b.sent[userID], msg)
}

func (b *recordingBroadcaster) count(userID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sent[userID])
}

// env monta os serviços sobre um SQLite descartável
type env struct {
	users       repositories.UserRepository
	products    repositories.ProductRepository
	events      repositories.EventRepository
	carts       repositories.CartRepository
	orders      repositories.OrderRepository
	publisher   *recordingPublisher
	gateway     *fakeGateway
	broadcaster *recordingBroadcaster

	Cart          *services.CartService
	Credits       *services.CreditService
	Orders        *services.OrderService
	Notifications *services.NotificationService
	Products      *services.ProductService
	Jobs          *services.JobService
	Events        *services.EventService
	Talent        *services.TalentService
	Reviews       *services.ReviewService
	Wishlist      *services.WishlistService
	Messaging     *services.MessagingService
	Realtime      *services.RealtimeRecords
}

func newEnv(gateway *fakeGateway) *env {
	GinkgoHelper()

	db := testutil.NewSQLiteDB(GinkgoT())
	logger := logging.NewNopLogger()
	translator, err := i18n.NewEmbeddedService("en")
	Expect(err).NotTo(HaveOccurred())
	numbers, err := ids.NewSnowflakeOrderNumbers(1)
	Expect(err).NotTo(HaveOccurred())

	e := &env{
		users:       postgres.NewUserRepository(db),
		products:    postgres.NewProductRepository(db),
		events:      postgres.NewEventRepository(db),
		carts:       postgres.NewCartRepository(db),
		orders:      postgres.NewOrderRepository(db),
		publisher:   &recordingPublisher{},
		gateway:     gateway,
		broadcaster: &recordingBroadcaster{},
	}

	uow := postgres.NewUnitOfWork(db)
	jobs := postgres.NewJobRepository(db)
	freelancers := postgres.NewFreelancerRepository(db)
	artistes := postgres.NewArtisteRepository(db)
	notifications := postgres.NewNotificationRepository(db)
	messages := postgres.NewMessageRepository(db)
	listings := services.NewListingResolver(e.products, jobs, e.events, freelancers, artistes)

	e.Cart = services.NewCartService(e.carts, listings, ids.NewKSUIDCartTokens(), logger)
	e.Credits = services.NewCreditService(postgres.NewCreditRepository(db), uow, e.publisher, logger)
	e.Notifications = services.NewNotificationService(notifications, e.broadcaster, translator, logger)
	e.Products = services.NewProductService(e.products, "THB", logger)
	e.Jobs = services.NewJobService(jobs, postgres.NewJobApplicationRepository(db), e.publisher, "THB", logger)
	e.Events = services.NewEventService(e.events, "THB", logger)
	e.Talent = services.NewTalentService(freelancers, artistes, postgres.NewBookingRepository(db), e.publisher, "THB", logger)
	e.Reviews = services.NewReviewService(postgres.NewReviewRepository(db), e.products, listings, e.publisher, logger)
	e.Wishlist = services.NewWishlistService(postgres.NewWishlistRepository(db), listings)
	e.Messaging = services.NewMessagingService(postgres.NewConversationRepository(db), messages, e.users, e.publisher, e.broadcaster, logger)
	e.Realtime = services.NewRealtimeRecords(notifications, messages)

	deps := services.OrderDeps{
		Orders:         e.orders,
		Carts:          e.carts,
		Products:       e.products,
		Events:         e.events,
		Listings:       listings,
		Credits:        e.Credits,
		Numbers:        numbers,
		UoW:            uow,
		Publisher:      e.publisher,
		Logger:         logger,
		CreditCurrency: "THB",
		ReturnURI:      "https://shop.example.com/orders/complete",
	}
	// nil tipado no campo de interface faria o serviço achar que há gateway
	if gateway != nil {
		deps.Gateway = gateway
	}
	e.Orders = services.NewOrderService(deps)
	return e
}

func (e *env) user(id, email string) *entities.User {
	GinkgoHelper()
	addr, err := valueobjects.NewEmail(email)
	Expect(err).NotTo(HaveOccurred())
	u := &entities.User{ID: id, Email: addr, Name: email, Role: entities.RoleUser}
	Expect(e.users.Create(context.Background(), u)).To(Succeed())
	return u
}

func (e *env) product(seller *entities.User, title, price, currency string, stock int) *entities.Product {
	GinkgoHelper()
	p := &entities.Product{
		SellerID: seller.ID,
		Title:    title,
		Category: "misc",
		Price:    decimal.RequireFromString(price),
		Currency: currency,
		Stock:    stock,
		Status:   entities.ProductActive,
	}
	Expect(e.products.Create(context.Background(), p)).To(Succeed())
	return p
}

func (e *env) event(organizer *entities.User, title, price string, capacity int) *entities.Event {
	GinkgoHelper()
	ev := &entities.Event{
		OrganizerID: organizer.ID,
		Title:       title,
		Venue:       "Lumphini Park",
		Location:    valueobjects.Coordinates{Latitude: 13.7307, Longitude: 100.5418},
		StartsAt:    time.Now().Add(48 * time.Hour),
		EndsAt:      time.Now().Add(52 * time.Hour),
		TicketPrice: decimal.RequireFromString(price),
		Currency:    "THB",
		Capacity:    capacity,
		Status:      entities.EventScheduled,
	}
	Expect(e.events.Create(context.Background(), ev)).To(Succeed())
	return ev
}

func (e *env) job(poster *entities.User, title string) *entities.Job {
	GinkgoHelper()
	j, err := e.Jobs.Create(context.Background(), poster, services.JobInput{Title: &title})
	Expect(err).NotTo(HaveOccurred())
	return j
}

// eventAt cria um evento agendado na coordenada informada
func (e *env) eventAt(organizer *entities.User, title string, lat, lng float64) *entities.Event {
	GinkgoHelper()
	ev := e.event(organizer, title, "100.00", 50)
	ev.Location = valueobjects.Coordinates{Latitude: lat, Longitude: lng}
	Expect(e.events.Update(context.Background(), ev)).To(Succeed())
	return ev
}

const (
	sellerID = "aaaaaaaa-0000-0000-0000-000000000001"
	buyerID  = "aaaaaaaa-0000-0000-0000-000000000002"
	otherID  = "aaaaaaaa-0000-0000-0000-000000000003"
)
