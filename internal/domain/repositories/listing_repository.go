package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/valueobjects"
)

// ProductRepository define a persistência de produtos
type ProductRepository interface {
	Create(ctx context.Context, product *entities.Product) error
	FindByID(ctx context.Context, id string) (*entities.Product, error)
	Update(ctx context.Context, product *entities.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters ProductFilters) ([]*entities.Product, int64, error)
	// AdjustStock soma delta ao estoque; falha com ErrInsufficientStock se ficar negativo
	AdjustStock(ctx context.Context, id string, delta int) error
	SetRating(ctx context.Context, id string, rating float64) error
}

// ProductFilters contém filtros para listagem de produtos
type ProductFilters struct {
	Category *string
	SellerID *string
	Status   *entities.ProductStatus
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Words    []string
	Sort     SortOrder
	Pagination
}

// JobRepository define a persistência de vagas
type JobRepository interface {
	Create(ctx context.Context, job *entities.Job) error
	FindByID(ctx context.Context, id string) (*entities.Job, error)
	Update(ctx context.Context, job *entities.Job) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters JobFilters) ([]*entities.Job, int64, error)
}

// JobFilters contém filtros para listagem de vagas
type JobFilters struct {
	PosterID       *string
	Status         *entities.JobStatus
	EmploymentType *entities.EmploymentType
	Remote         *bool
	Skill          *string
	Words          []string
	Pagination
}

// JobApplicationRepository define a persistência de candidaturas
type JobApplicationRepository interface {
	Create(ctx context.Context, app *entities.JobApplication) error
	FindByID(ctx context.Context, id string) (*entities.JobApplication, error)
	FindByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*entities.JobApplication, error)
	ListByJob(ctx context.Context, jobID string) ([]*entities.JobApplication, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]*entities.JobApplication, error)
	Update(ctx context.Context, app *entities.JobApplication) error
}

// EventRepository define a persistência de eventos
type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) error
	FindByID(ctx context.Context, id string) (*entities.Event, error)
	Update(ctx context.Context, event *entities.Event) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters EventFilters) ([]*entities.Event, int64, error)
	// ListInBox retorna eventos agendados dentro do retângulo informado
	ListInBox(ctx context.Context, box valueobjects.BoundingBox) ([]*entities.Event, error)
	// AddTicketsSold incrementa ingressos vendidos respeitando a capacidade
	AddTicketsSold(ctx context.Context, id string, quantity int) error
}

// EventFilters contém filtros para listagem de eventos
type EventFilters struct {
	OrganizerID *string
	Status      *entities.EventStatus
	From        *int64
	To          *int64
	Words       []string
	Sort        SortOrder
	Pagination
}

// FreelancerRepository define a persistência de freelancers
type FreelancerRepository interface {
	Create(ctx context.Context, f *entities.Freelancer) error
	FindByID(ctx context.Context, id string) (*entities.Freelancer, error)
	FindByProfileID(ctx context.Context, profileID string) (*entities.Freelancer, error)
	Update(ctx context.Context, f *entities.Freelancer) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters TalentFilters) ([]*entities.Freelancer, int64, error)
}

// ArtisteRepository define a persistência de artistas
type ArtisteRepository interface {
	Create(ctx context.Context, a *entities.Artiste) error
	FindByID(ctx context.Context, id string) (*entities.Artiste, error)
	FindByProfileID(ctx context.Context, profileID string) (*entities.Artiste, error)
	Update(ctx context.Context, a *entities.Artiste) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters TalentFilters) ([]*entities.Artiste, int64, error)
}

// TalentFilters contém filtros para freelancers e artistas
type TalentFilters struct {
	Skill   *string // freelancers
	Genre   *string // artistas
	MaxRate *decimal.Decimal
	Words   []string
	Pagination
}

// BookingRepository define a persistência de pedidos de contratação
type BookingRepository interface {
	Create(ctx context.Context, b *entities.BookingRequest) error
	FindByID(ctx context.Context, id string) (*entities.BookingRequest, error)
	Update(ctx context.Context, b *entities.BookingRequest) error
	ListByProvider(ctx context.Context, providerID string) ([]*entities.BookingRequest, error)
	ListByRequester(ctx context.Context, requesterID string) ([]*entities.BookingRequest, error)
}
