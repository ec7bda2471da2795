package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/search"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// FreelancerRequest representa criação e edição do perfil de freelancer
type FreelancerRequest struct {
	Headline     *string          `json:"headline" binding:"omitempty,min=3,max=200"`
	Skills       []string         `json:"skills" binding:"omitempty,max=30,dive,min=1,max=50"`
	HourlyRate   *decimal.Decimal `json:"hourly_rate" swaggertype:"string"`
	Currency     *string          `json:"currency" binding:"omitempty,iso4217"`
	Availability *string          `json:"availability" binding:"omitempty,oneof=available busy unavailable"`
}

// ToInput converte para o input do serviço
func (r FreelancerRequest) ToInput() services.FreelancerInput {
	input := services.FreelancerInput{
		Headline:   r.Headline,
		Skills:     r.Skills,
		HourlyRate: r.HourlyRate,
		Currency:   r.Currency,
	}
	if r.Availability != nil {
		a := entities.Availability(*r.Availability)
		input.Availability = &a
	}
	return input
}

// ArtisteRequest representa criação e edição do perfil de artista
type ArtisteRequest struct {
	StageName  *string          `json:"stage_name" binding:"omitempty,min=2,max=120"`
	Genre      *string          `json:"genre" binding:"omitempty,max=60"`
	Bio        *string          `json:"bio" binding:"omitempty,max=2000"`
	BookingFee *decimal.Decimal `json:"booking_fee" swaggertype:"string"`
	Currency   *string          `json:"currency" binding:"omitempty,iso4217"`
}

// ToInput converte para o input do serviço
func (r ArtisteRequest) ToInput() services.ArtisteInput {
	return services.ArtisteInput{
		StageName:  r.StageName,
		Genre:      r.Genre,
		Bio:        r.Bio,
		BookingFee: r.BookingFee,
		Currency:   r.Currency,
	}
}

// TalentListQuery são os filtros de freelancers e artistas
type TalentListQuery struct {
	Q       string `form:"q"`
	Skill   string `form:"skill"`
	Genre   string `form:"genre"`
	MaxRate string `form:"max_rate" binding:"omitempty,numeric"`
	PageQuery
}

// ToFilters converte a query em filtros do repositório.
// Na busca textual, price<=X limita a taxa/cachê.
func (q TalentListQuery) ToFilters() (repositories.TalentFilters, error) {
	criteria, err := search.Parse(q.Q)
	if err != nil {
		return repositories.TalentFilters{}, err
	}
	filters := repositories.TalentFilters{
		Skill:      optional(q.Skill),
		Genre:      optional(q.Genre),
		MaxRate:    criteria.MaxPrice,
		Words:      criteria.Words,
		Pagination: repositories.Pagination{Page: q.Page, PageSize: q.PageSize},
	}
	if filters.Genre == nil {
		filters.Genre = criteria.Category
	}
	rate, err := parseDecimal(q.MaxRate)
	if err != nil {
		return filters, err
	}
	if rate != nil {
		filters.MaxRate = rate
	}
	return filters, nil
}

// FreelancerResponse representa um freelancer
type FreelancerResponse struct {
	ID           string    `json:"id"`
	ProfileID    string    `json:"profile_id"`
	Headline     string    `json:"headline"`
	Skills       []string  `json:"skills"`
	HourlyRate   string    `json:"hourly_rate"`
	Currency     string    `json:"currency"`
	Availability string    `json:"availability"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToFreelancerResponse converte uma entidade Freelancer
func ToFreelancerResponse(f *entities.Freelancer) FreelancerResponse {
	skills := f.Skills
	if skills == nil {
		skills = []string{}
	}
	return FreelancerResponse{
		ID:           f.ID,
		ProfileID:    f.ProfileID,
		Headline:     f.Headline,
		Skills:       skills,
		HourlyRate:   money(f.HourlyRate),
		Currency:     f.Currency,
		Availability: string(f.Availability),
		CreatedAt:    f.CreatedAt,
	}
}

// FreelancerListResponse é uma página de freelancers
type FreelancerListResponse struct {
	Data []FreelancerResponse `json:"data"`
	Meta PageMeta             `json:"meta"`
}

// ToFreelancerListResponse converte uma página de freelancers
func ToFreelancerListResponse(items []*entities.Freelancer, total int64, p repositories.Pagination) FreelancerListResponse {
	data := make([]FreelancerResponse, len(items))
	for i, f := range items {
		data[i] = ToFreelancerResponse(f)
	}
	return FreelancerListResponse{Data: data, Meta: toPageMeta(p, total)}
}

// ArtisteResponse representa um artista
type ArtisteResponse struct {
	ID         string    `json:"id"`
	ProfileID  string    `json:"profile_id"`
	StageName  string    `json:"stage_name"`
	Genre      string    `json:"genre,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	BookingFee string    `json:"booking_fee"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToArtisteResponse converte uma entidade Artiste
func ToArtisteResponse(a *entities.Artiste) ArtisteResponse {
	return ArtisteResponse{
		ID:         a.ID,
		ProfileID:  a.ProfileID,
		StageName:  a.StageName,
		Genre:      a.Genre,
		Bio:        a.Bio,
		BookingFee: money(a.BookingFee),
		Currency:   a.Currency,
		CreatedAt:  a.CreatedAt,
	}
}

// ArtisteListResponse é uma página de artistas
type ArtisteListResponse struct {
	Data []ArtisteResponse `json:"data"`
	Meta PageMeta          `json:"meta"`
}

// ToArtisteListResponse converte uma página de artistas
func ToArtisteListResponse(items []*entities.Artiste, total int64, p repositories.Pagination) ArtisteListResponse {
	data := make([]ArtisteResponse, len(items))
	for i, a := range items {
		data[i] = ToArtisteResponse(a)
	}
	return ArtisteListResponse{Data: data, Meta: toPageMeta(p, total)}
}

// BookingRequestBody representa um pedido de contratação
type BookingRequestBody struct {
	EntityType  string    `json:"entity_type" binding:"required,oneof=freelancer artiste"`
	EntityID    string    `json:"entity_id" binding:"required"`
	Message     string    `json:"message" binding:"max=2000"`
	ProposedFor time.Time `json:"proposed_for"`
}

// ToInput converte para o input do serviço
func (r BookingRequestBody) ToInput() services.BookingInput {
	return services.BookingInput{
		EntityType:  entities.EntityType(r.EntityType),
		EntityID:    r.EntityID,
		Message:     r.Message,
		ProposedFor: r.ProposedFor,
	}
}

// BookingResponseBody aceita ou recusa um pedido
type BookingResponseBody struct {
	Accept *bool `json:"accept" binding:"required"`
}

// BookingListQuery escolhe entre pedidos recebidos e enviados
type BookingListQuery struct {
	Role string `form:"role" binding:"omitempty,oneof=provider requester"`
}

// BookingResponse representa um pedido de contratação
type BookingResponse struct {
	ID          string     `json:"id"`
	EntityType  string     `json:"entity_type"`
	EntityID    string     `json:"entity_id"`
	ProviderID  string     `json:"provider_id"`
	RequesterID string     `json:"requester_id"`
	Message     string     `json:"message,omitempty"`
	ProposedFor *time.Time `json:"proposed_for,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToBookingResponse converte um pedido de contratação
func ToBookingResponse(b *entities.BookingRequest) BookingResponse {
	response := BookingResponse{
		ID:          b.ID,
		EntityType:  string(b.EntityType),
		EntityID:    b.EntityID,
		ProviderID:  b.ProviderID,
		RequesterID: b.RequesterID,
		Message:     b.Message,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
	}
	if !b.ProposedFor.IsZero() {
		proposed := b.ProposedFor.UTC()
		response.ProposedFor = &proposed
	}
	return response
}

// ToBookingResponses converte uma lista de pedidos
func ToBookingResponses(items []*entities.BookingRequest) []BookingResponse {
	responses := make([]BookingResponse, len(items))
	for i, b := range items {
		responses[i] = ToBookingResponse(b)
	}
	return responses
}
