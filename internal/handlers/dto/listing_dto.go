package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/search"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// money formata valores com duas casas decimais
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func parseDecimal(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "invalid decimal: "+raw)
	}
	return &d, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ----- produtos -----

// ProductRequest representa criação e edição de produto.
// Na edição, campos ausentes permanecem como estão.
type ProductRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Price       *decimal.Decimal `json:"price" swaggertype:"string" example:"199.90"`
	Currency    *string          `json:"currency" binding:"omitempty,iso4217"`
	Stock       *int             `json:"stock" binding:"omitempty,gte=0"`
	Images      []string         `json:"images" binding:"omitempty,max=10,dive,url"`
	Status      *string          `json:"status" binding:"omitempty,oneof=draft active archived"`
}

// ToInput converte para o input do serviço
func (r ProductRequest) ToInput() services.ProductInput {
	input := services.ProductInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Currency:    r.Currency,
		Stock:       r.Stock,
		Images:      r.Images,
	}
	if r.Status != nil {
		status := entities.ProductStatus(*r.Status)
		input.Status = &status
	}
	return input
}

// ProductListQuery são os filtros aceitos em GET /products
type ProductListQuery struct {
	Q        string `form:"q"`
	Category string `form:"category"`
	SellerID string `form:"seller_id"`
	Status   string `form:"status" binding:"omitempty,oneof=draft active archived"`
	MinPrice string `form:"min_price" binding:"omitempty,numeric"`
	MaxPrice string `form:"max_price" binding:"omitempty,numeric"`
	Sort     string `form:"sort" binding:"omitempty,oneof=newest price_asc price_desc rating"`
	PageQuery
}

// ToFilters combina os parâmetros explícitos com a busca textual.
// Parâmetros explícitos prevalecem sobre os filtros da busca.
func (q ProductListQuery) ToFilters() (repositories.ProductFilters, error) {
	criteria, err := search.Parse(q.Q)
	if err != nil {
		return repositories.ProductFilters{}, err
	}

	filters := repositories.ProductFilters{
		Category:   criteria.Category,
		SellerID:   criteria.SellerID,
		MinPrice:   criteria.MinPrice,
		MaxPrice:   criteria.MaxPrice,
		Words:      criteria.Words,
		Sort:       repositories.SortOrder(criteria.Sort),
		Pagination: repositories.Pagination{Page: q.Page, PageSize: q.PageSize},
	}
	if criteria.Status != nil {
		status := entities.ProductStatus(*criteria.Status)
		filters.Status = &status
	}

	if v := optional(q.Category); v != nil {
		filters.Category = v
	}
	if v := optional(q.SellerID); v != nil {
		filters.SellerID = v
	}
	if q.Status != "" {
		status := entities.ProductStatus(q.Status)
		filters.Status = &status
	}
	lowest, err := parseDecimal(q.MinPrice)
	if err != nil {
		return filters, err
	}
	if lowest != nil {
		filters.MinPrice = lowest
	}
	highest, err := parseDecimal(q.MaxPrice)
	if err != nil {
		return filters, err
	}
	if highest != nil {
		filters.MaxPrice = highest
	}
	if q.Sort != "" {
		filters.Sort = repositories.SortOrder(q.Sort)
	}
	return filters, nil
}

// ProductResponse representa um produto
type ProductResponse struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"seller_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Price       string    `json:"price" example:"199.90"`
	Currency    string    `json:"currency"`
	Stock       int       `json:"stock"`
	Images      []string  `json:"images"`
	Status      string    `json:"status"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProductResponse converte uma entidade Product
func ToProductResponse(p *entities.Product) ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:          p.ID,
		SellerID:    p.SellerID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Price:       money(p.Price),
		Currency:    p.Currency,
		Stock:       p.Stock,
		Images:      images,
		Status:      string(p.Status),
		Rating:      p.Rating,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProductListResponse é uma página de produtos
type ProductListResponse struct {
	Data []ProductResponse `json:"data"`
	Meta PageMeta          `json:"meta"`
}

// ToProductListResponse converte uma página de produtos
func ToProductListResponse(products []*entities.Product, total int64, p repositories.Pagination) ProductListResponse {
	data := make([]ProductResponse, len(products))
	for i, product := range products {
		data[i] = ToProductResponse(product)
	}
	return ProductListResponse{Data: data, Meta: toPageMeta(p, total)}
}

func toPageMeta(p repositories.Pagination, total int64) PageMeta {
	limit, offset := p.Normalize()
	return PageMeta{Page: offset/limit + 1, PageSize: limit, Total: total}
}

// ----- vagas -----

// JobRequest representa criação e edição de vaga
type JobRequest struct {
	Title          *string          `json:"title" binding:"omitempty,min=3,max=200"`
	Company        *string          `json:"company" binding:"omitempty,max=200"`
	Description    *string          `json:"description" binding:"omitempty,max=10000"`
	Location       *string          `json:"location" binding:"omitempty,max=200"`
	Remote         *bool            `json:"remote"`
	EmploymentType *string          `json:"employment_type" binding:"omitempty,oneof=full_time part_time contract gig"`
	SalaryMin      *decimal.Decimal `json:"salary_min" swaggertype:"string"`
	SalaryMax      *decimal.Decimal `json:"salary_max" swaggertype:"string"`
	Currency       *string          `json:"currency" binding:"omitempty,iso4217"`
	Skills         []string         `json:"skills" binding:"omitempty,max=30,dive,min=1,max=50"`
	Status         *string          `json:"status" binding:"omitempty,oneof=open closed"`
}

// ToInput converte para o input do serviço
func (r JobRequest) ToInput() services.JobInput {
	input := services.JobInput{
		Title:       r.Title,
		Company:     r.Company,
		Description: r.Description,
		Location:    r.Location,
		Remote:      r.Remote,
		SalaryMin:   r.SalaryMin,
		SalaryMax:   r.SalaryMax,
		Currency:    r.Currency,
		Skills:      r.Skills,
	}
	if r.EmploymentType != nil {
		et := entities.EmploymentType(*r.EmploymentType)
		input.EmploymentType = &et
	}
	if r.Status != nil {
		status := entities.JobStatus(*r.Status)
		input.Status = &status
	}
	return input
}

// JobListQuery são os filtros aceitos em GET /jobs
type JobListQuery struct {
	Q              string `form:"q"`
	PosterID       string `form:"poster_id"`
	Status         string `form:"status" binding:"omitempty,oneof=open closed"`
	EmploymentType string `form:"employment_type" binding:"omitempty,oneof=full_time part_time contract gig"`
	Remote         *bool  `form:"remote"`
	Skill          string `form:"skill"`
	PageQuery
}

// ToFilters converte a query em filtros do repositório
func (q JobListQuery) ToFilters() (repositories.JobFilters, error) {
	criteria, err := search.Parse(q.Q)
	if err != nil {
		return repositories.JobFilters{}, err
	}
	filters := repositories.JobFilters{
		PosterID:   optional(q.PosterID),
		Remote:     q.Remote,
		Skill:      optional(q.Skill),
		Words:      criteria.Words,
		Pagination: repositories.Pagination{Page: q.Page, PageSize: q.PageSize},
	}
	if filters.PosterID == nil {
		filters.PosterID = criteria.SellerID
	}
	status := q.Status
	if status == "" && criteria.Status != nil {
		status = *criteria.Status
	}
	if status != "" {
		js := entities.JobStatus(status)
		filters.Status = &js
	}
	if q.EmploymentType != "" {
		et := entities.EmploymentType(q.EmploymentType)
		filters.EmploymentType = &et
	}
	return filters, nil
}

// JobResponse representa uma vaga
type JobResponse struct {
	ID             string    `json:"id"`
	PosterID       string    `json:"poster_id"`
	Title          string    `json:"title"`
	Company        string    `json:"company,omitempty"`
	Description    string    `json:"description,omitempty"`
	Location       string    `json:"location,omitempty"`
	Remote         bool      `json:"remote"`
	EmploymentType string    `json:"employment_type"`
	SalaryMin      string    `json:"salary_min"`
	SalaryMax      string    `json:"salary_max"`
	Currency       string    `json:"currency"`
	Skills         []string  `json:"skills"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToJobResponse converte uma entidade Job
func ToJobResponse(j *entities.Job) JobResponse {
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	return JobResponse{
		ID:             j.ID,
		PosterID:       j.PosterID,
		Title:          j.Title,
		Company:        j.Company,
		Description:    j.Description,
		Location:       j.Location,
		Remote:         j.Remote,
		EmploymentType: string(j.EmploymentType),
		SalaryMin:      money(j.SalaryMin),
		SalaryMax:      money(j.SalaryMax),
		Currency:       j.Currency,
		Skills:         skills,
		Status:         string(j.Status),
		CreatedAt:      j.CreatedAt,
	}
}

// JobListResponse é uma página de vagas
type JobListResponse struct {
	Data []JobResponse `json:"data"`
	Meta PageMeta      `json:"meta"`
}

// ToJobListResponse converte uma página de vagas
func ToJobListResponse(jobs []*entities.Job, total int64, p repositories.Pagination) JobListResponse {
	data := make([]JobResponse, len(jobs))
	for i, job := range jobs {
		data[i] = ToJobResponse(job)
	}
	return JobListResponse{Data: data, Meta: toPageMeta(p, total)}
}

// ApplyRequest representa uma candidatura
type ApplyRequest struct {
	CoverLetter string `json:"cover_letter" binding:"max=5000"`
}

// ApplicationStatusRequest altera o status de uma candidatura
type ApplicationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=shortlisted rejected hired"`
}

// ApplicationResponse representa uma candidatura
type ApplicationResponse struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	ApplicantID string    `json:"applicant_id"`
	CoverLetter string    `json:"cover_letter,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToApplicationResponse converte uma candidatura
func ToApplicationResponse(a *entities.JobApplication) ApplicationResponse {
	return ApplicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		ApplicantID: a.ApplicantID,
		CoverLetter: a.CoverLetter,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// ToApplicationResponses converte uma lista de candidaturas
func ToApplicationResponses(apps []*entities.JobApplication) []ApplicationResponse {
	responses := make([]ApplicationResponse, len(apps))
	for i, app := range apps {
		responses[i] = ToApplicationResponse(app)
	}
	return responses
}

// ----- eventos -----

// EventRequest representa criação e edição de evento
type EventRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=10000"`
	Venue       *string          `json:"venue" binding:"omitempty,max=200"`
	Latitude    *float64         `json:"latitude" binding:"omitempty,latitude"`
	Longitude   *float64         `json:"longitude" binding:"omitempty,longitude"`
	StartsAt    *time.Time       `json:"starts_at"`
	EndsAt      *time.Time       `json:"ends_at"`
	TicketPrice *decimal.Decimal `json:"ticket_price" swaggertype:"string"`
	Currency    *string          `json:"currency" binding:"omitempty,iso4217"`
	Capacity    *int             `json:"capacity" binding:"omitempty,gt=0"`
	Status      *string          `json:"status" binding:"omitempty,oneof=scheduled cancelled"`
}

// ToInput converte para o input do serviço
func (r EventRequest) ToInput() services.EventInput {
	input := services.EventInput{
		Title:       r.Title,
		Description: r.Description,
		Venue:       r.Venue,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		TicketPrice: r.TicketPrice,
		Currency:    r.Currency,
		Capacity:    r.Capacity,
	}
	if r.Status != nil {
		status := entities.EventStatus(*r.Status)
		input.Status = &status
	}
	return input
}

// EventListQuery são os filtros aceitos em GET /events
type EventListQuery struct {
	Q           string `form:"q"`
	OrganizerID string `form:"organizer_id"`
	Status      string `form:"status" binding:"omitempty,oneof=scheduled cancelled"`
	From        *int64 `form:"from"`
	To          *int64 `form:"to"`
	Sort        string `form:"sort" binding:"omitempty,oneof=newest starts_at price_asc price_desc"`
	PageQuery
}

// ToFilters converte a query em filtros do repositório
func (q EventListQuery) ToFilters() (repositories.EventFilters, error) {
	criteria, err := search.Parse(q.Q)
	if err != nil {
		return repositories.EventFilters{}, err
	}
	filters := repositories.EventFilters{
		OrganizerID: optional(q.OrganizerID),
		From:        q.From,
		To:          q.To,
		Words:       criteria.Words,
		Sort:        repositories.SortOrder(criteria.Sort),
		Pagination:  repositories.Pagination{Page: q.Page, PageSize: q.PageSize},
	}
	if filters.OrganizerID == nil {
		filters.OrganizerID = criteria.SellerID
	}
	status := q.Status
	if status == "" && criteria.Status != nil {
		status = *criteria.Status
	}
	if status != "" {
		es := entities.EventStatus(status)
		filters.Status = &es
	}
	if q.Sort != "" {
		filters.Sort = repositories.SortOrder(q.Sort)
	}
	return filters, nil
}

// NearbyQuery são os parâmetros de GET /events/nearby
type NearbyQuery struct {
	Lat      *float64 `form:"lat" binding:"required,latitude"`
	Lng      *float64 `form:"lng" binding:"required,longitude"`
	RadiusKm float64  `form:"radius_km" binding:"omitempty,gt=0,lte=500"`
}

// EventResponse representa um evento
type EventResponse struct {
	ID               string    `json:"id"`
	OrganizerID      string    `json:"organizer_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Venue            string    `json:"venue,omitempty"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	StartsAt         time.Time `json:"starts_at"`
	EndsAt           time.Time `json:"ends_at"`
	TicketPrice      string    `json:"ticket_price"`
	Currency         string    `json:"currency"`
	Capacity         int       `json:"capacity"`
	RemainingTickets int       `json:"remaining_tickets"`
	SoldOut          bool      `json:"sold_out"`
	Status           string    `json:"status"`
	DistanceKm       *float64  `json:"distance_km,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ToEventResponse converte uma entidade Event
func ToEventResponse(e *entities.Event) EventResponse {
	return EventResponse{
		ID:               e.ID,
		OrganizerID:      e.OrganizerID,
		Title:            e.Title,
		Description:      e.Description,
		Venue:            e.Venue,
		Latitude:         e.Location.Latitude,
		Longitude:        e.Location.Longitude,
		StartsAt:         e.StartsAt.UTC(),
		EndsAt:           e.EndsAt.UTC(),
		TicketPrice:      money(e.TicketPrice),
		Currency:         e.Currency,
		Capacity:         e.Capacity,
		RemainingTickets: e.RemainingTickets(),
		SoldOut:          e.IsSoldOut(),
		Status:           string(e.Status),
		DistanceKm:       e.DistanceKm,
		CreatedAt:        e.CreatedAt,
	}
}

// ToEventResponses converte uma lista de eventos
func ToEventResponses(events []*entities.Event) []EventResponse {
	responses := make([]EventResponse, len(events))
	for i, e := range events {
		responses[i] = ToEventResponse(e)
	}
	return responses
}

// EventListResponse é uma página de eventos
type EventListResponse struct {
	Data []EventResponse `json:"data"`
	Meta PageMeta        `json:"meta"`
}

// ToEventListResponse converte uma página de eventos
func ToEventListResponse(events []*entities.Event, total int64, p repositories.Pagination) EventListResponse {
	return EventListResponse{Data: ToEventResponses(events), Meta: toPageMeta(p, total)}
}
