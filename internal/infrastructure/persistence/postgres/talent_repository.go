package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// FreelancerRepository implementa repositories.FreelancerRepository
type FreelancerRepository struct {
	db *gorm.DB
}

// NewFreelancerRepository cria um novo FreelancerRepository
func NewFreelancerRepository(db *gorm.DB) repositories.FreelancerRepository {
	return &FreelancerRepository{db: db}
}

func (r *FreelancerRepository) Create(ctx context.Context, f *entities.Freelancer) error {
	model := toFreelancerModel(f)
	model.ID = newID()
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return mapWriteError(err)
	}
	f.ID = model.ID
	f.CreatedAt = time.Unix(model.CreatedAt, 0)
	f.UpdatedAt = time.Unix(model.UpdatedAt, 0)
	return nil
}

func (r *FreelancerRepository) FindByID(ctx context.Context, id string) (*entities.Freelancer, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *FreelancerRepository) FindByProfileID(ctx context.Context, profileID string) (*entities.Freelancer, error) {
	return r.findOne(ctx, "profile_id = ?", profileID)
}

func (r *FreelancerRepository) findOne(ctx context.Context, where string, args ...any) (*entities.Freelancer, error) {
	var model FreelancerModel
	err := dbFrom(ctx, r.db).Where(where, args...).Where("deleted_at IS NULL").First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toFreelancerEntity(&model), nil
}

func (r *FreelancerRepository) Update(ctx context.Context, f *entities.Freelancer) error {
	return mapWriteError(dbFrom(ctx, r.db).Save(toFreelancerModel(f)).Error)
}

// Delete remove fisicamente: o perfil é único por usuário e pode ser recriado
func (r *FreelancerRepository) Delete(ctx context.Context, id string) error {
	return dbFrom(ctx, r.db).Where("id = ?", id).Delete(&FreelancerModel{}).Error
}

func (r *FreelancerRepository) List(ctx context.Context, filters repositories.TalentFilters) ([]*entities.Freelancer, int64, error) {
	query := dbFrom(ctx, r.db).Model(&FreelancerModel{}).Where("deleted_at IS NULL")

	if filters.Skill != nil {
		query = query.Where("skills LIKE ? ESCAPE '\\'", tagPattern(*filters.Skill))
	}
	if filters.MaxRate != nil {
		query = query.Where("hourly_rate <= ?", *filters.MaxRate)
	}
	query = applyWords(query, filters.Words, "headline", "skills").Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := filters.Normalize()
	var models []*FreelancerModel
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	result := make([]*entities.Freelancer, 0, len(models))
	for _, m := range models {
		result = append(result, toFreelancerEntity(m))
	}
	return result, total, nil
}

func toFreelancerModel(f *entities.Freelancer) *FreelancerModel {
	return &FreelancerModel{
		ID:           f.ID,
		ProfileID:    f.ProfileID,
		Headline:     f.Headline,
		Skills:       joinTags(f.Skills),
		HourlyRate:   f.HourlyRate,
		Currency:     f.Currency,
		Availability: string(f.Availability),
		CreatedAt:    unixOrZero(f.CreatedAt),
		UpdatedAt:    unixOrZero(f.UpdatedAt),
		DeletedAt:    unixPtr(f.DeletedAt),
	}
}

func toFreelancerEntity(m *FreelancerModel) *entities.Freelancer {
	return &entities.Freelancer{
		ID:           m.ID,
		ProfileID:    m.ProfileID,
		Headline:     m.Headline,
		Skills:       splitTags(m.Skills),
		HourlyRate:   m.HourlyRate,
		Currency:     m.Currency,
		Availability: entities.Availability(m.Availability),
		CreatedAt:    time.Unix(m.CreatedAt, 0),
		UpdatedAt:    time.Unix(m.UpdatedAt, 0),
		DeletedAt:    timePtr(m.DeletedAt),
	}
}

// ArtisteRepository implementa repositories.ArtisteRepository
type ArtisteRepository struct {
	db *gorm.DB
}

// NewArtisteRepository cria um novo ArtisteRepository
func NewArtisteRepository(db *gorm.DB) repositories.ArtisteRepository {
	return &ArtisteRepository{db: db}
}

func (r *ArtisteRepository) Create(ctx context.Context, a *entities.Artiste) error {
	model := toArtisteModel(a)
	model.ID = newID()
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return mapWriteError(err)
	}
	a.ID = model.ID
	a.CreatedAt = time.Unix(model.CreatedAt, 0)
	a.UpdatedAt = time.Unix(model.UpdatedAt, 0)
	return nil
}

func (r *ArtisteRepository) FindByID(ctx context.Context, id string) (*entities.Artiste, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *ArtisteRepository) FindByProfileID(ctx context.Context, profileID string) (*entities.Artiste, error) {
	return r.findOne(ctx, "profile_id = ?", profileID)
}

func (r *ArtisteRepository) findOne(ctx context.Context, where string, args ...any) (*entities.Artiste, error) {
	var model ArtisteModel
	err := dbFrom(ctx, r.db).Where(where, args...).Where("deleted_at IS NULL").First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toArtisteEntity(&model), nil
}

func (r *ArtisteRepository) Update(ctx context.Context, a *entities.Artiste) error {
	return mapWriteError(dbFrom(ctx, r.db).Save(toArtisteModel(a)).Error)
}

func (r *ArtisteRepository) Delete(ctx context.Context, id string) error {
	return dbFrom(ctx, r.db).Where("id = ?", id).Delete(&ArtisteModel{}).Error
}

func (r *ArtisteRepository) List(ctx context.Context, filters repositories.TalentFilters) ([]*entities.Artiste, int64, error) {
	query := dbFrom(ctx, r.db).Model(&ArtisteModel{}).Where("deleted_at IS NULL")

	if filters.Genre != nil {
		query = query.Where("LOWER(genre) = LOWER(?)", *filters.Genre)
	}
	if filters.MaxRate != nil {
		query = query.Where("booking_fee <= ?", *filters.MaxRate)
	}
	query = applyWords(query, filters.Words, "stage_name", "genre", "bio").Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := filters.Normalize()
	var models []*ArtisteModel
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	result := make([]*entities.Artiste, 0, len(models))
	for _, m := range models {
		result = append(result, toArtisteEntity(m))
	}
	return result, total, nil
}

func toArtisteModel(a *entities.Artiste) *ArtisteModel {
	return &ArtisteModel{
		ID:         a.ID,
		ProfileID:  a.ProfileID,
		StageName:  a.StageName,
		Genre:      a.Genre,
		Bio:        a.Bio,
		BookingFee: a.BookingFee,
		Currency:   a.Currency,
		CreatedAt:  unixOrZero(a.CreatedAt),
		UpdatedAt:  unixOrZero(a.UpdatedAt),
		DeletedAt:  unixPtr(a.DeletedAt),
	}
}

func toArtisteEntity(m *ArtisteModel) *entities.Artiste {
	return &entities.Artiste{
		ID:         m.ID,
		ProfileID:  m.ProfileID,
		StageName:  m.StageName,
		Genre:      m.Genre,
		Bio:        m.Bio,
		BookingFee: m.BookingFee,
		Currency:   m.Currency,
		CreatedAt:  time.Unix(m.CreatedAt, 0),
		UpdatedAt:  time.Unix(m.UpdatedAt, 0),
		DeletedAt:  timePtr(m.DeletedAt),
	}
}

// BookingRepository implementa repositories.BookingRepository
type BookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository cria um novo BookingRepository
func NewBookingRepository(db *gorm.DB) repositories.BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *entities.BookingRequest) error {
	model := toBookingModel(b)
	model.ID = newID()
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return mapWriteError(err)
	}
	b.ID = model.ID
	b.CreatedAt = time.Unix(model.CreatedAt, 0)
	b.UpdatedAt = time.Unix(model.UpdatedAt, 0)
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*entities.BookingRequest, error) {
	var model BookingRequestModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toBookingEntity(&model), nil
}

func (r *BookingRepository) Update(ctx context.Context, b *entities.BookingRequest) error {
	return dbFrom(ctx, r.db).Save(toBookingModel(b)).Error
}

func (r *BookingRepository) ListByProvider(ctx context.Context, providerID string) ([]*entities.BookingRequest, error) {
	return r.list(ctx, "provider_id = ?", providerID)
}

func (r *BookingRepository) ListByRequester(ctx context.Context, requesterID string) ([]*entities.BookingRequest, error) {
	return r.list(ctx, "requester_id = ?", requesterID)
}

func (r *BookingRepository) list(ctx context.Context, where string, args ...any) ([]*entities.BookingRequest, error) {
	var models []*BookingRequestModel
	if err := dbFrom(ctx, r.db).Where(where, args...).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	result := make([]*entities.BookingRequest, 0, len(models))
	for _, m := range models {
		result = append(result, toBookingEntity(m))
	}
	return result, nil
}

func toBookingModel(b *entities.BookingRequest) *BookingRequestModel {
	return &BookingRequestModel{
		ID:          b.ID,
		EntityType:  string(b.EntityType),
		EntityID:    b.EntityID,
		ProviderID:  b.ProviderID,
		RequesterID: b.RequesterID,
		Message:     b.Message,
		ProposedFor: unixOrZero(b.ProposedFor),
		Status:      string(b.Status),
		CreatedAt:   unixOrZero(b.CreatedAt),
		UpdatedAt:   unixOrZero(b.UpdatedAt),
	}
}

func toBookingEntity(m *BookingRequestModel) *entities.BookingRequest {
	b := &entities.BookingRequest{
		ID:          m.ID,
		EntityType:  entities.EntityType(m.EntityType),
		EntityID:    m.EntityID,
		ProviderID:  m.ProviderID,
		RequesterID: m.RequesterID,
		Message:     m.Message,
		Status:      entities.BookingStatus(m.Status),
		CreatedAt:   time.Unix(m.CreatedAt, 0),
		UpdatedAt:   time.Unix(m.UpdatedAt, 0),
	}
	if m.ProposedFor != 0 {
		b.ProposedFor = time.Unix(m.ProposedFor, 0)
	}
	return b
}
