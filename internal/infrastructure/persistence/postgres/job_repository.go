package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// JobRepository implementa repositories.JobRepository
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository cria um novo JobRepository
func NewJobRepository(db *gorm.DB) repositories.JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, job *entities.Job) error {
	model := toJobModel(job)
	model.ID = newID()

	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return mapWriteError(err)
	}

	job.ID = model.ID
	job.CreatedAt = time.Unix(model.CreatedAt, 0)
	job.UpdatedAt = time.Unix(model.UpdatedAt, 0)
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*entities.Job, error) {
	var model JobModel
	if err := dbFrom(ctx, r.db).Where("id = ? AND deleted_at IS NULL", id).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toJobEntity(&model), nil
}

func (r *JobRepository) Update(ctx context.Context, job *entities.Job) error {
	return mapWriteError(dbFrom(ctx, r.db).Save(toJobModel(job)).Error)
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	return dbFrom(ctx, r.db).Model(&JobModel{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", nowUnix()).Error
}

func (r *JobRepository) List(ctx context.Context, filters repositories.JobFilters) ([]*entities.Job, int64, error) {
	query := dbFrom(ctx, r.db).Model(&JobModel{}).Where("deleted_at IS NULL")

	if filters.PosterID != nil {
		query = query.Where("poster_id = ?", *filters.PosterID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", string(*filters.Status))
	}
	if filters.EmploymentType != nil {
		query = query.Where("employment_type = ?", string(*filters.EmploymentType))
	}
	if filters.Remote != nil {
		query = query.Where("remote = ?", *filters.Remote)
	}
	if filters.Skill != nil {
		query = query.Where("skills LIKE ? ESCAPE '\\'", tagPattern(*filters.Skill))
	}
	query = applyWords(query, filters.Words, "title", "company", "description").Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := filters.Normalize()
	var models []*JobModel
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	jobs := make([]*entities.Job, 0, len(models))
	for _, m := range models {
		jobs = append(jobs, toJobEntity(m))
	}
	return jobs, total, nil
}

func toJobModel(j *entities.Job) *JobModel {
	return &JobModel{
		ID:             j.ID,
		PosterID:       j.PosterID,
		Title:          j.Title,
		Company:        j.Company,
		Description:    j.Description,
		Location:       j.Location,
		Remote:         j.Remote,
		EmploymentType: string(j.EmploymentType),
		SalaryMin:      j.SalaryMin,
		SalaryMax:      j.SalaryMax,
		Currency:       j.Currency,
		Skills:         joinTags(j.Skills),
		Status:         string(j.Status),
		CreatedAt:      unixOrZero(j.CreatedAt),
		UpdatedAt:      unixOrZero(j.UpdatedAt),
		DeletedAt:      unixPtr(j.DeletedAt),
	}
}

func toJobEntity(m *JobModel) *entities.Job {
	return &entities.Job{
		ID:             m.ID,
		PosterID:       m.PosterID,
		Title:          m.Title,
		Company:        m.Company,
		Description:    m.Description,
		Location:       m.Location,
		Remote:         m.Remote,
		EmploymentType: entities.EmploymentType(m.EmploymentType),
		SalaryMin:      m.SalaryMin,
		SalaryMax:      m.SalaryMax,
		Currency:       m.Currency,
		Skills:         splitTags(m.Skills),
		Status:         entities.JobStatus(m.Status),
		CreatedAt:      time.Unix(m.CreatedAt, 0),
		UpdatedAt:      time.Unix(m.UpdatedAt, 0),
		DeletedAt:      timePtr(m.DeletedAt),
	}
}

// JobApplicationRepository implementa repositories.JobApplicationRepository
type JobApplicationRepository struct {
	db *gorm.DB
}

// NewJobApplicationRepository cria um novo JobApplicationRepository
func NewJobApplicationRepository(db *gorm.DB) repositories.JobApplicationRepository {
	return &JobApplicationRepository{db: db}
}

func (r *JobApplicationRepository) Create(ctx context.Context, app *entities.JobApplication) error {
	model := toApplicationModel(app)
	model.ID = newID()
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return mapWriteError(err)
	}
	app.ID = model.ID
	app.CreatedAt = time.Unix(model.CreatedAt, 0)
	app.UpdatedAt = time.Unix(model.UpdatedAt, 0)
	return nil
}

func (r *JobApplicationRepository) FindByID(ctx context.Context, id string) (*entities.JobApplication, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *JobApplicationRepository) FindByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*entities.JobApplication, error) {
	return r.findOne(ctx, "job_id = ? AND applicant_id = ?", jobID, applicantID)
}

func (r *JobApplicationRepository) findOne(ctx context.Context, where string, args ...any) (*entities.JobApplication, error) {
	var model JobApplicationModel
	if err := dbFrom(ctx, r.db).Where(where, args...).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toApplicationEntity(&model), nil
}

func (r *JobApplicationRepository) ListByJob(ctx context.Context, jobID string) ([]*entities.JobApplication, error) {
	return r.list(ctx, "job_id = ?", jobID)
}

func (r *JobApplicationRepository) ListByApplicant(ctx context.Context, applicantID string) ([]*entities.JobApplication, error) {
	return r.list(ctx, "applicant_id = ?", applicantID)
}

func (r *JobApplicationRepository) list(ctx context.Context, where string, args ...any) ([]*entities.JobApplication, error) {
	var models []*JobApplicationModel
	if err := dbFrom(ctx, r.db).Where(where, args...).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	apps := make([]*entities.JobApplication, 0, len(models))
	for _, m := range models {
		apps = append(apps, toApplicationEntity(m))
	}
	return apps, nil
}

func (r *JobApplicationRepository) Update(ctx context.Context, app *entities.JobApplication) error {
	return dbFrom(ctx, r.db).Save(toApplicationModel(app)).Error
}

func toApplicationModel(a *entities.JobApplication) *JobApplicationModel {
	return &JobApplicationModel{
		ID:          a.ID,
		JobID:       a.JobID,
		ApplicantID: a.ApplicantID,
		CoverLetter: a.CoverLetter,
		Status:      string(a.Status),
		CreatedAt:   unixOrZero(a.CreatedAt),
		UpdatedAt:   unixOrZero(a.UpdatedAt),
	}
}

func toApplicationEntity(m *JobApplicationModel) *entities.JobApplication {
	return &entities.JobApplication{
		ID:          m.ID,
		JobID:       m.JobID,
		ApplicantID: m.ApplicantID,
		CoverLetter: m.CoverLetter,
		Status:      entities.ApplicationStatus(m.Status),
		CreatedAt:   time.Unix(m.CreatedAt, 0),
		UpdatedAt:   time.Unix(m.UpdatedAt, 0),
	}
}
