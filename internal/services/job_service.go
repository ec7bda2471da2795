package services

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// JobService contém a lógica de negócio de vagas e candidaturas
type JobService struct {
	jobRepo         repositories.JobRepository
	applicationRepo repositories.JobApplicationRepository
	publisher       ports.EventPublisher
	defaultCurrency string
	logger          ports.Logger
}

// NewJobService cria um novo JobService
func NewJobService(
	jobRepo repositories.JobRepository,
	applicationRepo repositories.JobApplicationRepository,
	publisher ports.EventPublisher,
	defaultCurrency string,
	logger ports.Logger,
) *JobService {
	return &JobService{
		jobRepo:         jobRepo,
		applicationRepo: applicationRepo,
		publisher:       publisher,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// JobInput contém os dados de criação/edição de uma vaga
type JobInput struct {
	Title          *string
	Company        *string
	Description    *string
	Location       *string
	Remote         *bool
	EmploymentType *entities.EmploymentType
	SalaryMin      *decimal.Decimal
	SalaryMax      *decimal.Decimal
	Currency       *string
	Skills         []string
	Status         *entities.JobStatus
}

// Create publica uma nova vaga
func (s *JobService) Create(ctx context.Context, poster *entities.User, input JobInput) (*entities.Job, error) {
	job := &entities.Job{
		PosterID:       poster.ID,
		Status:         entities.JobOpen,
		EmploymentType: entities.EmploymentFullTime,
		Currency:       s.defaultCurrency,
	}
	applyJobInput(job, input)

	if err := job.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	s.logger.Info("creating job", "poster_id", poster.ID, "title", job.Title)
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Get busca uma vaga por ID
func (s *JobService) Get(ctx context.Context, id string) (*entities.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, errors.ErrListingNotFound
	}
	return job, nil
}

// List lista vagas. Fora das próprias vagas (ou como admin), somente abertas.
func (s *JobService) List(ctx context.Context, actor *entities.User, filters repositories.JobFilters) ([]*entities.Job, int64, error) {
	if !seesAllStatuses(actor, filters.PosterID) {
		if filters.Status != nil && *filters.Status != entities.JobOpen {
			return nil, 0, errors.ErrForbidden
		}
		open := entities.JobOpen
		filters.Status = &open
	}
	return s.jobRepo.List(ctx, filters)
}

// Update altera uma vaga (dono ou admin)
func (s *JobService) Update(ctx context.Context, actor *entities.User, id string, input JobInput) (*entities.Job, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, job.PosterID) {
		return nil, errors.ErrForbidden
	}

	applyJobInput(job, input)
	if err := job.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	job.UpdatedAt = time.Now()
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Delete remove uma vaga (dono ou admin)
func (s *JobService) Delete(ctx context.Context, actor *entities.User, id string) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(actor, job.PosterID) {
		return errors.ErrForbidden
	}
	return s.jobRepo.Delete(ctx, id)
}

// Apply registra a candidatura do usuário a uma vaga
func (s *JobService) Apply(ctx context.Context, applicant *entities.User, jobID, coverLetter string) (*entities.JobApplication, error) {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.PosterID == applicant.ID {
		return nil, errors.ErrOwnListing
	}
	if job.Status != entities.JobOpen {
		return nil, errors.ErrJobClosed
	}
	if len(coverLetter) > 5000 {
		return nil, errors.ErrInvalidInput
	}

	existing, err := s.applicationRepo.FindByJobAndApplicant(ctx, jobID, applicant.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.ErrAlreadyApplied
	}

	app := &entities.JobApplication{
		JobID:       jobID,
		ApplicantID: applicant.ID,
		CoverLetter: strings.TrimSpace(coverLetter),
		Status:      entities.ApplicationPending,
	}
	if err := s.applicationRepo.Create(ctx, app); err != nil {
		if stdErrors.Is(err, errors.ErrConflict) {
			return nil, errors.ErrAlreadyApplied
		}
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, ports.EventJobApplied, map[string]any{
		"job_id":         job.ID,
		"application_id": app.ID,
		"poster_id":      job.PosterID,
		"applicant_id":   applicant.ID,
		"title":          job.Title,
	})
	return app, nil
}

// ListApplications lista as candidaturas de uma vaga (dono ou admin)
func (s *JobService) ListApplications(ctx context.Context, actor *entities.User, jobID string) ([]*entities.JobApplication, error) {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, job.PosterID) {
		return nil, errors.ErrForbidden
	}
	return s.applicationRepo.ListByJob(ctx, jobID)
}

// ListMyApplications lista as candidaturas feitas pelo usuário
func (s *JobService) ListMyApplications(ctx context.Context, applicant *entities.User) ([]*entities.JobApplication, error) {
	return s.applicationRepo.ListByApplicant(ctx, applicant.ID)
}

// SetApplicationStatus move a candidatura no funil (dono da vaga ou admin)
func (s *JobService) SetApplicationStatus(ctx context.Context, actor *entities.User, applicationID string, status entities.ApplicationStatus) (*entities.JobApplication, error) {
	app, err := s.applicationRepo.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, errors.ErrApplicationMissing
	}

	job, err := s.Get(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, job.PosterID) {
		return nil, errors.ErrForbidden
	}
	if !app.Status.CanTransitionTo(status) {
		return nil, errors.ErrInvalidTransition
	}

	app.Status = status
	app.UpdatedAt = time.Now()
	if err := s.applicationRepo.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func applyJobInput(j *entities.Job, input JobInput) {
	if input.Title != nil {
		j.Title = strings.TrimSpace(*input.Title)
	}
	if input.Company != nil {
		j.Company = *input.Company
	}
	if input.Description != nil {
		j.Description = *input.Description
	}
	if input.Location != nil {
		j.Location = *input.Location
	}
	if input.Remote != nil {
		j.Remote = *input.Remote
	}
	if input.EmploymentType != nil {
		j.EmploymentType = *input.EmploymentType
	}
	if input.SalaryMin != nil {
		j.SalaryMin = input.SalaryMin.Round(2)
	}
	if input.SalaryMax != nil {
		j.SalaryMax = input.SalaryMax.Round(2)
	}
	if input.Currency != nil {
		j.Currency = strings.ToUpper(*input.Currency)
	}
	if input.Skills != nil {
		j.Skills = normalizeTags(input.Skills)
	}
	if input.Status != nil {
		j.Status = *input.Status
	}
}

// normalizeTags remove vazios e duplicados preservando a ordem
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
