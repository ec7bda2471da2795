package entities

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// EmploymentType representa o regime de contratação
type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "full_time"
	EmploymentPartTime EmploymentType = "part_time"
	EmploymentContract EmploymentType = "contract"
	EmploymentGig      EmploymentType = "gig"
)

// JobStatus representa o estado da vaga
type JobStatus string

const (
	JobOpen   JobStatus = "open"
	JobClosed JobStatus = "closed"
)

// Job representa uma vaga publicada
type Job struct {
	ID             string
	PosterID       string
	Title          string
	Company        string
	Description    string
	Location       string
	Remote         bool
	EmploymentType EmploymentType
	SalaryMin      decimal.Decimal
	SalaryMax      decimal.Decimal
	Currency       string
	Skills         []string
	Status         JobStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// Validate valida regras de negócio da vaga
func (j *Job) Validate() error {
	if len(j.Title) < 3 || len(j.Title) > 200 {
		return errors.New("title must have between 3 and 200 characters")
	}
	switch j.EmploymentType {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentGig:
	default:
		return errors.New("invalid employment type")
	}
	if j.SalaryMin.IsNegative() || j.SalaryMax.LessThan(j.SalaryMin) {
		return errors.New("salary range is invalid")
	}
	if j.Status != JobOpen && j.Status != JobClosed {
		return errors.New("invalid job status")
	}
	return nil
}

// ApplicationStatus representa o andamento de uma candidatura
type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationHired       ApplicationStatus = "hired"
)

// applicationTransitions define as transições permitidas
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending:     {ApplicationShortlisted, ApplicationRejected, ApplicationHired},
	ApplicationShortlisted: {ApplicationRejected, ApplicationHired},
}

// CanTransitionTo verifica se a candidatura pode ir para o novo status
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// JobApplication representa uma candidatura a uma vaga
type JobApplication struct {
	ID          string
	JobID       string
	ApplicantID string
	CoverLetter string
	Status      ApplicationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
