package services

import (
	"context"
	"time"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

const (
	DefaultDashboardDays = 30
	MaxDashboardDays     = 365
	DefaultTopProducts   = 10
)

// AnalyticsService monta o painel administrativo
type AnalyticsService struct {
	analyticsRepo repositories.AnalyticsRepository
	now           func() time.Time
}

// NewAnalyticsService cria um novo AnalyticsService
func NewAnalyticsService(analyticsRepo repositories.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo, now: time.Now}
}

// Dashboard retorna os totais e os cadastros por dia dos últimos "days" dias
func (s *AnalyticsService) Dashboard(ctx context.Context, days, topN int) (*entities.Dashboard, error) {
	if days <= 0 {
		days = DefaultDashboardDays
	}
	if days > MaxDashboardDays {
		days = MaxDashboardDays
	}
	if topN <= 0 || topN > 50 {
		topN = DefaultTopProducts
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))
	return s.analyticsRepo.Dashboard(ctx, since, topN)
}
