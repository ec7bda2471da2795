package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// AnalyticsRepository implementa repositories.AnalyticsRepository com SQL
// explícito via sqlx; as consultas são agregações que o GORM não expressa bem.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository cria um novo AnalyticsRepository
func NewAnalyticsRepository(db *sqlx.DB) repositories.AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

type statusCountRow struct {
	Status string `db:"status"`
	Count  int64  `db:"count"`
}

type topProductRow struct {
	ProductID string          `db:"product_id"`
	Title     string          `db:"title"`
	UnitsSold int64           `db:"units_sold"`
	Revenue   decimal.Decimal `db:"revenue"`
}

const (
	countActiveSQL = `SELECT COUNT(*) FROM %s WHERE deleted_at IS NULL`

	ordersByStatusSQL = `SELECT status, COUNT(*) AS count
		FROM orders WHERE created_at >= ?
		GROUP BY status`

	revenueSQL = `SELECT COALESCE(SUM(total), 0)
		FROM orders WHERE status IN ('paid', 'fulfilled') AND created_at >= ?`

	topProductsSQL = `SELECT oi.entity_id AS product_id, MAX(oi.title) AS title,
			SUM(oi.quantity) AS units_sold, SUM(oi.unit_price * oi.quantity) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.entity_type = 'product' AND o.status IN ('paid', 'fulfilled') AND o.created_at >= ?
		GROUP BY oi.entity_id
		ORDER BY units_sold DESC
		LIMIT ?`

	signupsSQL = `SELECT created_at FROM users WHERE deleted_at IS NULL AND created_at >= ?`
)

func (r *AnalyticsRepository) Dashboard(ctx context.Context, since time.Time, topN int) (*entities.Dashboard, error) {
	if topN <= 0 {
		topN = 5
	}
	sinceUnix := since.Unix()
	d := &entities.Dashboard{OrdersByState: make(map[entities.OrderStatus]int64)}

	counters := []struct {
		table string
		dest  *int64
	}{
		{"users", &d.Users},
		{"products", &d.Products},
		{"jobs", &d.Jobs},
		{"events", &d.Events},
	}
	for _, c := range counters {
		if err := r.db.GetContext(ctx, c.dest, fmt.Sprintf(countActiveSQL, c.table)); err != nil {
			return nil, fmt.Errorf("count %s: %w", c.table, err)
		}
	}

	var statuses []statusCountRow
	if err := r.db.SelectContext(ctx, &statuses, r.db.Rebind(ordersByStatusSQL), sinceUnix); err != nil {
		return nil, fmt.Errorf("orders by status: %w", err)
	}
	for _, s := range statuses {
		d.OrdersByState[entities.OrderStatus(s.Status)] = s.Count
	}

	var revenue decimal.Decimal
	if err := r.db.GetContext(ctx, &revenue, r.db.Rebind(revenueSQL), sinceUnix); err != nil {
		return nil, fmt.Errorf("revenue: %w", err)
	}
	d.Revenue = revenue.Round(2)

	var top []topProductRow
	if err := r.db.SelectContext(ctx, &top, r.db.Rebind(topProductsSQL), sinceUnix, topN); err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	d.TopProducts = make([]entities.TopProduct, 0, len(top))
	for _, t := range top {
		d.TopProducts = append(d.TopProducts, entities.TopProduct{
			ProductID: t.ProductID,
			Title:     t.Title,
			UnitsSold: t.UnitsSold,
			Revenue:   t.Revenue.Round(2),
		})
	}

	// agrupamento por dia feito em Go para não depender de funções de data do dialeto
	var created []int64
	if err := r.db.SelectContext(ctx, &created, r.db.Rebind(signupsSQL), sinceUnix); err != nil {
		return nil, fmt.Errorf("signups: %w", err)
	}
	d.Signups = bucketByDay(created, since)

	return d, nil
}

// bucketByDay conta timestamps por dia UTC, incluindo dias sem cadastros
func bucketByDay(timestamps []int64, since time.Time) []entities.DailyCount {
	counts := make(map[string]int64)
	for _, ts := range timestamps {
		counts[time.Unix(ts, 0).UTC().Format(time.DateOnly)]++
	}

	start := since.UTC().Truncate(24 * time.Hour)
	end := time.Now().UTC()
	var days []entities.DailyCount
	for day := start; !day.After(end); day = day.Add(24 * time.Hour) {
		key := day.Format(time.DateOnly)
		days = append(days, entities.DailyCount{Day: key, Count: counts[key]})
	}
	return days
}
