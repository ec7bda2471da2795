package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// CreditRepository implementa repositories.CreditRepository.
// O saldo é sempre derivado do extrato, nunca armazenado.
type CreditRepository struct {
	db *gorm.DB
}

// NewCreditRepository cria um novo CreditRepository
func NewCreditRepository(db *gorm.DB) repositories.CreditRepository {
	return &CreditRepository{db: db}
}

func (r *CreditRepository) Create(ctx context.Context, tx *entities.CreditTransaction) error {
	model := &CreditTransactionModel{
		ID:      newID(),
		UserID:  tx.UserID,
		Amount:  tx.Amount.Round(2),
		Reason:  string(tx.Reason),
		Note:    tx.Note,
		OrderID: tx.OrderID,
	}
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return mapWriteError(err)
	}
	tx.ID = model.ID
	tx.CreatedAt = time.Unix(model.CreatedAt, 0)
	return nil
}

func (r *CreditRepository) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	var row struct {
		Balance decimal.NullDecimal
	}
	err := dbFrom(ctx, r.db).Model(&CreditTransactionModel{}).
		Select("SUM(amount) AS balance").
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !row.Balance.Valid {
		return decimal.Zero, nil
	}
	return row.Balance.Decimal, nil
}

func (r *CreditRepository) List(ctx context.Context, userID string, p repositories.Pagination) ([]*entities.CreditTransaction, error) {
	limit, offset := p.Normalize()
	var models []*CreditTransactionModel
	err := dbFrom(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	result := make([]*entities.CreditTransaction, 0, len(models))
	for _, m := range models {
		result = append(result, &entities.CreditTransaction{
			ID:        m.ID,
			UserID:    m.UserID,
			Amount:    m.Amount,
			Reason:    entities.CreditReason(m.Reason),
			Note:      m.Note,
			OrderID:   m.OrderID,
			CreatedAt: time.Unix(m.CreatedAt, 0),
		})
	}
	return result, nil
}
