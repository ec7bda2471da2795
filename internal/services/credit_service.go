package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// CreditService mantém o extrato de créditos da plataforma.
// O saldo é sempre a soma dos lançamentos.
type CreditService struct {
	creditRepo repositories.CreditRepository
	uow        ports.UnitOfWork
	publisher  ports.EventPublisher
	logger     ports.Logger
}

// NewCreditService cria um novo CreditService
func NewCreditService(
	creditRepo repositories.CreditRepository,
	uow ports.UnitOfWork,
	publisher ports.EventPublisher,
	logger ports.Logger,
) *CreditService {
	return &CreditService{
		creditRepo: creditRepo,
		uow:        uow,
		publisher:  publisher,
		logger:     logger,
	}
}

// Balance retorna o saldo atual do usuário
func (s *CreditService) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	return s.creditRepo.Balance(ctx, userID)
}

// History lista os lançamentos do usuário, mais recentes primeiro
func (s *CreditService) History(ctx context.Context, userID string, p repositories.Pagination) ([]*entities.CreditTransaction, error) {
	return s.creditRepo.List(ctx, userID, p)
}

// Grant concede créditos (admin ou CLI)
func (s *CreditService) Grant(ctx context.Context, userID string, amount decimal.Decimal, note string) (*entities.CreditTransaction, error) {
	if !amount.IsPositive() {
		return nil, errors.Wrap(errors.ErrInvalidInput, "amount must be positive")
	}

	tx := &entities.CreditTransaction{
		UserID: userID,
		Amount: amount.Round(2),
		Reason: entities.CreditGrant,
		Note:   note,
	}
	if err := s.creditRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("credits granted", "user_id", userID, "amount", tx.Amount.String())
	publish(ctx, s.publisher, s.logger, ports.EventCreditsGranted, map[string]any{
		"user_id": userID,
		"amount":  tx.Amount.StringFixed(2),
	})
	return tx, nil
}

// Spend debita créditos de um pedido; o saldo nunca fica negativo
func (s *CreditService) Spend(ctx context.Context, userID string, amount decimal.Decimal, orderID string) error {
	if !amount.IsPositive() {
		return nil
	}
	return s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		balance, err := s.creditRepo.Balance(txCtx, userID)
		if err != nil {
			return err
		}
		if balance.LessThan(amount) {
			return errors.ErrInsufficientCredits
		}
		return s.creditRepo.Create(txCtx, &entities.CreditTransaction{
			UserID:  userID,
			Amount:  amount.Neg().Round(2),
			Reason:  entities.CreditSpend,
			OrderID: &orderID,
		})
	})
}

// Refund devolve créditos de um pedido que falhou ou foi cancelado
func (s *CreditService) Refund(ctx context.Context, userID string, amount decimal.Decimal, orderID string) error {
	if !amount.IsPositive() {
		return nil
	}
	return s.creditRepo.Create(ctx, &entities.CreditTransaction{
		UserID:  userID,
		Amount:  amount.Round(2),
		Reason:  entities.CreditRefund,
		OrderID: &orderID,
	})
}
