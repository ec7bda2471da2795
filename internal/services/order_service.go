package services

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
	"github.com/rafabene/marketplace-backend/internal/domain/valueobjects"
)

// Evento do gateway que encerra uma cobrança
const chargeCompleteEvent = "charge.complete"

// OrderDeps agrupa as dependências do OrderService
type OrderDeps struct {
	Orders   repositories.OrderRepository
	Carts    repositories.CartRepository
	Products repositories.ProductRepository
	Events   repositories.EventRepository
	Listings *ListingResolver
	Credits  *CreditService
	// Gateway é nil quando os pagamentos não estão configurados
	Gateway   ports.PaymentGateway
	Numbers   ports.OrderNumberGenerator
	UoW       ports.UnitOfWork
	Publisher ports.EventPublisher
	Logger    ports.Logger
	// CreditCurrency é a moeda em que os créditos são denominados
	CreditCurrency string
	ReturnURI      string
}

// OrderService conduz checkout, pagamento e o ciclo de vida dos pedidos
type OrderService struct {
	OrderDeps
}

// NewOrderService cria um novo OrderService
func NewOrderService(deps OrderDeps) *OrderService {
	return &OrderService{OrderDeps: deps}
}

// CheckoutInput contém a forma de pagamento escolhida pelo cliente
type CheckoutInput struct {
	CardToken  string
	SourceID   string
	UseCredits bool
}

// Checkout transforma o carrinho do usuário em um pedido e cria a cobrança.
// Cobranças que exigem confirmação do cliente deixam o pedido pendente
// com a AuthorizeURI preenchida.
func (s *OrderService) Checkout(ctx context.Context, buyer *entities.User, input CheckoutInput) (*entities.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.Checkout")
	defer span.End()
	span.SetAttributes(attribute.String("buyer.id", buyer.ID))

	order, err := s.checkout(ctx, buyer, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("order.number", order.Number), attribute.String("order.status", string(order.Status)))
	return order, nil
}

func (s *OrderService) checkout(ctx context.Context, buyer *entities.User, input CheckoutInput) (*entities.Order, error) {
	cart, err := s.Carts.FindByOwner(ctx, buyer.ID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.IsEmpty() {
		return nil, errors.ErrCartEmpty
	}

	lines, err := s.priceLines(ctx, buyer, cart)
	if err != nil {
		return nil, err
	}
	currency := lines[0].Currency

	available := decimal.Zero
	if input.UseCredits && currency == s.CreditCurrency {
		if available, err = s.Credits.Balance(ctx, buyer.ID); err != nil {
			return nil, err
		}
	}
	subtotal, credits, total := entities.Totals(lines, available)

	if total.IsPositive() {
		if s.Gateway == nil {
			return nil, errors.ErrPaymentUnavailable
		}
		if input.CardToken == "" && input.SourceID == "" {
			return nil, errors.Wrap(errors.ErrInvalidInput, "card token or source is required")
		}
	}

	order := &entities.Order{
		Number:         s.Numbers.NextOrderNumber(),
		BuyerID:        buyer.ID,
		Status:         entities.OrderPending,
		Subtotal:       subtotal,
		CreditsApplied: credits,
		Total:          total,
		Currency:       currency,
		CartID:         cart.ID,
		Items:          make([]entities.OrderItem, 0, len(lines)),
	}
	for _, l := range lines {
		order.Items = append(order.Items, entities.OrderItem{
			EntityType: l.Item.EntityType,
			EntityID:   l.Item.EntityID,
			SellerID:   l.SellerID,
			Title:      l.Title,
			UnitPrice:  l.UnitPrice,
			Quantity:   l.Item.Quantity,
		})
	}

	err = s.UoW.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.Orders.Create(txCtx, order); err != nil {
			return err
		}
		return s.Credits.Spend(txCtx, buyer.ID, credits, order.ID)
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("order created", "order_id", order.ID, "number", order.Number, "total", order.Total.String(), "currency", currency)

	if !total.IsPositive() {
		if err := s.MarkPaid(ctx, order.ID); err != nil {
			return nil, err
		}
		return s.Orders.FindByID(ctx, order.ID)
	}

	charge, err := s.Gateway.CreateCharge(ctx, ports.ChargeRequest{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Amount:      valueobjects.ToMinorUnits(total, currency),
		Currency:    currency,
		CardToken:   input.CardToken,
		SourceID:    input.SourceID,
		ReturnURI:   s.ReturnURI,
		Description: fmt.Sprintf("Order %s", order.Number),
	})
	if err != nil {
		s.log(ctx).Error("failed to create charge", "order_id", order.ID, "error", err)
		if markErr := s.MarkFailed(ctx, order.ID, err.Error()); markErr != nil {
			s.log(ctx).Error("failed to mark order as failed", "order_id", order.ID, "error", markErr)
		}
		return nil, errors.Wrap(errors.ErrPaymentFailed, err.Error())
	}

	attached, err := s.Orders.AttachCharge(ctx, order.ID, charge.ID, charge.AuthorizeURI)
	if err != nil {
		return nil, err
	}
	if !attached {
		// cancelado enquanto a cobrança era criada
		s.log(ctx).Error("charge created for an order that is no longer pending, refund required",
			"order_id", order.ID, "charge_id", charge.ID)
		return nil, errors.ErrInvalidTransition
	}

	return s.applyCharge(ctx, order.ID, charge)
}

// priceLines valida todas as linhas e congela os preços atuais
func (s *OrderService) priceLines(ctx context.Context, buyer *entities.User, cart *entities.Cart) ([]entities.PricedLine, error) {
	lines := make([]entities.PricedLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		line, unavailable, err := s.Listings.Price(ctx, item)
		if err != nil {
			if stdErrors.Is(err, errors.ErrListingNotFound) {
				return nil, errors.ErrListingUnavailable
			}
			return nil, err
		}
		if unavailable != nil {
			return nil, unavailable
		}
		if line.SellerID == buyer.ID {
			return nil, errors.ErrOwnListing
		}
		if len(lines) > 0 && lines[0].Currency != line.Currency {
			return nil, errors.ErrCurrencyMismatch
		}
		lines = append(lines, *line)
	}
	return lines, nil
}

// applyCharge leva o pedido ao estado correspondente à cobrança
func (s *OrderService) applyCharge(ctx context.Context, orderID string, charge *ports.Charge) (*entities.Order, error) {
	switch charge.Status {
	case ports.ChargeSuccessful:
		if err := s.MarkPaid(ctx, orderID); err != nil {
			return nil, err
		}
	case ports.ChargeFailed:
		reason := charge.FailureMessage
		if reason == "" {
			reason = charge.FailureCode
		}
		if err := s.MarkFailed(ctx, orderID, reason); err != nil {
			return nil, err
		}
	}

	order, err := s.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.ErrOrderNotFound
	}
	if order.Status == entities.OrderFailed {
		return order, errors.Wrap(errors.ErrPaymentFailed, order.FailureReason)
	}
	return order, nil
}

// MarkPaid baixa estoque/ingressos, limpa o carrinho e publica order.paid.
// Pedidos já pagos não são reaplicados.
func (s *OrderService) MarkPaid(ctx context.Context, orderID string) error {
	var order *entities.Order
	applied := false

	err := s.UoW.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		order, err = s.Orders.FindByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return errors.ErrOrderNotFound
		}
		if order.Status == entities.OrderPaid || order.Status == entities.OrderFulfilled {
			return nil
		}
		if !order.Status.CanTransitionTo(entities.OrderPaid) {
			return errors.ErrInvalidTransition
		}

		for _, item := range order.Items {
			switch item.EntityType {
			case entities.EntityProduct:
				if err := s.Products.AdjustStock(txCtx, item.EntityID, -item.Quantity); err != nil {
					return err
				}
			case entities.EntityEvent:
				if err := s.Events.AddTicketsSold(txCtx, item.EntityID, item.Quantity); err != nil {
					return err
				}
			}
		}

		now := time.Now()
		from := order.Status
		order.Status = entities.OrderPaid
		order.PaidAt = &now
		order.UpdatedAt = now
		moved, err := s.Orders.TransitionStatus(txCtx, order, from)
		if err != nil {
			return err
		}
		if !moved {
			return errors.ErrInvalidTransition
		}
		if order.CartID != "" {
			if err := s.Carts.Clear(txCtx, order.CartID); err != nil {
				return err
			}
		}
		applied = true
		return nil
	})
	if err != nil {
		s.log(ctx).Error("failed to mark order as paid", "order_id", orderID, "error", err)
		return err
	}
	if !applied {
		return nil
	}

	s.log(ctx).Info("order paid", "order_id", order.ID, "number", order.Number)
	publish(ctx, s.Publisher, s.Logger, ports.EventOrderPaid, map[string]any{
		"order_id":   order.ID,
		"number":     order.Number,
		"buyer_id":   order.BuyerID,
		"seller_ids": order.SellerIDs(),
		"total":      order.Total.StringFixed(2),
		"currency":   order.Currency,
	})
	return nil
}

// MarkFailed marca o pedido como falho e devolve os créditos aplicados
func (s *OrderService) MarkFailed(ctx context.Context, orderID, reason string) error {
	var order *entities.Order
	applied := false

	err := s.UoW.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		order, err = s.Orders.FindByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return errors.ErrOrderNotFound
		}
		if order.Status != entities.OrderPending {
			return nil
		}

		order.Status = entities.OrderFailed
		order.FailureReason = reason
		order.UpdatedAt = time.Now()
		moved, err := s.Orders.TransitionStatus(txCtx, order, entities.OrderPending)
		if err != nil || !moved {
			return err
		}
		applied = true
		return s.Credits.Refund(txCtx, order.BuyerID, order.CreditsApplied, order.ID)
	})
	if err != nil || !applied {
		return err
	}

	s.log(ctx).Warn("order payment failed", "order_id", order.ID, "reason", reason)
	publish(ctx, s.Publisher, s.Logger, ports.EventOrderFailed, map[string]any{
		"order_id": order.ID,
		"number":   order.Number,
		"buyer_id": order.BuyerID,
		"reason":   reason,
	})
	return nil
}

// HandlePaymentWebhook processa uma notificação do gateway.
// O evento é buscado novamente no gateway; o corpo recebido só fornece o ID.
func (s *OrderService) HandlePaymentWebhook(ctx context.Context, eventID string) error {
	ctx, span := tracer.Start(ctx, "OrderService.HandlePaymentWebhook")
	defer span.End()
	span.SetAttributes(attribute.String("payment.event_id", eventID))

	if s.Gateway == nil {
		return errors.ErrPaymentUnavailable
	}

	event, err := s.Gateway.RetrieveEvent(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if event.Key != chargeCompleteEvent || event.Charge == nil {
		s.log(ctx).Debug("ignoring payment event", "event_id", eventID, "key", event.Key)
		return nil
	}

	order, err := s.Orders.FindByChargeID(ctx, event.Charge.ID)
	if err != nil {
		return err
	}
	if order == nil && event.Charge.OrderID != "" {
		if order, err = s.Orders.FindByID(ctx, event.Charge.OrderID); err != nil {
			return err
		}
	}
	if order == nil {
		s.log(ctx).Warn("payment event for unknown order", "event_id", eventID, "charge_id", event.Charge.ID)
		return nil
	}
	if order.Status == entities.OrderCancelled || order.Status == entities.OrderFailed {
		s.refundRequired(ctx, order, event.Charge)
		return nil
	}

	_, err = s.applyCharge(ctx, order.ID, event.Charge)
	switch {
	case stdErrors.Is(err, errors.ErrPaymentFailed):
		// falha de pagamento já registrada no pedido
		return nil
	case stdErrors.Is(err, errors.ErrInvalidTransition):
		// o pedido saiu de pendente entre a leitura e a baixa
		s.refundRequired(ctx, order, event.Charge)
		return nil
	}
	return err
}

// refundRequired registra uma cobrança aprovada para um pedido que não pode mais ser pago.
// O estorno é manual; reenviar o webhook não muda nada.
func (s *OrderService) refundRequired(ctx context.Context, order *entities.Order, charge *ports.Charge) {
	if charge.Status != ports.ChargeSuccessful {
		return
	}
	s.log(ctx).Error("charge completed for a closed order, refund required",
		"order_id", order.ID, "number", order.Number, "status", string(order.Status),
		"charge_id", charge.ID, "amount", charge.Amount, "currency", charge.Currency)
}

// ListMyOrders lista os pedidos do comprador
func (s *OrderService) ListMyOrders(ctx context.Context, buyer *entities.User, p repositories.Pagination) ([]*entities.Order, error) {
	return s.Orders.ListByBuyer(ctx, buyer.ID, p)
}

// ListSales lista pedidos que contêm itens do vendedor
func (s *OrderService) ListSales(ctx context.Context, seller *entities.User, p repositories.Pagination) ([]*entities.Order, error) {
	return s.Orders.ListBySeller(ctx, seller.ID, p)
}

// GetOrder busca um pedido visível ao ator (comprador, vendedor de uma linha ou admin)
func (s *OrderService) GetOrder(ctx context.Context, actor *entities.User, id string) (*entities.Order, error) {
	order, err := s.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.ErrOrderNotFound
	}
	if order.BuyerID != actor.ID && !order.HasSeller(actor.ID) && !actor.HasPermission(entities.PermissionOrderManage) {
		return nil, errors.ErrForbidden
	}
	return order, nil
}

// Cancel cancela um pedido pendente (comprador ou admin) e devolve os créditos.
// Pedidos com cobrança aberta no gateway só saem de pendente pelo webhook.
func (s *OrderService) Cancel(ctx context.Context, actor *entities.User, id string) (*entities.Order, error) {
	order, err := s.GetOrder(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != actor.ID && !actor.HasPermission(entities.PermissionOrderManage) {
		return nil, errors.ErrForbidden
	}
	if !order.Status.CanTransitionTo(entities.OrderCancelled) {
		return nil, errors.ErrInvalidTransition
	}
	if order.ChargeID != "" {
		return nil, errors.ErrPaymentInProgress
	}

	now := time.Now()
	err = s.UoW.WithTransaction(ctx, func(txCtx context.Context) error {
		cancelled, err := s.Orders.CancelPending(txCtx, order.ID, now)
		if err != nil {
			return err
		}
		if !cancelled {
			// pago, falho ou cobrado depois da leitura
			current, err := s.Orders.FindByID(txCtx, order.ID)
			if err != nil {
				return err
			}
			if current != nil && current.Status == entities.OrderPending {
				return errors.ErrPaymentInProgress
			}
			return errors.ErrInvalidTransition
		}
		return s.Credits.Refund(txCtx, order.BuyerID, order.CreditsApplied, order.ID)
	})
	if err != nil {
		return nil, err
	}
	order.Status = entities.OrderCancelled
	order.UpdatedAt = now
	s.log(ctx).Info("order cancelled", "order_id", order.ID, "actor_id", actor.ID)
	return order, nil
}

// Fulfill marca um pedido pago como entregue (vendedor de uma linha ou admin)
func (s *OrderService) Fulfill(ctx context.Context, actor *entities.User, id string) (*entities.Order, error) {
	order, err := s.GetOrder(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !order.HasSeller(actor.ID) && !actor.HasPermission(entities.PermissionOrderManage) {
		return nil, errors.ErrForbidden
	}
	if !order.Status.CanTransitionTo(entities.OrderFulfilled) {
		return nil, errors.ErrInvalidTransition
	}

	order.Status = entities.OrderFulfilled
	order.UpdatedAt = time.Now()
	moved, err := s.Orders.TransitionStatus(ctx, order, entities.OrderPaid)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, errors.ErrInvalidTransition
	}
	return order, nil
}

// log devolve o logger da requisição quando houver um no contexto
func (s *OrderService) log(ctx context.Context) ports.Logger {
	return ports.LoggerFromContext(ctx, s.Logger)
}
