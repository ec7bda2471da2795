package services_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

var _ = Describe("NotificationService", func() {
	var (
		ctx context.Context
		e   *env
	)

	BeforeEach(func() {
		ctx = context.Background()
		e = newEnv(nil)
	})

	It("notifica comprador e vendedores quando o pedido é pago", func() {
		event := ports.NewDomainEvent(ports.EventOrderPaid, map[string]any{
			"order_id": "o-1",
			"number":   "ORD-42",
			"buyer_id": buyerID,
			// payload vindo do broker chega como JSON genérico
			"seller_ids": []any{sellerID},
		})
		Expect(e.Notifications.Handle(ctx, event)).To(Succeed())

		mine, err := e.Notifications.List(ctx, buyerID, false, repositories.Pagination{})
		Expect(err).NotTo(HaveOccurred())
		Expect(mine).To(HaveLen(1))
		Expect(mine[0].Type).To(Equal(entities.NotificationOrderPaid))
		Expect(mine[0].Title).To(Equal("Payment confirmed"))
		Expect(mine[0].Body).To(Equal("Your order ORD-42 was paid."))

		sales, err := e.Notifications.List(ctx, sellerID, false, repositories.Pagination{})
		Expect(err).NotTo(HaveOccurred())
		Expect(sales).To(HaveLen(1))
		Expect(sales[0].Type).To(Equal(entities.NotificationNewSale))

		Expect(e.broadcaster.count(buyerID)).To(Equal(1))
		Expect(e.broadcaster.count(sellerID)).To(Equal(1))
	})

	It("reentrega do mesmo evento não duplica notificações", func() {
		event := ports.NewDomainEvent(ports.EventOrderPaid, map[string]any{
			"order_id":   "o-2",
			"number":     "ORD-43",
			"buyer_id":   buyerID,
			"seller_ids": []any{sellerID},
		})
		Expect(e.Notifications.Handle(ctx, event)).To(Succeed())
		// o broker reentrega quando o ack se perde
		Expect(e.Notifications.Handle(ctx, event)).To(Succeed())

		for _, user := range []string{buyerID, sellerID} {
			list, err := e.Notifications.List(ctx, user, false, repositories.Pagination{})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].EventID).To(Equal(event.ID))
			Expect(e.broadcaster.count(user)).To(Equal(1))
		}

		By("retomando uma entrega parcial")
		partial := ports.NewDomainEvent(ports.EventOrderPaid, map[string]any{
			"number":     "ORD-44",
			"buyer_id":   buyerID,
			"seller_ids": []any{sellerID},
		})
		// a notificação do comprador já foi gravada antes da falha
		Expect(e.Notifications.Notify(ctx, &entities.Notification{
			UserID:  buyerID,
			EventID: partial.ID,
			Type:    entities.NotificationOrderPaid,
			Title:   "Payment confirmed",
		})).To(Succeed())
		Expect(e.Notifications.Handle(ctx, partial)).To(Succeed())

		mine, err := e.Notifications.List(ctx, buyerID, false, repositories.Pagination{})
		Expect(err).NotTo(HaveOccurred())
		Expect(mine).To(HaveLen(2))
		sales, err := e.Notifications.List(ctx, sellerID, false, repositories.Pagination{})
		Expect(err).NotTo(HaveOccurred())
		Expect(sales).To(HaveLen(2))
	})

	It("notificações diretas sem evento de origem não são deduplicadas", func() {
		for i := 0; i < 2; i++ {
			Expect(e.Notifications.Notify(ctx, &entities.Notification{
				UserID: buyerID,
				Type:   entities.NotificationCredits,
				Title:  "Credits received",
			})).To(Succeed())
		}
		unread, err := e.Notifications.UnreadCount(ctx, buyerID)
		Expect(err).NotTo(HaveOccurred())
		Expect(unread).To(Equal(int64(2)))
	})

	It("ignora eventos sem notificação ou sem destinatário", func() {
		Expect(e.Notifications.Handle(ctx, ports.NewDomainEvent("listing.viewed", nil))).To(Succeed())
		Expect(e.Notifications.Handle(ctx, ports.NewDomainEvent(ports.EventJobApplied, map[string]any{"title": "Go dev"}))).To(Succeed())
		Expect(e.broadcaster.sent).To(BeEmpty())
	})

	It("controla lidas e não lidas", func() {
		for i := 0; i < 3; i++ {
			Expect(e.Notifications.Handle(ctx, ports.NewDomainEvent(ports.EventCreditsGranted, map[string]any{
				"user_id": buyerID,
				"amount":  "10.00",
			}))).To(Succeed())
		}

		unread, err := e.Notifications.UnreadCount(ctx, buyerID)
		Expect(err).NotTo(HaveOccurred())
		Expect(unread).To(Equal(int64(3)))

		list, err := e.Notifications.List(ctx, buyerID, true, repositories.Pagination{})
		Expect(err).NotTo(HaveOccurred())
		Expect(list[0].Body).To(Equal("10.00 credits were added to your balance."))
		Expect(e.Notifications.MarkRead(ctx, buyerID, list[0].ID)).To(Succeed())

		unread, err = e.Notifications.UnreadCount(ctx, buyerID)
		Expect(err).NotTo(HaveOccurred())
		Expect(unread).To(Equal(int64(2)))

		marked, err := e.Notifications.MarkAllRead(ctx, buyerID)
		Expect(err).NotTo(HaveOccurred())
		Expect(marked).To(Equal(int64(2)))
	})
})

var _ = Describe("CreditService", func() {
	var (
		ctx context.Context
		e   *env
	)

	BeforeEach(func() {
		ctx = context.Background()
		e = newEnv(nil)
	})

	It("recusa concessões sem valor positivo", func() {
		_, err := e.Credits.Grant(ctx, buyerID, decimal.Zero, "")
		Expect(err).To(MatchError(errors.ErrInvalidInput))
		_, err = e.Credits.Grant(ctx, buyerID, decimal.NewFromInt(-5), "")
		Expect(err).To(MatchError(errors.ErrInvalidInput))
	})

	It("mantém o saldo como soma do extrato", func() {
		_, err := e.Credits.Grant(ctx, buyerID, decimal.RequireFromString("20.005"), "bonus")
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Credits.Spend(ctx, buyerID, decimal.NewFromInt(5), "order-1")).To(Succeed())
		Expect(e.Credits.Spend(ctx, buyerID, decimal.NewFromInt(100), "order-2")).To(MatchError(errors.ErrInsufficientCredits))
		Expect(e.Credits.Refund(ctx, buyerID, decimal.NewFromInt(2), "order-1")).To(Succeed())

		balance, err := e.Credits.Balance(ctx, buyerID)
		Expect(err).NotTo(HaveOccurred())
		Expect(balance.StringFixed(2)).To(Equal("17.01"))

		history, err := e.Credits.History(ctx, buyerID, repositories.Pagination{})
		Expect(err).NotTo(HaveOccurred())
		Expect(history).To(HaveLen(3))
		Expect(e.publisher.Keys()).To(ConsistOf(ports.EventCreditsGranted))
	})
})
