package services_test

import (
	"context"
	stdErrors "errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
	"github.com/rafabene/marketplace-backend/internal/services"
)

var _ = Describe("OrderService", func() {
	var (
		ctx     context.Context
		e       *env
		gateway *fakeGateway
		seller  *entities.User
		buyer   *entities.User
		book    *entities.Product
	)

	setup := func(status ports.ChargeStatus) {
		gateway = newFakeGateway(status)
		e = newEnv(gateway)
		seller = e.user(sellerID, "seller@example.com")
		buyer = e.user(buyerID, "buyer@example.com")
		book = e.product(seller, "Clean Architecture", "450.00", "THB", 3)
	}

	fillCart := func(quantity int) {
		GinkgoHelper()
		_, err := e.Cart.AddItem(ctx, services.CartRef{UserID: buyer.ID}, entities.EntityProduct, book.ID, quantity)
		Expect(err).NotTo(HaveOccurred())
	}

	stock := func() int {
		GinkgoHelper()
		p, err := e.products.FindByID(ctx, book.ID)
		Expect(err).NotTo(HaveOccurred())
		return p.Stock
	}

	balance := func() string {
		GinkgoHelper()
		b, err := e.Credits.Balance(ctx, buyer.ID)
		Expect(err).NotTo(HaveOccurred())
		return b.StringFixed(2)
	}

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("quando a cobrança é aprovada na hora", func() {
		BeforeEach(func() { setup(ports.ChargeSuccessful) })

		It("marca o pedido como pago, baixa o estoque e esvazia o carrinho", func() {
			fillCart(2)

			order, err := e.Orders.Checkout(ctx, buyer, services.CheckoutInput{CardToken: "tokn_test_1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(order.Status).To(Equal(entities.OrderPaid))
			Expect(order.Total.StringFixed(2)).To(Equal("900.00"))
			Expect(order.PaidAt).NotTo(BeNil())
			Expect(order.Items).To(HaveLen(1))
			Expect(order.Items[0].SellerID).To(Equal(seller.ID))

			Expect(gateway.requests).To(HaveLen(1))
			Expect(gateway.requests[0].Amount).To(Equal(int64(90000)))
			Expect(gateway.requests[0].Currency).To(Equal("THB"))

			Expect(stock()).To(Equal(1))
			view, err := e.Cart.GetCart(ctx, services.CartRef{UserID: buyer.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Lines).To(BeEmpty())
			Expect(e.publisher.Keys()).To(ContainElement(ports.EventOrderPaid))
		})

		It("exige cartão ou source quando há valor a cobrar", func() {
			fillCart(1)
			_, err := e.Orders.Checkout(ctx, buyer, services.CheckoutInput{})
			Expect(err).To(MatchError(errors.ErrInvalidInput))
			Expect(gateway.calls()).To(BeZero())
		})

		It("recusa carrinho vazio", func() {
			_, err := e.Orders.Checkout(ctx, buyer, services.CheckoutInput{CardToken: "tokn_test_1"})
			Expect(err).To(MatchError(errors.ErrCartEmpty))
		})

		It("usa créditos e dispensa o gateway quando cobrem o total", func() {
			_, err := e.Credits.Grant(ctx, buyer.ID, decimal.NewFromInt(1000), "welcome")
			Expect(err).NotTo(HaveOccurred())
			fillCart(2)

			order, err := e.Orders.Checkout(ctx, buyer, services.CheckoutInput{UseCredits: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(order.Status).To(Equal(entities.OrderPaid))
			Expect(order.CreditsApplied.StringFixed(2)).To(Equal("900.00"))
			Expect(order.Total.IsZero()).To(BeTrue())
			Expect(gateway.calls()).To(BeZero())
			Expect(balance()).To(Equal("100.00"))
		})

		It("cobra apenas a diferença quando os créditos não bastam", func() {
			_, err := e.Credits.Grant(ctx, buyer.ID, decimal.NewFromInt(150), "")
			Expect(err).NotTo(HaveOccurred())
			fillCart(1)

			order, err := e.Orders.Checkout(ctx, buyer, services.CheckoutInput{CardToken: "tokn_test_1", UseCredits: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(order.CreditsApplied.StringFixed(2)).To(Equal("150.00"))
			Expect(order.Total.StringFixed(2)).To(Equal("300.00"))
			Expect(gateway.requests[0].Amount).To(Equal(int64(30000)))
			Expect(balance()).To(Equal("0.00"))
		})
	})

	Context("quando a cobrança exige autorização do cliente", func() {
		BeforeEach(func() { setup(ports.ChargePending) })

		It("deixa o pedido pendente e conclui pelo webhook", func() {
			fillCart(1)

			order, err := e.Orders.Checkout(ctx, buyer, services.CheckoutInput{SourceID: "src_test_promptpay"})
			Expect(err).NotTo(HaveOccurred())
			Expect(order.Status).To(Equal(entities.OrderPending))
			Expect(order.AuthorizeURI).To(HavePrefix("https://pay.example.com/authorize/"))
			Expect(stock()).To(Equal(3))

			gateway.complete("evnt_test_1", order.ChargeID, ports.ChargeSuccessful)
			Expect(e.Orders.HandlePaymentWebhook(ctx, "evnt_test_1")).To(Succeed())

			paid, err := e.Orders.GetOrder(ctx, buyer, order.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(paid.Status).To(Equal(entities.OrderPaid))
			Expect(stock()).To(Equal(2))

			By("reprocessando o mesmo evento sem efeito duplicado")
			Expect(e.Orders.HandlePaymentWebhook(ctx, "evnt_test_1")).To(Succeed())
			Expect(stock()).To(Equal(2))
		})

		It("recusa cancelar enquanto a cobrança está aberta no gateway", func() {
			_, err := e.Credits.Grant(ctx, buyer.ID, decimal.NewFromInt(100), "")
			Expect(err).NotTo(HaveOccurred())
			fillCart(1)

			order, err := e.Orders.Checkout(ctx, buyer, services.CheckoutInput{SourceID: "src_test", UseCredits: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(order.ChargeID).NotTo(BeEmpty())

			_, err = e.Orders.Cancel(ctx, buyer, order.ID)
			Expect(err).To(MatchError(errors.ErrPaymentInProgress))

			By("o gateway confirmando o pagamento depois da tentativa")
			gateway.complete("evnt_test_2", order.ChargeID, ports.ChargeSuccessful)
			Expect(e.Orders.HandlePaymentWebhook(ctx, "evnt_test_2")).To(Succeed())

			paid, err := e.Orders.GetOrder(ctx, buyer, order.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(paid.Status).To(Equal(entities.OrderPaid))
			Expect(stock()).To(Equal(2))
			Expect(balance()).To(Equal("0.00"))
		})

		It("devolve os créditos quando a cobrança expira", func() {
			_, err := e.Credits.Grant(ctx, buyer.ID, decimal.NewFromInt(100), "")
			Expect(err).NotTo(HaveOccurred())
			fillCart(1)

			order, err := e.Orders.Checkout(ctx, buyer, services.CheckoutInput{SourceID: "src_test", UseCredits: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(balance()).To(Equal("0.00"))

			gateway.complete("evnt_test_3", order.ChargeID, ports.ChargeFailed)
			Expect(e.Orders.HandlePaymentWebhook(ctx, "evnt_test_3")).To(Succeed())

			failed, err := e.Orders.GetOrder(ctx, buyer, order.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(failed.Status).To(Equal(entities.OrderFailed))
			Expect(balance()).To(Equal("100.00"))

			_, err = e.Orders.Cancel(ctx, buyer, order.ID)
			Expect(err).To(MatchError(errors.ErrInvalidTransition))
		})

		It("cancela antes da cobrança existir e trata o pagamento tardio como estorno", func() {
			_, err := e.Credits.Grant(ctx, buyer.ID, decimal.NewFromInt(100), "")
			Expect(err).NotTo(HaveOccurred())
			fillCart(1)

			var cancelled *entities.Order
			gateway.beforeCharge = func(req ports.ChargeRequest) {
				defer GinkgoRecover()
				var cancelErr error
				cancelled, cancelErr = e.Orders.Cancel(ctx, buyer, req.OrderID)
				Expect(cancelErr).NotTo(HaveOccurred())
			}

			_, err = e.Orders.Checkout(ctx, buyer, services.CheckoutInput{SourceID: "src_test", UseCredits: true})
			Expect(err).To(MatchError(errors.ErrInvalidTransition))
			Expect(cancelled).NotTo(BeNil())
			Expect(cancelled.Status).To(Equal(entities.OrderCancelled))
			Expect(balance()).To(Equal("100.00"))

			chargeID := "chrg_test_" + cancelled.Number
			gateway.complete("evnt_test_4", chargeID, ports.ChargeSuccessful)
			Expect(e.Orders.HandlePaymentWebhook(ctx, "evnt_test_4")).To(Succeed())

			order, err := e.Orders.GetOrder(ctx, buyer, cancelled.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(order.Status).To(Equal(entities.OrderCancelled))
			Expect(order.ChargeID).To(BeEmpty())
			Expect(stock()).To(Equal(3))
			Expect(balance()).To(Equal("100.00"))
			Expect(e.publisher.Keys()).NotTo(ContainElement(ports.EventOrderPaid))
		})
	})

	Context("quando a cobrança é recusada", func() {
		BeforeEach(func() { setup(ports.ChargeFailed) })

		It("marca o pedido como falho e devolve os créditos", func() {
			_, err := e.Credits.Grant(ctx, buyer.ID, decimal.NewFromInt(50), "")
			Expect(err).NotTo(HaveOccurred())
			fillCart(1)

			_, err = e.Orders.Checkout(ctx, buyer, services.CheckoutInput{CardToken: "tokn_test_declined", UseCredits: true})
			Expect(err).To(MatchError(errors.ErrPaymentFailed))

			orders, err := e.Orders.ListMyOrders(ctx, buyer, repositories.Pagination{})
			Expect(err).NotTo(HaveOccurred())
			Expect(orders).To(HaveLen(1))
			Expect(orders[0].Status).To(Equal(entities.OrderFailed))
			Expect(orders[0].FailureReason).To(ContainSubstring("insufficient funds"))

			Expect(balance()).To(Equal("50.00"))
			Expect(stock()).To(Equal(3))
			Expect(e.publisher.Keys()).To(ContainElement(ports.EventOrderFailed))
		})

		It("trata erro do gateway como falha de pagamento", func() {
			gateway.err = stdErrors.New("connection reset")
			fillCart(1)

			_, err := e.Orders.Checkout(ctx, buyer, services.CheckoutInput{CardToken: "tokn_test_1"})
			Expect(err).To(MatchError(errors.ErrPaymentFailed))
		})
	})

	Context("sem gateway configurado", func() {
		BeforeEach(func() {
			e = newEnv(nil)
			seller = e.user(sellerID, "seller@example.com")
			buyer = e.user(buyerID, "buyer@example.com")
			book = e.product(seller, "Clean Architecture", "450.00", "THB", 3)
		})

		It("recusa checkout com valor a cobrar", func() {
			fillCart(1)
			_, err := e.Orders.Checkout(ctx, buyer, services.CheckoutInput{CardToken: "tokn_test_1"})
			Expect(err).To(MatchError(errors.ErrPaymentUnavailable))
		})

		It("recusa webhooks", func() {
			Expect(e.Orders.HandlePaymentWebhook(ctx, "evnt_test_1")).To(MatchError(errors.ErrPaymentUnavailable))
		})
	})

	Describe("visibilidade e entrega", func() {
		BeforeEach(func() { setup(ports.ChargeSuccessful) })

		It("só comprador, vendedor ou admin enxergam o pedido", func() {
			fillCart(1)
			order, err := e.Orders.Checkout(ctx, buyer, services.CheckoutInput{CardToken: "tokn_test_1"})
			Expect(err).NotTo(HaveOccurred())

			stranger := e.user("aaaaaaaa-0000-0000-0000-000000000003", "stranger@example.com")
			_, err = e.Orders.GetOrder(ctx, stranger, order.ID)
			Expect(err).To(MatchError(errors.ErrForbidden))

			_, err = e.Orders.Fulfill(ctx, buyer, order.ID)
			Expect(err).To(MatchError(errors.ErrForbidden))

			fulfilled, err := e.Orders.Fulfill(ctx, seller, order.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(fulfilled.Status).To(Equal(entities.OrderFulfilled))

			sales, err := e.Orders.ListSales(ctx, seller, repositories.Pagination{})
			Expect(err).NotTo(HaveOccurred())
			Expect(sales).To(HaveLen(1))
		})
	})
})
