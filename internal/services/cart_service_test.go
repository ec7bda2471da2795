package services_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/services"
)

var _ = Describe("CartService", func() {
	var (
		ctx    context.Context
		e      *env
		seller *entities.User
		buyer  *entities.User
		book   *entities.Product
	)

	BeforeEach(func() {
		ctx = context.Background()
		e = newEnv(nil)
		seller = e.user(sellerID, "seller@example.com")
		buyer = e.user(buyerID, "buyer@example.com")
		book = e.product(seller, "Clean Architecture", "450.00", "THB", 3)
	})

	Describe("carrinho de visitante", func() {
		It("cria o carrinho e soma a quantidade do mesmo item", func() {
			_, token, err := e.Cart.CreateGuestCart(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(BeEmpty())

			ref := services.CartRef{Token: token}
			_, err = e.Cart.AddItem(ctx, ref, entities.EntityProduct, book.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			view, err := e.Cart.AddItem(ctx, ref, entities.EntityProduct, book.ID, 1)
			Expect(err).NotTo(HaveOccurred())

			Expect(view.Lines).To(HaveLen(1))
			Expect(view.Lines[0].Item.Quantity).To(Equal(2))
			Expect(view.Subtotal.StringFixed(2)).To(Equal("900.00"))
			Expect(view.Currency).To(Equal("THB"))
		})

		It("rejeita token desconhecido", func() {
			_, err := e.Cart.GetCart(ctx, services.CartRef{Token: "nao-existe"})
			Expect(err).To(MatchError(errors.ErrCartNotFound))
		})

		It("rejeita quantidade acima do estoque", func() {
			_, token, err := e.Cart.CreateGuestCart(ctx)
			Expect(err).NotTo(HaveOccurred())
			_, err = e.Cart.AddItem(ctx, services.CartRef{Token: token}, entities.EntityProduct, book.ID, 4)
			Expect(err).To(MatchError(errors.ErrInsufficientStock))
		})

		It("rejeita quantidades fora dos limites", func() {
			_, token, err := e.Cart.CreateGuestCart(ctx)
			Expect(err).NotTo(HaveOccurred())
			ref := services.CartRef{Token: token}

			_, err = e.Cart.AddItem(ctx, ref, entities.EntityProduct, book.ID, 0)
			Expect(err).To(MatchError(errors.ErrInvalidInput))
			_, err = e.Cart.AddItem(ctx, ref, entities.EntityProduct, book.ID, entities.MaxCartQuantity+1)
			Expect(err).To(MatchError(errors.ErrInvalidInput))
		})
	})

	Describe("regras de linha", func() {
		It("não deixa o vendedor comprar a própria listagem", func() {
			_, err := e.Cart.AddItem(ctx, services.CartRef{UserID: seller.ID}, entities.EntityProduct, book.ID, 1)
			Expect(err).To(MatchError(errors.ErrOwnListing))
		})

		It("mantém uma única moeda por carrinho", func() {
			dollars := e.product(seller, "Imported Keyboard", "80.00", "USD", 5)
			ref := services.CartRef{UserID: buyer.ID}

			_, err := e.Cart.AddItem(ctx, ref, entities.EntityProduct, book.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			_, err = e.Cart.AddItem(ctx, ref, entities.EntityProduct, dollars.ID, 1)
			Expect(err).To(MatchError(errors.ErrCurrencyMismatch))
		})

		It("aceita ingressos de evento e recusa tipos não compráveis", func() {
			concert := e.event(seller, "Jazz at the Park", "300.00", 50)
			ref := services.CartRef{UserID: buyer.ID}

			view, err := e.Cart.AddItem(ctx, ref, entities.EntityEvent, concert.ID, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Subtotal.StringFixed(2)).To(Equal("600.00"))

			_, err = e.Cart.AddItem(ctx, ref, entities.EntityJob, concert.ID, 1)
			Expect(err).To(MatchError(errors.ErrInvalidEntityType))
		})

		It("atualiza e remove linhas", func() {
			ref := services.CartRef{UserID: buyer.ID}
			view, err := e.Cart.AddItem(ctx, ref, entities.EntityProduct, book.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			itemID := view.Lines[0].Item.ID

			view, err = e.Cart.UpdateItem(ctx, ref, itemID, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Lines[0].Item.Quantity).To(Equal(3))

			view, err = e.Cart.UpdateItem(ctx, ref, itemID, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Lines).To(BeEmpty())

			_, err = e.Cart.RemoveItem(ctx, ref, itemID)
			Expect(err).To(MatchError(errors.ErrNotFound))
		})
	})

	Describe("MergeGuestCart", func() {
		It("move os itens para o carrinho do usuário e apaga o de visitante", func() {
			_, token, err := e.Cart.CreateGuestCart(ctx)
			Expect(err).NotTo(HaveOccurred())
			_, err = e.Cart.AddItem(ctx, services.CartRef{Token: token}, entities.EntityProduct, book.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			_, err = e.Cart.AddItem(ctx, services.CartRef{UserID: buyer.ID}, entities.EntityProduct, book.ID, 1)
			Expect(err).NotTo(HaveOccurred())

			view, err := e.Cart.MergeGuestCart(ctx, buyer.ID, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Lines).To(HaveLen(1))
			Expect(view.Lines[0].Item.Quantity).To(Equal(2))

			_, err = e.Cart.GetCart(ctx, services.CartRef{Token: token})
			Expect(err).To(MatchError(errors.ErrCartNotFound))
		})

		It("descarta linhas que o usuário não pode comprar", func() {
			_, token, err := e.Cart.CreateGuestCart(ctx)
			Expect(err).NotTo(HaveOccurred())
			_, err = e.Cart.AddItem(ctx, services.CartRef{Token: token}, entities.EntityProduct, book.ID, 1)
			Expect(err).NotTo(HaveOccurred())

			view, err := e.Cart.MergeGuestCart(ctx, seller.ID, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Lines).To(BeEmpty())
		})
	})
})
