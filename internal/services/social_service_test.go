package services_test

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
	"github.com/rafabene/marketplace-backend/internal/services"
)

var _ = Describe("ReviewService", func() {
	var (
		ctx    context.Context
		e      *env
		seller *entities.User
		buyer  *entities.User
		other  *entities.User
		book   *entities.Product
	)

	review := func(author *entities.User, rating int) (*entities.Review, error) {
		return e.Reviews.Create(ctx, author, services.ReviewInput{
			EntityType: entities.EntityProduct,
			EntityID:   book.ID,
			Rating:     rating,
			Comment:    "  Chegou rápido  ",
		})
	}

	BeforeEach(func() {
		ctx = context.Background()
		e = newEnv(nil)
		seller = e.user(sellerID, "seller@example.com")
		buyer = e.user(buyerID, "buyer@example.com")
		other = e.user(otherID, "other@example.com")
		book = e.product(seller, "Clean Architecture", "450.00", "THB", 3)
	})

	It("aceita uma avaliação por autor e atualiza o resumo", func() {
		r, err := review(buyer, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Comment).To(Equal("Chegou rápido"))
		_, err = review(other, 5)
		Expect(err).NotTo(HaveOccurred())

		_, err = review(buyer, 1)
		Expect(err).To(MatchError(errors.ErrAlreadyReviewed))

		summary, err := e.Reviews.Summary(ctx, entities.EntityProduct, book.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Count).To(Equal(int64(2)))
		Expect(summary.Average).To(BeNumerically("~", 4.5, 0.001))

		p, err := e.products.FindByID(ctx, book.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Rating).To(BeNumerically("~", 4.5, 0.001))
		Expect(e.publisher.Keys()).To(Equal([]string{ports.EventReviewCreated, ports.EventReviewCreated}))
	})

	It("recusa avaliar a própria listagem", func() {
		_, err := review(seller, 5)
		Expect(err).To(MatchError(errors.ErrOwnListing))
	})

	It("valida nota e listagem", func() {
		_, err := review(buyer, 6)
		Expect(err).To(MatchError(errors.ErrInvalidInput))

		_, err = e.Reviews.Create(ctx, buyer, services.ReviewInput{EntityType: entities.EntityJob, EntityID: book.ID, Rating: 3})
		Expect(err).To(MatchError(errors.ErrListingNotFound))

		_, err = e.Reviews.Summary(ctx, entities.EntityType("car"), book.ID)
		Expect(err).To(MatchError(errors.ErrInvalidEntityType))
	})

	It("recalcula o resumo quando o autor remove a avaliação", func() {
		r, err := review(buyer, 2)
		Expect(err).NotTo(HaveOccurred())

		Expect(e.Reviews.Delete(ctx, other, r.ID)).To(MatchError(errors.ErrForbidden))
		Expect(e.Reviews.Delete(ctx, buyer, r.ID)).To(Succeed())

		summary, err := e.Reviews.Summary(ctx, entities.EntityProduct, book.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Count).To(BeZero())
	})
})

var _ = Describe("WishlistService", func() {
	var (
		ctx    context.Context
		e      *env
		seller *entities.User
		book   *entities.Product
	)

	BeforeEach(func() {
		ctx = context.Background()
		e = newEnv(nil)
		seller = e.user(sellerID, "seller@example.com")
		e.user(buyerID, "buyer@example.com")
		book = e.product(seller, "Clean Architecture", "450.00", "THB", 3)
	})

	It("salvar duas vezes não duplica", func() {
		_, err := e.Wishlist.Add(ctx, buyerID, entities.EntityProduct, book.ID)
		Expect(err).NotTo(HaveOccurred())
		_, err = e.Wishlist.Add(ctx, buyerID, entities.EntityProduct, book.ID)
		Expect(err).NotTo(HaveOccurred())

		items, err := e.Wishlist.List(ctx, buyerID, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(1))

		saved, err := e.Wishlist.Contains(ctx, buyerID, entities.EntityProduct, book.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(saved).To(BeTrue())

		Expect(e.Wishlist.Remove(ctx, buyerID, entities.EntityProduct, book.ID)).To(Succeed())
		saved, err = e.Wishlist.Contains(ctx, buyerID, entities.EntityProduct, book.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(saved).To(BeFalse())
	})

	It("recusa listagens inexistentes ou de tipo inválido", func() {
		_, err := e.Wishlist.Add(ctx, buyerID, entities.EntityEvent, book.ID)
		Expect(err).To(MatchError(errors.ErrListingNotFound))
		_, err = e.Wishlist.Add(ctx, buyerID, entities.EntityType("car"), book.ID)
		Expect(err).To(MatchError(errors.ErrInvalidEntityType))
	})
})

var _ = Describe("MessagingService", func() {
	var (
		ctx   context.Context
		e     *env
		alice *entities.User
		bob   *entities.User
		eve   *entities.User
		conv  *entities.Conversation
	)

	BeforeEach(func() {
		ctx = context.Background()
		e = newEnv(nil)
		alice = e.user(sellerID, "alice@example.com")
		bob = e.user(buyerID, "bob@example.com")
		eve = e.user(otherID, "eve@example.com")

		var err error
		conv, err = e.Messaging.StartConversation(ctx, alice, bob.ID)
		Expect(err).NotTo(HaveOccurred())
	})

	It("retorna a conversa existente para o mesmo par", func() {
		again, err := e.Messaging.StartConversation(ctx, alice, bob.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(again.ID).To(Equal(conv.ID))

		reverse, err := e.Messaging.StartConversation(ctx, bob, alice.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(reverse.ID).To(Equal(conv.ID))

		_, err = e.Messaging.StartConversation(ctx, alice, alice.ID)
		Expect(err).To(MatchError(errors.ErrSelfConversation))
		_, err = e.Messaging.StartConversation(ctx, alice, "ffffffff-0000-0000-0000-000000000000")
		Expect(err).To(MatchError(errors.ErrUserNotFound))
	})

	It("só participantes leem e escrevem", func() {
		_, err := e.Messaging.SendMessage(ctx, eve, conv.ID, "oi")
		Expect(err).To(MatchError(errors.ErrConversationNotFound))
		_, err = e.Messaging.ListMessages(ctx, eve, conv.ID, nil, 0)
		Expect(err).To(MatchError(errors.ErrConversationNotFound))

		_, err = e.Messaging.SendMessage(ctx, alice, conv.ID, "  Ainda disponível?  ")
		Expect(err).NotTo(HaveOccurred())

		msgs, err := e.Messaging.ListMessages(ctx, bob, conv.ID, nil, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(msgs).To(HaveLen(1))
		Expect(msgs[0].Body).To(Equal("Ainda disponível?"))
		Expect(e.broadcaster.count(bob.ID)).To(Equal(1))
		Expect(e.broadcaster.count(alice.ID)).To(BeZero())
	})

	It("exige corpo entre 1 e 4000 caracteres", func() {
		_, err := e.Messaging.SendMessage(ctx, alice, conv.ID, "   ")
		Expect(err).To(MatchError(errors.ErrInvalidInput))

		_, err = e.Messaging.SendMessage(ctx, alice, conv.ID, strings.Repeat("é", services.MaxMessageLength+1))
		Expect(err).To(MatchError(errors.ErrInvalidInput))

		// o limite conta caracteres, não bytes
		_, err = e.Messaging.SendMessage(ctx, alice, conv.ID, strings.Repeat("é", services.MaxMessageLength))
		Expect(err).NotTo(HaveOccurred())
	})

	It("marca como lidas apenas as mensagens recebidas", func() {
		_, err := e.Messaging.SendMessage(ctx, alice, conv.ID, "um")
		Expect(err).NotTo(HaveOccurred())
		_, err = e.Messaging.SendMessage(ctx, alice, conv.ID, "dois")
		Expect(err).NotTo(HaveOccurred())

		marked, err := e.Messaging.MarkRead(ctx, alice, conv.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(marked).To(BeZero())

		marked, err = e.Messaging.MarkRead(ctx, bob, conv.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(marked).To(Equal(int64(2)))
	})
})

var _ = Describe("RealtimeRecords", func() {
	var (
		ctx context.Context
		e   *env
	)

	BeforeEach(func() {
		ctx = context.Background()
		e = newEnv(nil)
	})

	It("remonta mensagens e notificações pelo id anunciado", func() {
		alice := e.user(sellerID, "alice@example.com")
		bob := e.user(buyerID, "bob@example.com")
		conv, err := e.Messaging.StartConversation(ctx, alice, bob.ID)
		Expect(err).NotTo(HaveOccurred())
		body := strings.Repeat("ç", services.MaxMessageLength)
		msg, err := e.Messaging.SendMessage(ctx, alice, conv.ID, body)
		Expect(err).NotTo(HaveOccurred())

		payload, err := e.Realtime.LoadRealtime(ctx, ports.RealtimeMessageSent, msg.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(payload).To(HaveKeyWithValue("body", body))
		Expect(payload).To(HaveKeyWithValue("conversation_id", conv.ID))

		Expect(e.Notifications.Handle(ctx, ports.NewDomainEvent(ports.EventCreditsGranted, map[string]any{
			"user_id": bob.ID,
			"amount":  "10.00",
		}))).To(Succeed())
		list, err := e.Notifications.List(ctx, bob.ID, false, repositories.Pagination{})
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(1))

		payload, err = e.Realtime.LoadRealtime(ctx, ports.RealtimeNotification, list[0].ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(payload).To(HaveKeyWithValue("type", string(entities.NotificationCredits)))
	})

	It("devolve nil para linhas removidas ou canais desconhecidos", func() {
		payload, err := e.Realtime.LoadRealtime(ctx, ports.RealtimeMessageSent, "ffffffff-0000-0000-0000-000000000000")
		Expect(err).NotTo(HaveOccurred())
		Expect(payload).To(BeNil())

		payload, err = e.Realtime.LoadRealtime(ctx, "presence", "x")
		Expect(err).NotTo(HaveOccurred())
		Expect(payload).To(BeNil())
	})
})
