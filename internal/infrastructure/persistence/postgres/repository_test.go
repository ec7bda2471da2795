package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
	"github.com/rafabene/marketplace-backend/internal/domain/valueobjects"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/marketplace-backend/internal/testutil"
)

func newUser(t *testing.T, db *gorm.DB, id, email string) *entities.User {
	t.Helper()
	addr, err := valueobjects.NewEmail(email)
	require.NoError(t, err)
	user := &entities.User{ID: id, Email: addr, Name: "User " + id, Role: entities.RoleUser}
	require.NoError(t, postgres.NewUserRepository(db).Create(context.Background(), user))
	return user
}

func newProduct(t *testing.T, repo repositories.ProductRepository, seller, title, price string, stock int) *entities.Product {
	t.Helper()
	p := &entities.Product{
		SellerID: seller,
		Title:    title,
		Category: "books",
		Price:    decimal.RequireFromString(price),
		Currency: "THB",
		Stock:    stock,
		Status:   entities.ProductActive,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestUserRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	user := newUser(t, db, "11111111-1111-1111-1111-111111111111", "ana@example.com")

	t.Run("busca por id e email", func(t *testing.T) {
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "ana@example.com", found.Email.String())

		byEmail, err := repo.FindByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, user.ID, byEmail.ID)
	})

	t.Run("email duplicado vira conflito", func(t *testing.T) {
		addr, _ := valueobjects.NewEmail("ana@example.com")
		err := repo.Create(ctx, &entities.User{ID: "22222222-2222-2222-2222-222222222222", Email: addr, Name: "Outra", Role: entities.RoleUser})
		assert.ErrorIs(t, err, domainerrors.ErrConflict)
	})

	t.Run("soft delete esconde o perfil", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, user.ID))
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestProductRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := postgres.NewProductRepository(db)
	ctx := context.Background()
	seller := "33333333-3333-3333-3333-333333333333"

	cheap := newProduct(t, repo, seller, "Go Programming", "100.00", 5)
	newProduct(t, repo, seller, "Rust in Action", "450.50", 1)
	newProduct(t, repo, seller, "Guitar Strings", "80.00", 10)

	t.Run("filtra por palavras e faixa de preço", func(t *testing.T) {
		lowest := decimal.NewFromInt(90)
		list, total, err := repo.List(ctx, repositories.ProductFilters{Words: []string{"programming"}, MinPrice: &lowest})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, list, 1)
		assert.Equal(t, cheap.ID, list[0].ID)
	})

	t.Run("ordena por preço", func(t *testing.T) {
		list, total, err := repo.List(ctx, repositories.ProductFilters{Sort: repositories.SortPriceDesc})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, list, 3)
		assert.Equal(t, "Rust in Action", list[0].Title)
		assert.Equal(t, "Guitar Strings", list[2].Title)
	})

	t.Run("pagina mantendo o total", func(t *testing.T) {
		list, total, err := repo.List(ctx, repositories.ProductFilters{Pagination: repositories.Pagination{Page: 2, PageSize: 2}})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, list, 1)
	})

	t.Run("estoque não fica negativo", func(t *testing.T) {
		require.NoError(t, repo.AdjustStock(ctx, cheap.ID, -5))
		err := repo.AdjustStock(ctx, cheap.ID, -1)
		assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock)

		found, err := repo.FindByID(ctx, cheap.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, found.Stock)
	})

	t.Run("produto removido some da listagem", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, cheap.ID))
		found, err := repo.FindByID(ctx, cheap.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestEventRepository_Tickets(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := postgres.NewEventRepository(db)
	ctx := context.Background()

	event := &entities.Event{
		OrganizerID: "44444444-4444-4444-4444-444444444444",
		Title:       "Jazz Night",
		Location:    valueobjects.Coordinates{Latitude: 13.75, Longitude: 100.5},
		StartsAt:    time.Now().Add(24 * time.Hour),
		EndsAt:      time.Now().Add(27 * time.Hour),
		TicketPrice: decimal.NewFromInt(500),
		Currency:    "THB",
		Capacity:    3,
		Status:      entities.EventScheduled,
	}
	require.NoError(t, repo.Create(ctx, event))

	require.NoError(t, repo.AddTicketsSold(ctx, event.ID, 2))
	assert.ErrorIs(t, repo.AddTicketsSold(ctx, event.ID, 2), domainerrors.ErrEventSoldOut)
	require.NoError(t, repo.AddTicketsSold(ctx, event.ID, 1))

	found, err := repo.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.True(t, found.IsSoldOut())

	inBox, err := repo.ListInBox(ctx, valueobjects.BoundingBox{MinLat: 13.7, MaxLat: 13.8, Lng: []valueobjects.LngRange{{Min: 100.4, Max: 100.6}}})
	require.NoError(t, err)
	assert.Len(t, inBox, 1)

	outside, err := repo.ListInBox(ctx, valueobjects.BoundingBox{MinLat: 18.7, MaxLat: 18.8, Lng: []valueobjects.LngRange{{Min: 98.9, Max: 99.0}}})
	require.NoError(t, err)
	assert.Empty(t, outside)
}

func TestEventRepository_ListInBoxAcrossAntimeridian(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := postgres.NewEventRepository(db)
	ctx := context.Background()

	create := func(title string, lng float64) {
		t.Helper()
		require.NoError(t, repo.Create(ctx, &entities.Event{
			OrganizerID: "45454545-4545-4545-4545-454545454545",
			Title:       title,
			Location:    valueobjects.Coordinates{Latitude: -17.0, Longitude: lng},
			StartsAt:    time.Now().Add(24 * time.Hour),
			EndsAt:      time.Now().Add(27 * time.Hour),
			TicketPrice: decimal.NewFromInt(100),
			Currency:    "FJD",
			Capacity:    10,
			Status:      entities.EventScheduled,
		}))
	}
	create("Suva Fest", 179.9)
	create("Taveuni Dive", -179.8)
	create("Lautoka Market", 170.0)

	center, err := valueobjects.NewCoordinates(-17.0, 179.9)
	require.NoError(t, err)
	found, err := repo.ListInBox(ctx, center.BoundingBox(50))
	require.NoError(t, err)

	titles := make([]string, 0, len(found))
	for _, e := range found {
		titles = append(titles, e.Title)
	}
	assert.ElementsMatch(t, []string{"Suva Fest", "Taveuni Dive"}, titles)
}

func TestCartRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := postgres.NewCartRepository(db)
	ctx := context.Background()

	cart := &entities.Cart{TokenHash: "hash-1"}
	require.NoError(t, repo.Create(ctx, cart))

	productID := "55555555-5555-5555-5555-555555555555"
	item := &entities.CartItem{CartID: cart.ID, EntityType: entities.EntityProduct, EntityID: productID, Quantity: 1}
	require.NoError(t, repo.SaveItem(ctx, item))
	firstID := item.ID

	t.Run("upsert mantém a mesma linha", func(t *testing.T) {
		again := &entities.CartItem{CartID: cart.ID, EntityType: entities.EntityProduct, EntityID: productID, Quantity: 4}
		require.NoError(t, repo.SaveItem(ctx, again))
		assert.Equal(t, firstID, again.ID)

		found, err := repo.FindByTokenHash(ctx, "hash-1")
		require.NoError(t, err)
		require.NotNil(t, found)
		require.Len(t, found.Items, 1)
		assert.Equal(t, 4, found.Items[0].Quantity)
	})

	t.Run("clear e delete", func(t *testing.T) {
		require.NoError(t, repo.Clear(ctx, cart.ID))
		found, err := repo.FindByID(ctx, cart.ID)
		require.NoError(t, err)
		assert.True(t, found.IsEmpty())

		require.NoError(t, repo.Delete(ctx, cart.ID))
		found, err = repo.FindByID(ctx, cart.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("um carrinho por dono", func(t *testing.T) {
		owner := "66666666-6666-6666-6666-666666666666"
		require.NoError(t, repo.Create(ctx, &entities.Cart{OwnerID: &owner}))
		err := repo.Create(ctx, &entities.Cart{OwnerID: &owner})
		assert.ErrorIs(t, err, domainerrors.ErrConflict)
	})
}

func TestCreditRepository_Balance(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := postgres.NewCreditRepository(db)
	ctx := context.Background()
	user := "77777777-7777-7777-7777-777777777777"

	balance, err := repo.Balance(ctx, user)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	require.NoError(t, repo.Create(ctx, &entities.CreditTransaction{UserID: user, Amount: decimal.RequireFromString("100.00"), Reason: entities.CreditGrant}))
	require.NoError(t, repo.Create(ctx, &entities.CreditTransaction{UserID: user, Amount: decimal.RequireFromString("-30.50"), Reason: entities.CreditSpend}))

	balance, err = repo.Balance(ctx, user)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("69.50")), "saldo %s", balance)

	history, err := repo.List(ctx, user, repositories.Pagination{})
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestOrderRepository_ConditionalUpdates(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := postgres.NewOrderRepository(db)
	ctx := context.Background()

	newOrder := func(number string) *entities.Order {
		t.Helper()
		order := &entities.Order{
			Number:   number,
			BuyerID:  "99999999-9999-9999-9999-999999999999",
			Status:   entities.OrderPending,
			Subtotal: decimal.NewFromInt(100),
			Total:    decimal.NewFromInt(100),
			Currency: "THB",
		}
		require.NoError(t, repo.Create(ctx, order))
		return order
	}

	t.Run("cancela só pendente sem cobrança", func(t *testing.T) {
		order := newOrder("ORD-C1")

		ok, err := repo.CancelPending(ctx, order.ID, time.Now())
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.CancelPending(ctx, order.ID, time.Now())
		require.NoError(t, err)
		assert.False(t, ok, "já cancelado")

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.OrderCancelled, found.Status)
	})

	t.Run("pedido com cobrança não é cancelado", func(t *testing.T) {
		order := newOrder("ORD-C2")

		attached, err := repo.AttachCharge(ctx, order.ID, "chrg_1", "https://pay.example.com/a")
		require.NoError(t, err)
		assert.True(t, attached)

		ok, err := repo.CancelPending(ctx, order.ID, time.Now())
		require.NoError(t, err)
		assert.False(t, ok)

		found, err := repo.FindByChargeID(ctx, "chrg_1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, entities.OrderPending, found.Status)
	})

	t.Run("cobrança não se prende a pedido cancelado", func(t *testing.T) {
		order := newOrder("ORD-C3")
		_, err := repo.CancelPending(ctx, order.ID, time.Now())
		require.NoError(t, err)

		attached, err := repo.AttachCharge(ctx, order.ID, "chrg_2", "")
		require.NoError(t, err)
		assert.False(t, attached)
	})

	t.Run("transição perde para quem mudou o status antes", func(t *testing.T) {
		order := newOrder("ORD-C4")
		now := time.Now()

		order.Status = entities.OrderPaid
		order.PaidAt = &now
		moved, err := repo.TransitionStatus(ctx, order, entities.OrderPending)
		require.NoError(t, err)
		assert.True(t, moved)

		order.Status = entities.OrderFailed
		moved, err = repo.TransitionStatus(ctx, order, entities.OrderPending)
		require.NoError(t, err)
		assert.False(t, moved)

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.OrderPaid, found.Status)
		assert.NotNil(t, found.PaidAt)
	})
}

func TestUnitOfWork_Rollback(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	uow := postgres.NewUnitOfWork(db)
	credits := postgres.NewCreditRepository(db)
	ctx := context.Background()
	user := "88888888-8888-8888-8888-888888888888"
	boom := errors.New("boom")

	err := uow.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := credits.Create(txCtx, &entities.CreditTransaction{UserID: user, Amount: decimal.NewFromInt(10), Reason: entities.CreditGrant}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	balance, err := credits.Balance(ctx, user)
	require.NoError(t, err)
	assert.True(t, balance.IsZero(), "a transação deveria ter sido desfeita")

	err = uow.WithTransaction(ctx, func(txCtx context.Context) error {
		return uow.WithTransaction(txCtx, func(inner context.Context) error {
			return credits.Create(inner, &entities.CreditTransaction{UserID: user, Amount: decimal.NewFromInt(10), Reason: entities.CreditGrant})
		})
	})
	require.NoError(t, err)

	balance, err = credits.Balance(ctx, user)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(10)))
}
