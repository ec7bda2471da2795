package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafabene/marketplace-backend/internal/app"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/config"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/logging"
	"github.com/rafabene/marketplace-backend/internal/testutil"
)

const sampleSeed = `
users:
  - id: cccccccc-0000-0000-0000-000000000001
    email: somchai@example.com
    name: Somchai
  - id: cccccccc-0000-0000-0000-000000000002
    email: malee@example.com
    name: Malee

products:
  - seller: cccccccc-0000-0000-0000-000000000001
    title: Handmade Silk Scarf
    category: fashion
    price: "890.00"
    stock: 12

jobs:
  - poster: cccccccc-0000-0000-0000-000000000001
    title: Go Backend Engineer
    company: Siam Tech
    location: Bangkok
    remote: true
    employment_type: full_time
    skills: [go, postgres]

events:
  - organizer: cccccccc-0000-0000-0000-000000000002
    title: Riverside Jazz Night
    venue: Asiatique
    latitude: 13.7045
    longitude: 100.5030
    starts_at: 2030-02-01T19:00:00Z
    ends_at: 2030-02-01T23:00:00Z
    ticket_price: "650"
    capacity: 200

freelancers:
  - profile: cccccccc-0000-0000-0000-000000000002
    headline: Product designer
    skills: [figma, ux]
    hourly_rate: "1200"

artistes:
  - profile: cccccccc-0000-0000-0000-000000000001
    stage_name: DJ Somchai
    genre: house
    booking_fee: "15000"

credits:
  - user: cccccccc-0000-0000-0000-000000000002
    amount: "250.00"
    note: welcome bonus
`

func newSeedApp(t *testing.T) *app.App {
	t.Helper()
	t.Setenv("STORAGE_LOCAL_DIR", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	application, err := app.NewWithDB(context.Background(), cfg, logging.NewNopLogger(), testutil.NewSQLiteDB(t))
	require.NoError(t, err)
	return application
}

func TestLoadSeed(t *testing.T) {
	t.Run("arquivo completo", func(t *testing.T) {
		seed, err := loadSeed(strings.NewReader(sampleSeed))
		require.NoError(t, err)
		assert.Len(t, seed.Users, 2)
		assert.Len(t, seed.Products, 1)
		assert.Equal(t, []string{"go", "postgres"}, seed.Jobs[0].Skills)
		assert.Equal(t, 2030, seed.Events[0].StartsAt.Year())
	})

	t.Run("arquivo vazio", func(t *testing.T) {
		seed, err := loadSeed(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, seed.Users)
	})

	t.Run("campo desconhecido", func(t *testing.T) {
		_, err := loadSeed(strings.NewReader("products:\n  - title: Scarf\n    colour: red\n"))
		assert.Error(t, err)
	})
}

func TestApplySeed(t *testing.T) {
	application := newSeedApp(t)
	ctx := context.Background()

	seed, err := loadSeed(strings.NewReader(sampleSeed))
	require.NoError(t, err)

	report, err := applySeed(ctx, application.Services, seed)
	require.NoError(t, err)
	assert.Equal(t, seedReport{Users: 2, Products: 1, Jobs: 1, Events: 1, Freelancers: 1, Artistes: 1, Credits: 1}, report)

	products, total, err := application.Services.Products.List(ctx, nil, repositories.ProductFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "THB", products[0].Currency)

	balance, err := application.Services.Credits.Balance(ctx, "cccccccc-0000-0000-0000-000000000002")
	require.NoError(t, err)
	assert.Equal(t, "250.00", balance.StringFixed(2))

	t.Run("dono desconhecido interrompe a carga", func(t *testing.T) {
		bad, err := loadSeed(strings.NewReader("products:\n  - seller: cccccccc-0000-0000-0000-000000000099\n    title: Ghost Product\n    price: \"10\"\n"))
		require.NoError(t, err)

		_, err = applySeed(ctx, application.Services, bad)
		assert.ErrorContains(t, err, "Ghost Product")
	})

	t.Run("valor de crédito inválido", func(t *testing.T) {
		bad, err := loadSeed(strings.NewReader("credits:\n  - user: cccccccc-0000-0000-0000-000000000001\n    amount: lots\n"))
		require.NoError(t, err)

		_, err = applySeed(ctx, application.Services, bad)
		assert.ErrorContains(t, err, "invalid amount")
	})
}
