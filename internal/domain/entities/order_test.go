package entities

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func pricedLines(cents []int64, qty int) []PricedLine {
	lines := make([]PricedLine, 0, len(cents))
	for _, c := range cents {
		lines = append(lines, PricedLine{
			Item:      CartItem{Quantity: qty},
			UnitPrice: decimal.New(c, -2),
			Currency:  "THB",
			Available: true,
		})
	}
	return lines
}

func TestTotals_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("subtotal = créditos + total", prop.ForAll(
		func(cents []int64, qty int, creditCents int64) bool {
			subtotal, credits, total := Totals(pricedLines(cents, qty), decimal.New(creditCents, -2))
			return subtotal.Equal(credits.Add(total))
		},
		gen.SliceOf(gen.Int64Range(1, 1_000_000)),
		gen.IntRange(1, MaxCartQuantity),
		gen.Int64Range(-10_000, 50_000_000),
	))

	properties.Property("créditos nunca excedem o subtotal nem o saldo", prop.ForAll(
		func(cents []int64, qty int, creditCents int64) bool {
			available := decimal.New(creditCents, -2)
			subtotal, credits, _ := Totals(pricedLines(cents, qty), available)
			if credits.IsNegative() || credits.GreaterThan(subtotal) {
				return false
			}
			return !available.IsPositive() || credits.LessThanOrEqual(available)
		},
		gen.SliceOf(gen.Int64Range(1, 1_000_000)),
		gen.IntRange(1, MaxCartQuantity),
		gen.Int64Range(-10_000, 50_000_000),
	))

	properties.Property("total nunca é negativo", prop.ForAll(
		func(cents []int64, creditCents int64) bool {
			_, _, total := Totals(pricedLines(cents, 1), decimal.New(creditCents, -2))
			return !total.IsNegative()
		},
		gen.SliceOf(gen.Int64Range(1, 1_000_000)),
		gen.Int64Range(0, 50_000_000),
	))

	properties.TestingRun(t)
}

func TestTotals_Exemplos(t *testing.T) {
	lines := []PricedLine{
		{Item: CartItem{Quantity: 2}, UnitPrice: decimal.RequireFromString("150.00")},
		{Item: CartItem{Quantity: 1}, UnitPrice: decimal.RequireFromString("99.50")},
	}

	t.Run("sem créditos", func(t *testing.T) {
		subtotal, credits, total := Totals(lines, decimal.Zero)
		if !subtotal.Equal(decimal.RequireFromString("399.50")) || !credits.IsZero() || !total.Equal(subtotal) {
			t.Errorf("obteve subtotal=%s créditos=%s total=%s", subtotal, credits, total)
		}
	})

	t.Run("créditos parciais", func(t *testing.T) {
		_, credits, total := Totals(lines, decimal.NewFromInt(100))
		if !credits.Equal(decimal.NewFromInt(100)) || !total.Equal(decimal.RequireFromString("299.50")) {
			t.Errorf("obteve créditos=%s total=%s", credits, total)
		}
	})

	t.Run("créditos cobrem tudo", func(t *testing.T) {
		_, credits, total := Totals(lines, decimal.NewFromInt(1000))
		if !credits.Equal(decimal.RequireFromString("399.50")) || !total.IsZero() {
			t.Errorf("obteve créditos=%s total=%s", credits, total)
		}
	})
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderPending, OrderPaid, true},
		{OrderPending, OrderFailed, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderFulfilled, false},
		{OrderPaid, OrderFulfilled, true},
		{OrderPaid, OrderCancelled, false},
		{OrderFailed, OrderPaid, false},
		{OrderCancelled, OrderPaid, false},
		{OrderFulfilled, OrderPending, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s: esperava %v, obteve %v", tt.from, tt.to, tt.want, got)
		}
	}
}

func TestOrder_SellerIDs(t *testing.T) {
	order := &Order{Items: []OrderItem{{SellerID: "a"}, {SellerID: "b"}, {SellerID: "a"}}}
	ids := order.SellerIDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("esperava [a b], obteve %v", ids)
	}
	if !order.HasSeller("b") || order.HasSeller("c") {
		t.Error("HasSeller inconsistente")
	}
}

func TestEvent_Tickets(t *testing.T) {
	e := &Event{Capacity: 10, TicketsSold: 8, Status: EventScheduled}
	if e.RemainingTickets() != 2 {
		t.Errorf("esperava 2 ingressos, obteve %d", e.RemainingTickets())
	}
	if !e.CanSell(2) || e.CanSell(3) {
		t.Error("CanSell deveria respeitar a lotação")
	}

	e.TicketsSold = 12
	if !e.IsSoldOut() || e.RemainingTickets() != 0 {
		t.Error("evento acima da lotação deve estar esgotado")
	}

	e.TicketsSold = 0
	e.Status = EventCancelled
	if e.CanSell(1) {
		t.Error("evento cancelado não vende ingressos")
	}
}

func TestRole_Permissions(t *testing.T) {
	if !RoleAdmin.HasPermission(PermissionAnalyticsRead) {
		t.Error("admin deveria ler analytics")
	}
	if RoleUser.HasPermission(PermissionCreditsGrant) {
		t.Error("usuário comum não concede créditos")
	}
	if RoleGuest.HasPermission(PermissionOrderWrite) {
		t.Error("convidado não compra")
	}
	if Role("superuser").IsValid() {
		t.Error("role desconhecido deveria ser inválido")
	}
}
