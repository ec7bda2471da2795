package valueobjects

import (
	stdErrors "errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/rafabene/marketplace-backend/internal/domain/errors"
)

func TestNewEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"normaliza caixa e espaços", "  Maria@Example.COM ", "maria@example.com", false},
		{"aceita subdomínio", "a.b+c@mail.example.org", "a.b+c@mail.example.org", false},
		{"rejeita sem arroba", "maria.example.com", "", true},
		{"rejeita domínio sem tld", "maria@example", "", true},
		{"rejeita vazio", "", "", true},
		{"rejeita pontos consecutivos", "ana..souza@example.com", "", true},
		{"rejeita ponto no início", ".ana@example.com", "", true},
		{"rejeita domínio com ponto duplo", "ana@example..com", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := NewEmail(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("esperava erro para %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("esperava sucesso, obteve %v", err)
			}
			if email.String() != tt.want {
				t.Errorf("esperava %q, obteve %q", tt.want, email.String())
			}
		})
	}

	t.Run("erro é o sentinela de domínio", func(t *testing.T) {
		if _, err := NewEmail("sem-arroba"); !stdErrors.Is(err, domainErrors.ErrInvalidEmail) {
			t.Errorf("esperava ErrInvalidEmail, obteve %v", err)
		}
	})

	t.Run("domínio", func(t *testing.T) {
		email, _ := NewEmail("ana@Mail.Example.org")
		if email.Domain() != "mail.example.org" {
			t.Errorf("esperava mail.example.org, obteve %s", email.Domain())
		}
	})
}

func TestMoney(t *testing.T) {
	t.Run("arredonda para duas casas e normaliza moeda", func(t *testing.T) {
		m, err := NewMoney(decimal.RequireFromString("10.555"), " thb ")
		if err != nil {
			t.Fatalf("esperava sucesso, obteve %v", err)
		}
		if m.Currency() != "THB" {
			t.Errorf("esperava THB, obteve %s", m.Currency())
		}
		if !m.Amount().Equal(decimal.RequireFromString("10.56")) {
			t.Errorf("esperava 10.56, obteve %s", m.Amount())
		}
		if m.MinorUnits() != 1056 {
			t.Errorf("esperava 1056, obteve %d", m.MinorUnits())
		}
	})

	t.Run("rejeita valor negativo", func(t *testing.T) {
		if _, err := NewMoney(decimal.NewFromInt(-1), "USD"); err != ErrNegativeAmount {
			t.Errorf("esperava ErrNegativeAmount, obteve %v", err)
		}
	})

	t.Run("rejeita moeda inválida", func(t *testing.T) {
		if _, err := NewMoney(decimal.NewFromInt(1), "US"); err != ErrInvalidCurrency {
			t.Errorf("esperava ErrInvalidCurrency, obteve %v", err)
		}
	})

	t.Run("moedas sem subunidade", func(t *testing.T) {
		if got := ToMinorUnits(decimal.NewFromInt(1500), "JPY"); got != 1500 {
			t.Errorf("esperava 1500, obteve %d", got)
		}
		if got := FromMinorUnits(1500, "jpy"); !got.Equal(decimal.NewFromInt(1500)) {
			t.Errorf("esperava 1500, obteve %s", got)
		}
	})

	t.Run("ida e volta em centavos", func(t *testing.T) {
		amount := decimal.RequireFromString("1234.50")
		units := ToMinorUnits(amount, "THB")
		if units != 123450 {
			t.Fatalf("esperava 123450, obteve %d", units)
		}
		if back := FromMinorUnits(units, "THB"); !back.Equal(amount) {
			t.Errorf("esperava %s, obteve %s", amount, back)
		}
	})
}

func TestCoordinates(t *testing.T) {
	t.Run("valida limites", func(t *testing.T) {
		invalid := [][2]float64{{91, 0}, {-91, 0}, {0, 181}, {0, -181}, {math.NaN(), 0}}
		for _, c := range invalid {
			if _, err := NewCoordinates(c[0], c[1]); err == nil {
				t.Errorf("esperava erro para %v", c)
			}
		}
	})

	t.Run("distância entre Bangkok e Chiang Mai", func(t *testing.T) {
		bkk, _ := NewCoordinates(13.7563, 100.5018)
		cnx, _ := NewCoordinates(18.7883, 98.9853)
		d := bkk.DistanceKm(cnx)
		if d < 570 || d > 600 {
			t.Errorf("esperava ~585 km, obteve %.1f", d)
		}
		if bkk.DistanceKm(bkk) != 0 {
			t.Error("distância de um ponto para ele mesmo deve ser zero")
		}
	})

	t.Run("bounding box contém o raio", func(t *testing.T) {
		center, _ := NewCoordinates(13.75, 100.5)
		box := center.BoundingBox(10)
		if box.MinLat >= center.Latitude || box.MaxLat <= center.Latitude {
			t.Errorf("latitude fora da caixa: %f..%f", box.MinLat, box.MaxLat)
		}
		if len(box.Lng) != 1 || box.Lng[0].Min >= center.Longitude || box.Lng[0].Max <= center.Longitude {
			t.Errorf("longitude fora da caixa: %+v", box.Lng)
		}
		north, _ := NewCoordinates(box.MaxLat, center.Longitude)
		if d := center.DistanceKm(north); math.Abs(d-10) > 0.1 {
			t.Errorf("esperava borda a 10 km, obteve %.3f", d)
		}
		east, _ := NewCoordinates(center.Latitude, center.Longitude+0.09)
		if !box.Contains(east) {
			t.Error("ponto a ~10 km a leste deveria estar na caixa")
		}
	})

	t.Run("bounding box divide a longitude no antimeridiano", func(t *testing.T) {
		// Fiji, a poucos km do antimeridiano
		suva, _ := NewCoordinates(-17.0, 179.9)
		box := suva.BoundingBox(50)
		if len(box.Lng) != 2 {
			t.Fatalf("esperava dois intervalos, obteve %+v", box.Lng)
		}

		across, _ := NewCoordinates(-17.0, -179.8)
		if d := suva.DistanceKm(across); d > 50 {
			t.Fatalf("ponto de teste deveria estar a menos de 50 km, está a %.1f", d)
		}
		if !box.Contains(across) {
			t.Errorf("ponto do outro lado do antimeridiano ficou fora: %+v", box.Lng)
		}
		if !box.Contains(suva) {
			t.Error("o centro deve estar na caixa")
		}
		far, _ := NewCoordinates(-17.0, 170.0)
		if box.Contains(far) {
			t.Error("ponto a ~1000 km não deveria estar na caixa")
		}

		west, _ := NewCoordinates(-17.0, -179.9)
		if wbox := west.BoundingBox(50); len(wbox.Lng) != 2 || !wbox.Contains(suva) {
			t.Errorf("caixa a oeste do antimeridiano deveria alcançar o leste: %+v", wbox.Lng)
		}
	})

	t.Run("bounding box perto do polo cobre todas as longitudes", func(t *testing.T) {
		pole, _ := NewCoordinates(89.9, 10)
		box := pole.BoundingBox(50)
		if len(box.Lng) != 1 || box.Lng[0].Min != -180 || box.Lng[0].Max != 180 {
			t.Errorf("esperava longitude inteira, obteve %+v", box.Lng)
		}
		if box.MaxLat != 90 {
			t.Errorf("latitude deveria chegar ao polo, obteve %f", box.MaxLat)
		}
	})
}
