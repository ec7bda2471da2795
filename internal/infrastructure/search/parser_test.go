package search

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	domainerrors "github.com/rafabene/marketplace-backend/internal/domain/errors"
)

func ptr[T any](v T) *T { return &v }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Criteria
	}{
		{
			name:  "vazio",
			input: "   ",
			want:  &Criteria{},
		},
		{
			name:  "palavras e frase",
			input: `camiseta "tamanho grande" azul`,
			want:  &Criteria{Words: []string{"camiseta", "tamanho grande", "azul"}},
		},
		{
			name:  "filtros conhecidos",
			input: "category:roupas seller:abc-123 status:ACTIVE sort:price_desc",
			want: &Criteria{
				Category: ptr("roupas"),
				SellerID: ptr("abc-123"),
				Status:   ptr("active"),
				Sort:     "price_desc",
			},
		},
		{
			name:  "faixa de preço",
			input: "price>=10 price<50",
			want:  &Criteria{MinPrice: dec("10"), MaxPrice: dec("49.99")},
		},
		{
			name:  "preço exato e estrito",
			input: "price:25.5",
			want:  &Criteria{MinPrice: dec("25.50"), MaxPrice: dec("25.50")},
		},
		{
			name:  "preço maior que",
			input: "price>9.99",
			want:  &Criteria{MinPrice: dec("10.00")},
		},
		{
			name:  "chave desconhecida vira palavra",
			input: "color:vermelho bola",
			want:  &Criteria{Words: []string{"vermelho", "bola"}},
		},
		{
			name:  "chave desconhecida com comparação vira palavra",
			input: "size>10 year<=2020 tenis",
			want:  &Criteria{Words: []string{"10", "2020", "tenis"}},
		},
		{
			name:  "categoria entre aspas",
			input: `category:"casa e jardim"`,
			want:  &Criteria{Category: ptr("casa e jardim")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("esperava sucesso, obteve erro: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, decimalComparer); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	inputs := []string{
		"price>abc",
		"price:-5",
		"sort:random",
		"category>roupas",
		"price:",
		`"frase sem fim`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Fatalf("esperava erro para %q", input)
			}
			if !errors.Is(err, domainerrors.ErrInvalidQuery) {
				t.Errorf("esperava ErrInvalidQuery, obteve %v", err)
			}
		})
	}
}
