// Package search interpreta a mini-linguagem do parâmetro "q" das listagens:
//
//	camiseta "tamanho grande" category:roupas price>=10 price<50 sort:price_asc
package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/shopspring/decimal"

	domainerrors "github.com/rafabene/marketplace-backend/internal/domain/errors"
)

const maxQueryLength = 500

//nolint:govet // tags do participle são DSL, não tags de reflect
type query struct {
	Terms []*term `parser:"@@*"`
}

//nolint:govet
type term struct {
	Filter *filter `parser:"  @@"`
	Phrase *string `parser:"| @String"`
	Word   *string `parser:"| @Word"`
}

//nolint:govet
type filter struct {
	Key   string `parser:"@Word"`
	Op    string `parser:"@Op"`
	Value string `parser:"@(String | Word)"`
}

var queryLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Op", Pattern: `<=|>=|[:<>]`},
	{Name: "Word", Pattern: `[^\s:<>"]+`},
})

var queryParser = participle.MustBuild[query](
	participle.Lexer(queryLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// Criteria é o resultado da interpretação de uma busca
type Criteria struct {
	Words    []string
	Category *string
	SellerID *string
	Status   *string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

var validSorts = map[string]bool{
	"newest":     true,
	"price_asc":  true,
	"price_desc": true,
	"rating":     true,
	"starts_at":  true,
}

// Parse interpreta a busca. Chaves desconhecidas viram palavras comuns.
func Parse(input string) (*Criteria, error) {
	input = strings.TrimSpace(input)
	criteria := &Criteria{}
	if input == "" {
		return criteria, nil
	}
	if len(input) > maxQueryLength {
		return nil, domainerrors.Wrap(domainerrors.ErrInvalidQuery, "query is too long")
	}

	parsed, err := queryParser.ParseString("", input)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.ErrInvalidQuery, err.Error())
	}

	for _, t := range parsed.Terms {
		switch {
		case t.Phrase != nil:
			criteria.addWord(*t.Phrase)
		case t.Word != nil:
			criteria.addWord(*t.Word)
		case t.Filter != nil:
			if err := criteria.apply(t.Filter); err != nil {
				return nil, err
			}
		}
	}
	return criteria, nil
}

func (c *Criteria) addWord(w string) {
	w = strings.TrimSpace(w)
	if w != "" {
		c.Words = append(c.Words, w)
	}
}

func (c *Criteria) apply(f *filter) error {
	key := strings.ToLower(f.Key)
	value := strings.TrimSpace(f.Value)

	switch key {
	case "category", "seller", "status", "sort":
		if f.Op != ":" {
			return invalid("operator %q is only valid for price", f.Op)
		}
	}

	switch key {
	case "category":
		c.Category = &value
	case "seller":
		c.SellerID = &value
	case "status":
		status := strings.ToLower(value)
		c.Status = &status
	case "sort":
		sort := strings.ToLower(value)
		if !validSorts[sort] {
			return invalid("unknown sort %q", value)
		}
		c.Sort = sort
	case "price":
		return c.applyPrice(f.Op, value)
	default:
		c.addWord(value)
	}
	return nil
}

// applyPrice trabalha com centavos: price<10 equivale a price<=9.99
func (c *Criteria) applyPrice(op, raw string) error {
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return invalid("price must be a number, got %q", raw)
	}
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return invalid("price must be a non-negative number, got %q", raw)
	}
	price = price.Round(2)
	cent := decimal.New(1, -2)

	switch op {
	case ":":
		c.MinPrice, c.MaxPrice = &price, &price
	case ">=":
		c.MinPrice = &price
	case ">":
		v := price.Add(cent)
		c.MinPrice = &v
	case "<=":
		c.MaxPrice = &price
	case "<":
		v := price.Sub(cent)
		c.MaxPrice = &v
	}
	return nil
}

func invalid(format string, args ...any) error {
	return domainerrors.Wrap(domainerrors.ErrInvalidQuery, fmt.Sprintf(format, args...))
}
