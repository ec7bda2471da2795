package entities

import (
	"errors"
	"time"
)

// Review é a avaliação de um usuário sobre uma listagem
type Review struct {
	ID         string
	EntityType EntityType
	EntityID   string
	AuthorID   string
	Rating     int
	Comment    string
	CreatedAt  time.Time
}

// Validate valida nota e tamanho do comentário
func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	if len(r.Comment) > 2000 {
		return errors.New("comment must have at most 2000 characters")
	}
	if !r.EntityType.IsValid() {
		return errors.New("invalid entity type")
	}
	return nil
}

// ReviewSummary agrega as avaliações de uma listagem
type ReviewSummary struct {
	EntityType EntityType
	EntityID   string
	Average    float64
	Count      int64
}
