package entities

import "time"

// WishlistItem é uma listagem salva por um usuário
type WishlistItem struct {
	ID         string
	UserID     string
	EntityType EntityType
	EntityID   string
	CreatedAt  time.Time
}
