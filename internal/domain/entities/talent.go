package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Availability representa a disponibilidade de um freelancer
type Availability string

const (
	Available   Availability = "available"
	Busy        Availability = "busy"
	Unavailable Availability = "unavailable"
)

// Freelancer é o perfil profissional de um usuário (um por usuário)
type Freelancer struct {
	ID           string
	ProfileID    string
	Headline     string
	Skills       []string
	HourlyRate   decimal.Decimal
	Currency     string
	Availability Availability
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// Artiste é o perfil de um artista/performer (um por usuário)
type Artiste struct {
	ID         string
	ProfileID  string
	StageName  string
	Genre      string
	Bio        string
	BookingFee decimal.Decimal
	Currency   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// BookingStatus representa o estado de uma solicitação de contratação
type BookingStatus string

const (
	BookingPending  BookingStatus = "pending"
	BookingAccepted BookingStatus = "accepted"
	BookingDeclined BookingStatus = "declined"
)

// BookingRequest é um pedido de contratação de freelancer ou artista
type BookingRequest struct {
	ID          string
	EntityType  EntityType
	EntityID    string
	ProviderID  string // perfil dono da listagem
	RequesterID string
	Message     string
	ProposedFor time.Time
	Status      BookingStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Respond aplica a resposta do prestador; só é permitido a partir de pending
func (b *BookingRequest) Respond(accept bool) bool {
	if b.Status != BookingPending {
		return false
	}
	if accept {
		b.Status = BookingAccepted
	} else {
		b.Status = BookingDeclined
	}
	return true
}
