package postgres

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Os IDs são gerados na aplicação (uuid) para não depender de gen_random_uuid().
// Timestamps em unix seconds, como no restante do schema.

// UserModel é o model GORM para perfis
type UserModel struct {
	ID        string  `gorm:"type:uuid;primaryKey"`
	Email     string  `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name      string  `gorm:"type:varchar(500);not null"`
	Role      string  `gorm:"type:varchar(50);not null;index"`
	AvatarURL *string `gorm:"type:varchar(500)"`
	Bio       string  `gorm:"type:text"`
	Location  string  `gorm:"type:varchar(255)"`
	CreatedAt int64   `gorm:"autoCreateTime;index"`
	UpdatedAt int64   `gorm:"autoUpdateTime"`
	DeletedAt *int64  `gorm:"index"` // Soft delete
}

func (UserModel) TableName() string {
	return "users"
}

// ProductModel é o model GORM para produtos
type ProductModel struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	SellerID    string          `gorm:"type:uuid;not null;index"`
	Title       string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Category    string          `gorm:"type:varchar(100);index"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency    string          `gorm:"type:varchar(3);not null"`
	Stock       int             `gorm:"not null;default:0"`
	Images      datatypes.JSON
	Status      string  `gorm:"type:varchar(20);not null;index"`
	Rating      float64 `gorm:"not null;default:0"`
	CreatedAt   int64   `gorm:"autoCreateTime;index"`
	UpdatedAt   int64   `gorm:"autoUpdateTime"`
	DeletedAt   *int64  `gorm:"index"`
}

func (ProductModel) TableName() string {
	return "products"
}

// JobModel é o model GORM para vagas
type JobModel struct {
	ID             string          `gorm:"type:uuid;primaryKey"`
	PosterID       string          `gorm:"type:uuid;not null;index"`
	Title          string          `gorm:"type:varchar(200);not null"`
	Company        string          `gorm:"type:varchar(200)"`
	Description    string          `gorm:"type:text"`
	Location       string          `gorm:"type:varchar(255)"`
	Remote         bool            `gorm:"not null;default:false"`
	EmploymentType string          `gorm:"type:varchar(20);not null"`
	SalaryMin      decimal.Decimal `gorm:"type:numeric(12,2)"`
	SalaryMax      decimal.Decimal `gorm:"type:numeric(12,2)"`
	Currency       string          `gorm:"type:varchar(3)"`
	Skills         string          `gorm:"type:text"` // ",go,react," para busca por LIKE
	Status         string          `gorm:"type:varchar(20);not null;index"`
	CreatedAt      int64           `gorm:"autoCreateTime;index"`
	UpdatedAt      int64           `gorm:"autoUpdateTime"`
	DeletedAt      *int64          `gorm:"index"`
}

func (JobModel) TableName() string {
	return "jobs"
}

// JobApplicationModel é o model GORM para candidaturas
type JobApplicationModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	JobID       string `gorm:"type:uuid;not null;uniqueIndex:idx_job_applications_job_applicant"`
	ApplicantID string `gorm:"type:uuid;not null;uniqueIndex:idx_job_applications_job_applicant;index"`
	CoverLetter string `gorm:"type:text"`
	Status      string `gorm:"type:varchar(20);not null"`
	CreatedAt   int64  `gorm:"autoCreateTime"`
	UpdatedAt   int64  `gorm:"autoUpdateTime"`
}

func (JobApplicationModel) TableName() string {
	return "job_applications"
}

// EventModel é o model GORM para eventos
type EventModel struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	OrganizerID string          `gorm:"type:uuid;not null;index"`
	Title       string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Venue       string          `gorm:"type:varchar(255)"`
	Latitude    float64         `gorm:"not null;index:idx_events_location"`
	Longitude   float64         `gorm:"not null;index:idx_events_location"`
	StartsAt    int64           `gorm:"not null;index"`
	EndsAt      int64           `gorm:"not null"`
	TicketPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency    string          `gorm:"type:varchar(3);not null"`
	Capacity    int             `gorm:"not null"`
	TicketsSold int             `gorm:"not null;default:0"`
	Status      string          `gorm:"type:varchar(20);not null;index"`
	CreatedAt   int64           `gorm:"autoCreateTime"`
	UpdatedAt   int64           `gorm:"autoUpdateTime"`
	DeletedAt   *int64          `gorm:"index"`
}

func (EventModel) TableName() string {
	return "events"
}

// FreelancerModel é o model GORM para freelancers
type FreelancerModel struct {
	ID           string          `gorm:"type:uuid;primaryKey"`
	ProfileID    string          `gorm:"type:uuid;not null;uniqueIndex"`
	Headline     string          `gorm:"type:varchar(200)"`
	Skills       string          `gorm:"type:text"`
	HourlyRate   decimal.Decimal `gorm:"type:numeric(12,2)"`
	Currency     string          `gorm:"type:varchar(3)"`
	Availability string          `gorm:"type:varchar(20);not null"`
	CreatedAt    int64           `gorm:"autoCreateTime"`
	UpdatedAt    int64           `gorm:"autoUpdateTime"`
	DeletedAt    *int64          `gorm:"index"`
}

func (FreelancerModel) TableName() string {
	return "freelancers"
}

// ArtisteModel é o model GORM para artistas
type ArtisteModel struct {
	ID         string          `gorm:"type:uuid;primaryKey"`
	ProfileID  string          `gorm:"type:uuid;not null;uniqueIndex"`
	StageName  string          `gorm:"type:varchar(200);not null"`
	Genre      string          `gorm:"type:varchar(100);index"`
	Bio        string          `gorm:"type:text"`
	BookingFee decimal.Decimal `gorm:"type:numeric(12,2)"`
	Currency   string          `gorm:"type:varchar(3)"`
	CreatedAt  int64           `gorm:"autoCreateTime"`
	UpdatedAt  int64           `gorm:"autoUpdateTime"`
	DeletedAt  *int64          `gorm:"index"`
}

func (ArtisteModel) TableName() string {
	return "artistes"
}

// BookingRequestModel é o model GORM para pedidos de contratação
type BookingRequestModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	EntityType  string `gorm:"type:varchar(20);not null"`
	EntityID    string `gorm:"type:uuid;not null"`
	ProviderID  string `gorm:"type:uuid;not null;index"`
	RequesterID string `gorm:"type:uuid;not null;index"`
	Message     string `gorm:"type:text"`
	ProposedFor int64
	Status      string `gorm:"type:varchar(20);not null"`
	CreatedAt   int64  `gorm:"autoCreateTime"`
	UpdatedAt   int64  `gorm:"autoUpdateTime"`
}

func (BookingRequestModel) TableName() string {
	return "booking_requests"
}

// CartModel é o model GORM para carrinhos
type CartModel struct {
	ID        string          `gorm:"type:uuid;primaryKey"`
	OwnerID   *string         `gorm:"type:uuid;uniqueIndex"`
	TokenHash *string         `gorm:"type:varchar(64);uniqueIndex"`
	Items     []CartItemModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt int64           `gorm:"autoCreateTime"`
	UpdatedAt int64           `gorm:"autoUpdateTime"`
}

func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel é o model GORM para linhas do carrinho
type CartItemModel struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	CartID     string `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_entity"`
	EntityType string `gorm:"type:varchar(20);not null;uniqueIndex:idx_cart_items_entity"`
	EntityID   string `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_entity"`
	Quantity   int    `gorm:"not null"`
	CreatedAt  int64  `gorm:"autoCreateTime"`
}

func (CartItemModel) TableName() string {
	return "cart_items"
}

// OrderModel é o model GORM para pedidos
type OrderModel struct {
	ID             string           `gorm:"type:uuid;primaryKey"`
	Number         string           `gorm:"type:varchar(40);uniqueIndex;not null"`
	BuyerID        string           `gorm:"type:uuid;not null;index"`
	Status         string           `gorm:"type:varchar(20);not null;index"`
	Items          []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal       decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	CreditsApplied decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	Total          decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	Currency       string           `gorm:"type:varchar(3);not null"`
	ChargeID       *string          `gorm:"type:varchar(100);uniqueIndex"`
	AuthorizeURI   string           `gorm:"type:varchar(500)"`
	FailureReason  string           `gorm:"type:varchar(500)"`
	CartID         string           `gorm:"type:uuid"`
	PaidAt         *int64
	CreatedAt      int64 `gorm:"autoCreateTime;index"`
	UpdatedAt      int64 `gorm:"autoUpdateTime"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel é o model GORM para linhas do pedido
type OrderItemModel struct {
	ID         string          `gorm:"type:uuid;primaryKey"`
	OrderID    string          `gorm:"type:uuid;not null;index"`
	EntityType string          `gorm:"type:varchar(20);not null"`
	EntityID   string          `gorm:"type:uuid;not null;index"`
	SellerID   string          `gorm:"type:uuid;not null;index"`
	Title      string          `gorm:"type:varchar(200);not null"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quantity   int             `gorm:"not null"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

// ReviewModel é o model GORM para avaliações
type ReviewModel struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	EntityType string `gorm:"type:varchar(20);not null;uniqueIndex:idx_reviews_author_entity"`
	EntityID   string `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_author_entity"`
	AuthorID   string `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_author_entity"`
	Rating     int    `gorm:"not null"`
	Comment    string `gorm:"type:text"`
	CreatedAt  int64  `gorm:"autoCreateTime;index"`
}

func (ReviewModel) TableName() string {
	return "reviews"
}

// WishlistModel é o model GORM para a lista de desejos
type WishlistModel struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	UserID     string `gorm:"type:uuid;not null;uniqueIndex:idx_wishlists_user_entity"`
	EntityType string `gorm:"type:varchar(20);not null;uniqueIndex:idx_wishlists_user_entity"`
	EntityID   string `gorm:"type:uuid;not null;uniqueIndex:idx_wishlists_user_entity"`
	CreatedAt  int64  `gorm:"autoCreateTime"`
}

func (WishlistModel) TableName() string {
	return "wishlists"
}

// ConversationModel é o model GORM para conversas
type ConversationModel struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	ParticipantA  string `gorm:"type:uuid;not null;uniqueIndex:idx_conversations_pair"`
	ParticipantB  string `gorm:"type:uuid;not null;uniqueIndex:idx_conversations_pair;index"`
	LastMessageAt *int64 `gorm:"index"`
	CreatedAt     int64  `gorm:"autoCreateTime"`
}

func (ConversationModel) TableName() string {
	return "conversations"
}

// MessageModel é o model GORM para mensagens
type MessageModel struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	ConversationID string `gorm:"type:uuid;not null;index:idx_messages_conversation_created"`
	SenderID       string `gorm:"type:uuid;not null"`
	Body           string `gorm:"type:text;not null"`
	ReadAt         *int64
	CreatedAt      int64 `gorm:"autoCreateTime:milli;index:idx_messages_conversation_created"`
}

func (MessageModel) TableName() string {
	return "messages"
}

// NotificationModel é o model GORM para notificações
type NotificationModel struct {
	ID     string `gorm:"type:uuid;primaryKey"`
	UserID string `gorm:"type:uuid;not null;index;uniqueIndex:idx_notifications_event_user,priority:2"`
	// EventID é o evento de domínio de origem; redelivery do broker não duplica a notificação
	EventID   *string `gorm:"type:varchar(64);uniqueIndex:idx_notifications_event_user,priority:1"`
	Type      string `gorm:"type:varchar(40);not null"`
	Title     string `gorm:"type:varchar(255);not null"`
	Body      string `gorm:"type:text"`
	Data      datatypes.JSON
	ReadAt    *int64
	CreatedAt int64 `gorm:"autoCreateTime;index"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

// CreditTransactionModel é o model GORM para o extrato de créditos
type CreditTransactionModel struct {
	ID        string          `gorm:"type:uuid;primaryKey"`
	UserID    string          `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Reason    string          `gorm:"type:varchar(20);not null"`
	Note      string          `gorm:"type:varchar(255)"`
	OrderID   *string         `gorm:"type:uuid;index"`
	CreatedAt int64           `gorm:"autoCreateTime;index"`
}

func (CreditTransactionModel) TableName() string {
	return "credit_transactions"
}

// AllModels lista os models para AutoMigrate
func AllModels() []any {
	return []any{
		&UserModel{},
		&ProductModel{},
		&JobModel{},
		&JobApplicationModel{},
		&EventModel{},
		&FreelancerModel{},
		&ArtisteModel{},
		&BookingRequestModel{},
		&CartModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
		&ReviewModel{},
		&WishlistModel{},
		&ConversationModel{},
		&MessageModel{},
		&NotificationModel{},
		&CreditTransactionModel{},
	}
}
