package entities

import "time"

// NotificationType classifica as notificações
type NotificationType string

const (
	NotificationOrderPaid       NotificationType = "order_paid"
	NotificationOrderFailed     NotificationType = "order_failed"
	NotificationNewSale         NotificationType = "new_sale"
	NotificationNewMessage      NotificationType = "new_message"
	NotificationNewReview       NotificationType = "new_review"
	NotificationJobApplication  NotificationType = "job_application"
	NotificationBookingRequest  NotificationType = "booking_request"
	NotificationBookingResponse NotificationType = "booking_response"
	NotificationCredits         NotificationType = "credits"
)

// Notification é uma notificação entregue a um usuário
type Notification struct {
	ID        string
	UserID    string
	EventID   string // evento de domínio que gerou a notificação, se houver
	Type      NotificationType
	Title     string
	Body      string
	Data      map[string]any
	ReadAt    *time.Time
	CreatedAt time.Time
}

// IsRead verifica se a notificação já foi lida
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
