package messaging

import "github.com/rafabene/marketplace-backend/internal/domain/ports"

// AllEventKeys são os bindings da fila de notificações
var AllEventKeys = []string{
	ports.EventOrderPaid,
	ports.EventOrderFailed,
	ports.EventMessageSent,
	ports.EventReviewCreated,
	ports.EventJobApplied,
	ports.EventBookingRequested,
	ports.EventBookingResponded,
	ports.EventCreditsGranted,
}
