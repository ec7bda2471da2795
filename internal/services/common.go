package services

import (
	"context"

	"go.opentelemetry.io/otel"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
)

var tracer = otel.Tracer("github.com/rafabene/marketplace-backend/internal/services")

// canManage indica se o ator pode alterar uma listagem do dono informado
func canManage(actor *entities.User, ownerID string) bool {
	if actor == nil {
		return false
	}
	return actor.ID == ownerID || actor.HasPermission(entities.PermissionListingManage)
}

// seesAllStatuses indica se o ator vê listagens fora do status público:
// admins sempre, donos quando a busca é restrita às próprias listagens
func seesAllStatuses(actor *entities.User, ownerFilter *string) bool {
	if actor == nil {
		return false
	}
	if actor.HasPermission(entities.PermissionListingManage) {
		return true
	}
	return ownerFilter != nil && *ownerFilter == actor.ID
}

// publish envia o evento sem propagar falhas do barramento ao chamador
func publish(ctx context.Context, publisher ports.EventPublisher, logger ports.Logger, key string, data map[string]any) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, ports.NewDomainEvent(key, data)); err != nil {
		ports.LoggerFromContext(ctx, logger).Error("failed to publish domain event", "key", key, "error", err)
	}
}
