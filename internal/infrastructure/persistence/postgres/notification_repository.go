package postgres

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/marketplace-backend/internal/domain/errors"
	"github.com/rafabene/marketplace-backend/internal/domain/repositories"
)

// NotificationRepository implementa repositories.NotificationRepository
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository cria um novo NotificationRepository
func NewNotificationRepository(db *gorm.DB) repositories.NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	model := &NotificationModel{
		ID:     newID(),
		UserID: n.UserID,
		Type:   string(n.Type),
		Title:  n.Title,
		Body:   n.Body,
		Data:   toJSON(n.Data),
	}
	if n.EventID != "" {
		eventID := n.EventID
		model.EventID = &eventID
	}

	result := dbFrom(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(model)
	if result.Error != nil {
		return mapWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	n.ID = model.ID
	n.CreatedAt = time.Unix(model.CreatedAt, 0)
	return nil
}

func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*entities.Notification, error) {
	var model NotificationModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return toNotificationEntity(&model), nil
}

func (r *NotificationRepository) List(ctx context.Context, userID string, unreadOnly bool, p repositories.Pagination) ([]*entities.Notification, error) {
	query := dbFrom(ctx, r.db).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	limit, offset := p.Normalize()
	var models []*NotificationModel
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, err
	}

	result := make([]*entities.Notification, 0, len(models))
	for _, m := range models {
		result = append(result, toNotificationEntity(m))
	}
	return result, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&NotificationModel{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

// MarkRead marca uma notificação do usuário; notificações de terceiros são "não encontradas"
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string, at time.Time) error {
	db := dbFrom(ctx, r.db)
	var count int64
	if err := db.Model(&NotificationModel{}).Where("id = ? AND user_id = ?", id, userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrNotFound
	}
	return db.Model(&NotificationModel{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, userID).
		Update("read_at", at.Unix()).Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	result := dbFrom(ctx, r.db).Model(&NotificationModel{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", at.Unix())
	return result.RowsAffected, result.Error
}

func toNotificationEntity(m *NotificationModel) *entities.Notification {
	n := &entities.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      entities.NotificationType(m.Type),
		Title:     m.Title,
		Body:      m.Body,
		ReadAt:    timePtr(m.ReadAt),
		CreatedAt: time.Unix(m.CreatedAt, 0),
	}
	if m.EventID != nil {
		n.EventID = *m.EventID
	}
	if len(m.Data) > 0 {
		_ = json.Unmarshal(m.Data, &n.Data)
	}
	return n
}
