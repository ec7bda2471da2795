package postgres

import (
	"fmt"

	"gorm.io/gorm"
)

// RealtimeChannel é o canal LISTEN/NOTIFY usado pelo feed em tempo real
const RealtimeChannel = "marketplace_realtime"

// O payload do NOTIFY é limitado a 8000 bytes: os triggers anunciam só
// destinatário e id, e o feed carrega a linha.
var realtimeTriggers = []string{
	`CREATE OR REPLACE FUNCTION notify_notification_insert() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify('` + RealtimeChannel + `', json_build_object(
		'user_id', NEW.user_id, 'channel', 'notification', 'id', NEW.id)::text);
	RETURN NEW;
END;
$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS notifications_realtime ON notifications`,
	`CREATE TRIGGER notifications_realtime AFTER INSERT ON notifications
		FOR EACH ROW EXECUTE FUNCTION notify_notification_insert()`,
	`CREATE OR REPLACE FUNCTION notify_message_insert() RETURNS trigger AS $$
DECLARE
	recipient uuid;
BEGIN
	SELECT CASE WHEN participant_a = NEW.sender_id THEN participant_b ELSE participant_a END
		INTO recipient FROM conversations WHERE id = NEW.conversation_id;
	PERFORM pg_notify('` + RealtimeChannel + `', json_build_object(
		'user_id', recipient, 'channel', 'message', 'id', NEW.id)::text);
	RETURN NEW;
END;
$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS messages_realtime ON messages`,
	`CREATE TRIGGER messages_realtime AFTER INSERT ON messages
		FOR EACH ROW EXECUTE FUNCTION notify_message_insert()`,
}

// Migrate cria/atualiza o schema. Os triggers de NOTIFY só existem no PostgreSQL.
func Migrate(db *gorm.DB, installTriggers bool) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if !installTriggers || db.Dialector.Name() != "postgres" {
		return nil
	}

	for _, stmt := range realtimeTriggers {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("install realtime triggers: %w", err)
		}
	}
	return nil
}
