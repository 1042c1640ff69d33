package task

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	qport "kachat/internal/infrastructure/queue/port"
	repository "kachat/internal/pkg/chat/persistence/repository/port"
)

// RevealMembersTaskType retries the reveal pass that must follow a message
// insert when the inline attempt failed.
const RevealMembersTaskType = "chat:reveal_members"

// RegisterRevealMembersTask binds the reveal retry handler to the server.
// Revealing already-visible members is a no-op, so the handler is idempotent
// and safe under the queue's at-least-once delivery.
func RegisterRevealMembersTask(srv qport.Server, repo repository.ChatRepository, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	srv.Register(RevealMembersTaskType, func(ctx context.Context, t qport.Task) error {
		var p roomTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: retrying cannot help
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		revealed, err := repo.RevealHiddenMembers(ctx, p.RoomID)
		if errors.Is(err, repository.ErrNotFound) {
			// Room reclaimed in the meantime; nothing left to reveal.
			return nil
		}
		if err != nil {
			return err
		}
		if revealed > 0 {
			log.Info("reveal retry completed", "room_id", p.RoomID, "revealed", revealed)
		}
		return nil
	})
}
