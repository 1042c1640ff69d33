package task

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	qport "kachat/internal/infrastructure/queue/port"
	"kachat/internal/pkg/chat/application/usecase"
)

// ReclaimRoomTaskType retries the lifecycle reconciler for a room whose
// inline reclaim check failed after a leave.
const ReclaimRoomTaskType = "chat:reclaim_room"

// RegisterReclaimRoomTask binds the reclaim retry handler to the server. The
// use case re-evaluates eligibility, so a room that regained activity between
// the leave and the retry is left alone.
func RegisterReclaimRoomTask(srv qport.Server, uc *usecase.ReclaimRoomUseCase, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	srv.Register(ReclaimRoomTaskType, func(ctx context.Context, t qport.Task) error {
		var p roomTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		deleted, err := uc.Execute(ctx, p.RoomID)
		if err != nil {
			return err
		}
		if deleted {
			log.Info("reclaim retry deleted room", "room_id", p.RoomID)
		}
		return nil
	})
}
