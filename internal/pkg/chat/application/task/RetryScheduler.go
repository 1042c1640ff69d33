package task

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	qport "kachat/internal/infrastructure/queue/port"
	"kachat/internal/pkg/chat/application/usecase"
)

// roomTaskPayload is the JSON payload for both retry tasks: they only need to
// know which room to converge.
type roomTaskPayload struct {
	RoomID int64 `json:"roomId"`
}

// Scheduler implements usecase.RetryScheduler on the task queue. Scheduling is
// itself best-effort: if the enqueue fails the error is logged and dropped,
// since the triggering operation already succeeded from the client's point of
// view and a later leave or send retriggers the same convergence.
type Scheduler struct {
	Q   qport.Client
	Log *slog.Logger
}

func NewScheduler(q qport.Client, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{Q: q, Log: log}
}

var _ usecase.RetryScheduler = (*Scheduler)(nil)

func (s *Scheduler) ScheduleRevealRetry(ctx context.Context, roomID int64) {
	s.enqueue(ctx, RevealMembersTaskType, roomID)
}

func (s *Scheduler) ScheduleReclaimRetry(ctx context.Context, roomID int64) {
	s.enqueue(ctx, ReclaimRoomTaskType, roomID)
}

func (s *Scheduler) enqueue(ctx context.Context, taskType string, roomID int64) {
	b, err := json.Marshal(roomTaskPayload{RoomID: roomID})
	if err != nil {
		s.Log.Error("encode retry payload", "task", taskType, "room_id", roomID, "error", err)
		return
	}

	opts := qport.EnqueueOption{
		Queue:     "chat",
		ProcessIn: 2 * time.Second,
		MaxRetry:  10,
		UniqueTTL: time.Minute,
	}
	if _, err := s.Q.Enqueue(ctx, qport.Task{Type: taskType, Payload: b}, opts); err != nil {
		s.Log.Warn("enqueue retry task failed", "task", taskType, "room_id", roomID, "error", err)
	}
}
