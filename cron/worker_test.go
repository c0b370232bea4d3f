package cron

import (
	"context"
	"errors"
	"testing"

	"nutrilog/models"
	"nutrilog/services/tasks"

	"github.com/hibiken/asynq"
)

type recordingNotifier struct {
	sent []models.DietAssignedPayload
	err  error
}

func (r *recordingNotifier) NotifyDietAssigned(_ context.Context, p models.DietAssignedPayload) error {
	r.sent = append(r.sent, p)
	return r.err
}

func TestHandleDietAssignedTask(t *testing.T) {
	notifier := &recordingNotifier{}
	handler := HandleDietAssignedTask(notifier)

	task, _, err := tasks.NewDietAssignedTask(models.DietAssignedPayload{UserID: "u1", DietID: "d1", TotalDays: 7})
	if err != nil {
		t.Fatalf("NewDietAssignedTask() error = %v", err)
	}
	if err := handler(context.Background(), task); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].DietID != "d1" {
		t.Errorf("unexpected sends %+v", notifier.sent)
	}
}

func TestHandleDietAssignedTask_BadPayloadSkipsRetry(t *testing.T) {
	notifier := &recordingNotifier{}
	handler := HandleDietAssignedTask(notifier)

	for _, payload := range [][]byte{[]byte("{"), []byte(`{"userId":"u1"}`)} {
		err := handler(context.Background(), asynq.NewTask(tasks.TypeDietAssigned, payload))
		if !errors.Is(err, asynq.SkipRetry) {
			t.Errorf("payload %s: expected SkipRetry, got %v", payload, err)
		}
	}
	if len(notifier.sent) != 0 {
		t.Errorf("expected no sends, got %d", len(notifier.sent))
	}
}
