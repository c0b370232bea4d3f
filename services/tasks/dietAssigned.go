package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nutrilog/models"

	"github.com/hibiken/asynq"
)

const TypeDietAssigned = "diet:assigned"

func NewDietAssignedTask(payload models.DietAssignedPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeDietAssigned, b)
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
		asynq.Unique(10 * time.Minute),
	}
	return task, opts, nil
}

// Enqueuer schedules background jobs.
type Enqueuer interface {
	EnqueueDietAssigned(ctx context.Context, payload models.DietAssignedPayload) error
}

type AsynqEnqueuer struct {
	client *asynq.Client
}

func NewAsynqEnqueuer(client *asynq.Client) *AsynqEnqueuer {
	return &AsynqEnqueuer{client: client}
}

func (e *AsynqEnqueuer) EnqueueDietAssigned(ctx context.Context, payload models.DietAssignedPayload) error {
	task, opts, err := NewDietAssignedTask(payload)
	if err != nil {
		return err
	}
	if _, err := e.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeDietAssigned, err)
	}
	return nil
}
