package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskWelcome routes welcome email tasks to their handler.
	TaskWelcome = "email:welcome"
)

// WelcomeEmailPayload is the serialized task payload for a welcome
// email.
type WelcomeEmailPayload struct {
	To   string `json:"to"`
	Name string `json:"name"`
}

// NewWelcomeEmailTask constructs the welcome email task with retry,
// queue, and timeout options.
func NewWelcomeEmailTask(to, name string) (*asynq.Task, error) {
	payload, err := json.Marshal(WelcomeEmailPayload{
		To:   to,
		Name: name,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskWelcome,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
