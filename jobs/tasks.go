package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskNumberingScan is the task type for the order numbering integrity scan.
	TaskNumberingScan = "purchasing:numbering_scan"
)

// NumberingScanPayload narrows the scan to recent buckets.
type NumberingScanPayload struct {
	// WindowMonths counts how many (year, month) buckets back from now to
	// inspect. Zero means the handler default.
	WindowMonths int `json:"window_months"`
}

// NewNumberingScanTask constructs an Asynq task.
func NewNumberingScanTask(windowMonths int) (*asynq.Task, error) {
	data, err := json.Marshal(NumberingScanPayload{WindowMonths: windowMonths})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNumberingScan, data), nil
}
