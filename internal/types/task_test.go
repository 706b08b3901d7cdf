package types

import (
	"testing"
	"time"
)

func validTask() *Task {
	now := time.Now()
	return &Task{
		ID:             "0d3adbe1-0000-4000-8000-000000000001",
		Title:          "buy milk",
		Tier:           TierL1,
		CreatedAt:      now,
		TierAssignedAt: now,
	}
}

func TestTaskValidate(t *testing.T) {
	done := time.Now()

	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr bool
	}{
		{"valid", func(task *Task) {}, false},
		{"missing id", func(task *Task) { task.ID = "" }, true},
		{"empty title", func(task *Task) { task.Title = "" }, true},
		{"whitespace title", func(task *Task) { task.Title = "   " }, true},
		{"invalid tier", func(task *Task) { task.Tier = "l9" }, true},
		{"completed without timestamp", func(task *Task) { task.IsCompleted = true }, true},
		{"timestamp without completed", func(task *Task) { task.CompletedAt = &done }, true},
		{"completed with timestamp", func(task *Task) {
			task.IsCompleted = true
			task.CompletedAt = &done
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.mutate(task)
			err := task.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTaskDwell(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	task := validTask()
	task.TierAssignedAt = start

	if got := task.Dwell(start.Add(90 * time.Minute)); got != 90*time.Minute {
		t.Errorf("Dwell() = %v, want 90m", got)
	}
}

func TestDwellString(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	task := validTask()
	task.TierAssignedAt = start

	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{30 * time.Second, "30s"},
		{45 * time.Minute, "45m"},
		{3 * time.Hour, "3h"},
		{50 * time.Hour, "2d"},
	}

	for _, tt := range tests {
		if got := task.DwellString(start.Add(tt.elapsed)); got != tt.want {
			t.Errorf("DwellString(+%v) = %q, want %q", tt.elapsed, got, tt.want)
		}
	}
}
