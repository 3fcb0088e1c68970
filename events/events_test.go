package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"taskhero/models"
)

type recordingHandler struct {
	events []TaskWritten
	err    error
}

func (h *recordingHandler) HandleTaskWritten(_ context.Context, ev TaskWritten) error {
	h.events = append(h.events, ev)
	return h.err
}

func taskWithStatus(status string) *models.Task {
	return &models.Task{Title: "t", Status: status}
}

func TestCompletedTransition(t *testing.T) {
	cases := []struct {
		name   string
		before *models.Task
		after  *models.Task
		want   bool
	}{
		{"into done", taskWithStatus(models.TaskStatusInProgress), taskWithStatus(models.TaskStatusDone), true},
		{"paused into done", taskWithStatus(models.TaskStatusPaused), taskWithStatus(models.TaskStatusDone), true},
		{"created done", nil, taskWithStatus(models.TaskStatusDone), true},
		{"already done", taskWithStatus(models.TaskStatusDone), taskWithStatus(models.TaskStatusDone), false},
		{"create open", nil, taskWithStatus(models.TaskStatusInProgress), false},
		{"pause", taskWithStatus(models.TaskStatusInProgress), taskWithStatus(models.TaskStatusPaused), false},
		{"revert from done", taskWithStatus(models.TaskStatusDone), taskWithStatus(models.TaskStatusInProgress), false},
		{"no after snapshot", taskWithStatus(models.TaskStatusInProgress), nil, false},
	}

	for _, tc := range cases {
		ev := TaskWritten{Before: tc.before, After: tc.after}
		assert.Equal(t, tc.want, ev.CompletedTransition(), tc.name)
	}
}

func TestDispatcherFansOut(t *testing.T) {
	d := NewDispatcher()
	first := &recordingHandler{}
	second := &recordingHandler{}
	d.Register(first)
	d.Register(second)

	ev := TaskWritten{After: taskWithStatus(models.TaskStatusDone)}
	d.Publish(context.Background(), ev)

	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1)
}

func TestDispatcherSwallowsHandlerErrors(t *testing.T) {
	d := NewDispatcher()
	failing := &recordingHandler{err: errors.New("boom")}
	after := &recordingHandler{}
	d.Register(failing)
	d.Register(after)

	d.Publish(context.Background(), TaskWritten{After: taskWithStatus(models.TaskStatusDone)})

	// The failing handler must not stop delivery to the next one.
	assert.Len(t, failing.events, 1)
	assert.Len(t, after.events, 1)
}
