package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskhero/events"
	"taskhero/progression"
)

// Validation must reject bad input before any read or write; these
// services carry no database on purpose so a storage touch would panic
// the test.
func TestCreateTaskValidation(t *testing.T) {
	s := NewTaskService(nil, progression.NewEvaluator(nil), events.NewDispatcher())
	ctx := context.Background()
	uid := primitive.NewObjectID()

	_, err := s.CreateTask(ctx, uid, CreateTaskRequest{Title: "   ", Difficulty: "latwy"})
	assert.ErrorIs(t, err, ErrInvalidTitle)

	_, err = s.CreateTask(ctx, uid, CreateTaskRequest{Title: "laundry", Difficulty: "impossible"})
	assert.ErrorIs(t, err, progression.ErrUnknownDifficulty)

	_, err = s.CreateTask(ctx, uid, CreateTaskRequest{Title: "laundry", Difficulty: "latwy", DueDate: "tomorrow"})
	assert.ErrorIs(t, err, ErrInvalidDueDate)
}

func TestUpdateTaskStatusValidation(t *testing.T) {
	s := NewTaskService(nil, progression.NewEvaluator(nil), events.NewDispatcher())
	ctx := context.Background()
	uid := primitive.NewObjectID()

	_, err := s.UpdateTaskStatus(ctx, uid, "", "done")
	assert.ErrorIs(t, err, ErrInvalidTaskID)

	_, err = s.UpdateTaskStatus(ctx, uid, primitive.NewObjectID().Hex(), "finished")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = s.UpdateTaskStatus(ctx, uid, "not-an-object-id", "done")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestCompleteTaskValidation(t *testing.T) {
	s := NewTaskService(nil, progression.NewEvaluator(nil), events.NewDispatcher())
	ctx := context.Background()
	uid := primitive.NewObjectID()

	_, err := s.CompleteTask(ctx, uid, primitive.NewObjectID().Hex(), "foo")
	assert.ErrorIs(t, err, progression.ErrUnknownDifficulty)

	_, err = s.CompleteTask(ctx, uid, "", "trudny")
	assert.ErrorIs(t, err, ErrInvalidTaskID)
}
