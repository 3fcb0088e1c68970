package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskhero/db"
	"taskhero/events"
	"taskhero/models"
	"taskhero/progression"
	"taskhero/websocket"
)

// CreateTaskRequest carries the createTask RPC arguments.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	DueDate     string `json:"dueDate"` // RFC3339, empty means now
}

// ProgressionResult is the completeTask response: the profile after the
// evaluation plus whether a level boundary was crossed.
type ProgressionResult struct {
	XP        int     `json:"xp"`
	Level     int     `json:"level"`
	MaxHealth int     `json:"maxHealth"`
	MaxHunger int     `json:"maxHunger"`
	MaxXP     int     `json:"maxXp"`
	Health    float64 `json:"health"`
	Hunger    float64 `json:"hunger"`
	LeveledUp bool    `json:"leveledUp"`
}

// TaskService owns the task RPC surface. Every write publishes a
// TaskWritten event with the prior and new snapshots; the challenge
// evaluator subscribes to those.
type TaskService struct {
	database   *mongo.Database
	evaluator  *progression.Evaluator
	dispatcher *events.Dispatcher
}

var taskService *TaskService

// InitTaskService wires the singleton used by the controllers.
func InitTaskService(database *mongo.Database, evaluator *progression.Evaluator, dispatcher *events.Dispatcher) {
	taskService = NewTaskService(database, evaluator, dispatcher)
}

// GetTaskService returns the singleton instance.
func GetTaskService() *TaskService {
	return taskService
}

func NewTaskService(database *mongo.Database, evaluator *progression.Evaluator, dispatcher *events.Dispatcher) *TaskService {
	return &TaskService{database: database, evaluator: evaluator, dispatcher: dispatcher}
}

// CreateTask validates the request before touching storage, then inserts
// the task with status inProgress.
func (s *TaskService) CreateTask(ctx context.Context, userID primitive.ObjectID, req CreateTaskRequest) (*models.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrInvalidTitle
	}
	if !progression.ValidDifficulty(req.Difficulty) {
		return nil, fmt.Errorf("%w: %q", progression.ErrUnknownDifficulty, req.Difficulty)
	}

	dueDate := time.Now()
	if req.DueDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			return nil, ErrInvalidDueDate
		}
		dueDate = parsed
	}

	now := time.Now()
	task := models.Task{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Difficulty:  req.Difficulty,
		Status:      models.TaskStatusInProgress,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.database.Collection(db.TasksCollection).InsertOne(ctx, task); err != nil {
		return nil, fmt.Errorf("inserting task: %w", err)
	}

	s.dispatcher.Publish(ctx, events.TaskWritten{UserID: userID, Before: nil, After: &task})
	return &task, nil
}

// ListTasks returns the caller's tasks, newest first.
func (s *TaskService) ListTasks(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.database.Collection(db.TasksCollection).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("decoding tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTaskStatus sets the task status. Moving into done stamps
// completedAt server-side; moving out of done clears it, keeping the
// completedAt-iff-done invariant. No XP is granted on this path.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, userID primitive.ObjectID, taskID, status string) (*models.Task, error) {
	if taskID == "" {
		return nil, ErrInvalidTaskID
	}
	if !models.ValidTaskStatus(status) {
		return nil, ErrInvalidStatus
	}
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, ErrTaskNotFound
	}

	tasks := s.database.Collection(db.TasksCollection)
	filter := bson.M{"_id": oid, "userId": userID}

	var before models.Task
	if err := tasks.FindOne(ctx, filter).Decode(&before); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("loading task: %w", err)
	}

	now := time.Now()
	set := bson.M{"status": status, "updatedAt": now}
	update := bson.M{"$set": set}
	if status == models.TaskStatusDone {
		set["completedAt"] = now
	} else {
		update["$unset"] = bson.M{"completedAt": ""}
	}

	if _, err := tasks.UpdateOne(ctx, filter, update); err != nil {
		return nil, fmt.Errorf("updating task status: %w", err)
	}

	after := before
	after.Status = status
	after.UpdatedAt = now
	if status == models.TaskStatusDone {
		after.CompletedAt = &now
	} else {
		after.CompletedAt = nil
	}

	s.dispatcher.Publish(ctx, events.TaskWritten{UserID: userID, Before: &before, After: &after})
	return &after, nil
}

// CompleteTask runs the progression evaluator inside a transaction: the
// profile is re-read, the new profile and the done-marked task are
// written together, and both succeed or both fail.
func (s *TaskService) CompleteTask(ctx context.Context, userID primitive.ObjectID, taskID, difficulty string) (*ProgressionResult, error) {
	if !progression.ValidDifficulty(difficulty) {
		return nil, fmt.Errorf("%w: %q", progression.ErrUnknownDifficulty, difficulty)
	}
	if taskID == "" {
		return nil, ErrInvalidTaskID
	}
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, ErrTaskNotFound
	}

	users := s.database.Collection(db.UsersCollection)
	tasks := s.database.Collection(db.TasksCollection)

	session, err := s.database.Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("starting session: %w", err)
	}
	defer session.EndSession(ctx)

	var (
		result progression.Result
		before models.Task
		after  models.Task
	)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var user models.User
		if err := users.FindOne(sc, bson.M{"_id": userID}).Decode(&user); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, ErrProfileNotFound
			}
			return nil, fmt.Errorf("loading profile: %w", err)
		}

		if err := tasks.FindOne(sc, bson.M{"_id": oid, "userId": userID}).Decode(&before); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, ErrTaskNotFound
			}
			return nil, fmt.Errorf("loading task: %w", err)
		}

		result, err = s.evaluator.Apply(user.Profile, difficulty)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		if _, err := users.UpdateOne(sc, bson.M{"_id": userID}, bson.M{
			"$set": bson.M{"profile": result.Profile, "updatedAt": now},
		}); err != nil {
			return nil, fmt.Errorf("writing profile: %w", err)
		}

		if _, err := tasks.UpdateOne(sc, bson.M{"_id": oid, "userId": userID}, bson.M{
			"$set": bson.M{"status": models.TaskStatusDone, "completedAt": now, "updatedAt": now},
		}); err != nil {
			return nil, fmt.Errorf("marking task done: %w", err)
		}

		after = before
		after.Status = models.TaskStatusDone
		after.CompletedAt = &now
		after.UpdatedAt = now
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	websocket.BroadcastProgressEvent(models.ProgressEvent{
		Type:      "xp_gained",
		UserID:    userID.Hex(),
		XP:        result.XPGain,
		Level:     result.Profile.Level,
		Timestamp: time.Now(),
	})
	if result.LeveledUp {
		websocket.BroadcastProgressEvent(models.ProgressEvent{
			Type:      "level_up",
			UserID:    userID.Hex(),
			Level:     result.Profile.Level,
			Timestamp: time.Now(),
		})
	}

	s.dispatcher.Publish(ctx, events.TaskWritten{UserID: userID, Before: &before, After: &after})

	p := result.Profile
	return &ProgressionResult{
		XP:        p.XP,
		Level:     p.Level,
		MaxHealth: p.MaxHealth,
		MaxHunger: p.MaxHunger,
		MaxXP:     p.MaxXP,
		Health:    p.Health,
		Hunger:    p.Hunger,
		LeveledUp: result.LeveledUp,
	}, nil
}
