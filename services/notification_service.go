package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskhero/db"
	"taskhero/models"
)

// NotificationService runs the scheduled reminder checks. Each check is
// best-effort: query errors are logged per run and one user's failure
// never blocks the rest. Delivery goes through the push relay.
type NotificationService struct {
	database *mongo.Database
	push     *PushService
}

var notificationService *NotificationService

// InitNotificationService wires the singleton used by the scheduler.
func InitNotificationService(database *mongo.Database, push *PushService) {
	notificationService = NewNotificationService(database, push)
}

// GetNotificationService returns the singleton instance.
func GetNotificationService() *NotificationService {
	return notificationService
}

func NewNotificationService(database *mongo.Database, push *PushService) *NotificationService {
	return &NotificationService{database: database, push: push}
}

// CheckDueSoon reminds users about open tasks due within the next hour.
// Runs every 10 minutes.
func (s *NotificationService) CheckDueSoon(ctx context.Context) {
	now := time.Now()
	cursor, err := s.database.Collection(db.TasksCollection).Find(ctx, bson.M{
		"status":  bson.M{"$ne": models.TaskStatusDone},
		"dueDate": bson.M{"$gt": now, "$lte": now.Add(time.Hour)},
	})
	if err != nil {
		log.Printf("notifications: due-soon query: %v", err)
		return
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			log.Printf("notifications: decoding task: %v", err)
			continue
		}
		token, err := s.pushTokenFor(ctx, task.UserID)
		if err != nil || token == "" {
			continue
		}
		left := time.Until(task.DueDate).Round(time.Minute)
		s.push.Send(token, "Task due soon", fmt.Sprintf("%q is due in %s", task.Title, left), map[string]interface{}{
			"taskId": task.ID.Hex(),
		})
	}
}

// CheckStarving warns users whose hunger has reached 90% of its max,
// since the next decay ticks will start draining health. Runs hourly.
func (s *NotificationService) CheckStarving(ctx context.Context) {
	s.forEachUser(ctx, "starving", func(user models.User) {
		if user.PushToken == "" || user.Profile.MaxHunger <= 0 {
			return
		}
		if user.Profile.Hunger < 0.9*float64(user.Profile.MaxHunger) {
			return
		}
		s.push.Send(user.PushToken, "Your hero is starving!",
			"Complete a task to feed your hero before health starts dropping.", nil)
	})
}

// CheckStreakAtRisk nudges users whose last completion is 12-24h old:
// still inside the rolling window, but about to fall out of it. Runs
// every 12 hours.
func (s *NotificationService) CheckStreakAtRisk(ctx context.Context) {
	now := time.Now()
	s.forEachUser(ctx, "streak", func(user models.User) {
		if user.PushToken == "" || user.Profile.CurrentStreak == 0 {
			return
		}
		var last models.Task
		err := s.database.Collection(db.TasksCollection).FindOne(ctx,
			bson.M{"userId": user.ID, "status": models.TaskStatusDone},
			findOneNewestCompleted(),
		).Decode(&last)
		if err != nil || last.CompletedAt == nil {
			return
		}
		age := now.Sub(*last.CompletedAt)
		if age < 12*time.Hour || age > 24*time.Hour {
			return
		}
		s.push.Send(user.PushToken, "Streak at risk",
			fmt.Sprintf("Complete a task in the next %s to keep your %d-day streak.",
				(24*time.Hour-age).Round(time.Hour), user.Profile.CurrentStreak), nil)
	})
}

// DailySummary sends each user their open-task count. Runs daily.
func (s *NotificationService) DailySummary(ctx context.Context) {
	s.forEachUser(ctx, "summary", func(user models.User) {
		if user.PushToken == "" {
			return
		}
		count, err := s.database.Collection(db.TasksCollection).CountDocuments(ctx,
			bson.M{"userId": user.ID, "status": bson.M{"$ne": models.TaskStatusDone}})
		if err != nil {
			log.Printf("notifications: counting open tasks for %s: %v", user.ID.Hex(), err)
			return
		}
		if count == 0 {
			return
		}
		s.push.Send(user.PushToken, "Daily summary",
			fmt.Sprintf("You have %d open tasks waiting.", count), nil)
	})
}

func (s *NotificationService) forEachUser(ctx context.Context, job string, fn func(models.User)) {
	cursor, err := s.database.Collection(db.UsersCollection).Find(ctx, bson.M{})
	if err != nil {
		log.Printf("notifications: %s: listing users: %v", job, err)
		return
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			log.Printf("notifications: %s: decoding user: %v", job, err)
			continue
		}
		fn(user)
	}
}

func (s *NotificationService) pushTokenFor(ctx context.Context, userID primitive.ObjectID) (string, error) {
	var user models.User
	err := s.database.Collection(db.UsersCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return "", err
	}
	return user.PushToken, nil
}

func findOneNewestCompleted() *options.FindOneOptions {
	return options.FindOne().SetSort(bson.D{{Key: "completedAt", Value: -1}})
}
