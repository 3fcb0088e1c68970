package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"taskhero/db"
	"taskhero/models"
	"taskhero/progression"
)

// DecayService runs the hourly hunger/health decay over every profile.
type DecayService struct {
	database      *mongo.Database
	evaluator     *progression.Evaluator
	hungerPerHour float64
	starvingLoss  float64
}

var decayService *DecayService

// InitDecayService wires the singleton used by the scheduler.
func InitDecayService(database *mongo.Database, evaluator *progression.Evaluator, hungerPerHour, starvingLoss float64) {
	decayService = NewDecayService(database, evaluator, hungerPerHour, starvingLoss)
}

// GetDecayService returns the singleton instance.
func GetDecayService() *DecayService {
	return decayService
}

func NewDecayService(database *mongo.Database, evaluator *progression.Evaluator, hungerPerHour, starvingLoss float64) *DecayService {
	return &DecayService{
		database:      database,
		evaluator:     evaluator,
		hungerPerHour: hungerPerHour,
		starvingLoss:  starvingLoss,
	}
}

// Run applies one decay tick to all users. The batch is best-effort: one
// user's failure is logged under the run id and never blocks the rest.
func (s *DecayService) Run(ctx context.Context) {
	runID := uuid.NewString()[:8]
	start := time.Now()

	users := s.database.Collection(db.UsersCollection)
	cursor, err := users.Find(ctx, bson.M{})
	if err != nil {
		log.Printf("decay[%s]: listing users: %v", runID, err)
		return
	}
	defer cursor.Close(ctx)

	updated, failed := 0, 0
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			log.Printf("decay[%s]: decoding user: %v", runID, err)
			failed++
			continue
		}

		next := s.evaluator.Decay(user.Profile, s.hungerPerHour, s.starvingLoss)
		if next.Hunger == user.Profile.Hunger && next.Health == user.Profile.Health {
			continue
		}

		_, err := users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
			"$set": bson.M{
				"profile.hunger": next.Hunger,
				"profile.health": next.Health,
				"updatedAt":      time.Now(),
			},
		})
		if err != nil {
			log.Printf("decay[%s]: updating user %s: %v", runID, user.ID.Hex(), err)
			failed++
			continue
		}
		updated++
	}
	if err := cursor.Err(); err != nil {
		log.Printf("decay[%s]: cursor error: %v", runID, err)
	}

	log.Printf("decay[%s]: updated %d profiles (%d failures) in %s", runID, updated, failed, time.Since(start))
}
