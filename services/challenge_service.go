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
	"taskhero/events"
	"taskhero/models"
	"taskhero/progression"
	"taskhero/websocket"
)

// challengeUpdate is one planned write for a user challenge.
type challengeUpdate struct {
	ChallengeID string
	Title       string
	Completed   bool
	Progress    float64
	XPReward    int
}

// ChallengeService evaluates the challenge catalog on task completions.
// It subscribes to TaskWritten events and acts only on the transition
// into done.
type ChallengeService struct {
	database *mongo.Database
	push     *PushService
}

var challengeService *ChallengeService

// InitChallengeService wires the singleton and returns it so main can
// register it on the event dispatcher.
func InitChallengeService(database *mongo.Database, push *PushService) *ChallengeService {
	challengeService = NewChallengeService(database, push)
	return challengeService
}

// GetChallengeService returns the singleton instance.
func GetChallengeService() *ChallengeService {
	return challengeService
}

func NewChallengeService(database *mongo.Database, push *PushService) *ChallengeService {
	return &ChallengeService{database: database, push: push}
}

// HandleTaskWritten is the event entry point. Writes that are not a
// transition into done are ignored, which keeps re-saves of an already
// done task from double-counting.
func (s *ChallengeService) HandleTaskWritten(ctx context.Context, ev events.TaskWritten) error {
	if !ev.CompletedTransition() {
		return nil
	}
	return s.Evaluate(ctx, ev.UserID, ev.After)
}

// Evaluate recomputes the aggregate statistics over the user's full task
// collection and tests every eligible, not-yet-completed challenge.
// All writes of one pass commit in a single transaction.
func (s *ChallengeService) Evaluate(ctx context.Context, userID primitive.ObjectID, trigger *models.Task) error {
	var user models.User
	err := s.database.Collection(db.UsersCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrProfileNotFound
		}
		return fmt.Errorf("loading profile: %w", err)
	}

	cursor, err := s.database.Collection(db.TasksCollection).Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return fmt.Errorf("decoding tasks: %w", err)
	}

	stats := progression.ComputeStats(tasks, user.Profile.Level, time.Now())

	catalog, err := s.loadCatalog(ctx, user.Profile.Level)
	if err != nil {
		return err
	}

	existing, err := s.loadUserChallenges(ctx, userID)
	if err != nil {
		return err
	}

	updates := planEvaluation(catalog, existing, stats, trigger)

	// Commit runs even with nothing to award: the streak ratchet must
	// persist on every pass or profile.currentStreak freezes once the
	// user has finished every eligible challenge.
	awarded, err := s.commit(ctx, userID, updates, stats.CurrentStreak)
	if err != nil {
		return err
	}

	for _, u := range awarded {
		websocket.BroadcastProgressEvent(models.ProgressEvent{
			Type:        "challenge_completed",
			UserID:      userID.Hex(),
			ChallengeID: u.ChallengeID,
			XP:          u.XPReward,
			Timestamp:   time.Now(),
		})
		s.push.Send(user.PushToken, "Challenge completed!", fmt.Sprintf("%s — +%d XP", u.Title, u.XPReward), map[string]interface{}{
			"challengeId": u.ChallengeID,
		})
	}
	return nil
}

func (s *ChallengeService) loadCatalog(ctx context.Context, level int) ([]models.Challenge, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := s.database.Collection(db.ChallengesCollection).Find(ctx,
		bson.M{"requiredLevel": bson.M{"$lte": level}}, opts)
	if err != nil {
		return nil, fmt.Errorf("loading challenge catalog: %w", err)
	}
	var catalog []models.Challenge
	if err := cursor.All(ctx, &catalog); err != nil {
		return nil, fmt.Errorf("decoding challenge catalog: %w", err)
	}
	return catalog, nil
}

func (s *ChallengeService) loadUserChallenges(ctx context.Context, userID primitive.ObjectID) (map[string]models.UserChallenge, error) {
	cursor, err := s.database.Collection(db.UserChallengesCollection).Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("loading user challenges: %w", err)
	}
	var docs []models.UserChallenge
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding user challenges: %w", err)
	}
	existing := make(map[string]models.UserChallenge, len(docs))
	for _, d := range docs {
		existing[d.ChallengeID] = d
	}
	return existing, nil
}

// planEvaluation tests every eligible challenge against the shared stats
// and returns the writes to make. Challenges already completed are
// skipped outright: completion is monotonic. Unknown condition tags are
// logged and contribute a never-completed result instead of failing the
// pass.
func planEvaluation(catalog []models.Challenge, existing map[string]models.UserChallenge, stats progression.Stats, trigger *models.Task) []challengeUpdate {
	var updates []challengeUpdate

	for _, ch := range catalog {
		if prev, ok := existing[ch.ID]; ok && prev.Status == models.ChallengeStatusCompleted {
			continue
		}

		cond := progression.ParseCondition(ch.Condition)
		if unknown, ok := cond.(progression.UnknownCondition); ok {
			log.Printf("challenges: unknown condition type %q on challenge %s, skipping", unknown.Type, ch.ID)
		}

		res := cond.Check(stats, trigger)

		if res.Completed {
			updates = append(updates, challengeUpdate{
				ChallengeID: ch.ID,
				Title:       ch.Title,
				Completed:   true,
				Progress:    1,
				XPReward:    ch.XPReward,
			})
			continue
		}

		// Only write progress when it moved, to keep the batch small.
		if prev, ok := existing[ch.ID]; ok && prev.Progress == res.Progress && prev.Status == models.ChallengeStatusActive {
			continue
		}
		updates = append(updates, challengeUpdate{
			ChallengeID: ch.ID,
			Title:       ch.Title,
			Progress:    res.Progress,
		})
	}
	return updates
}

// profileRatchet builds the per-pass profile update. The streak only
// moves upward through $max; XP is credited only when a pass actually
// awarded something.
func profileRatchet(streak, totalXP int, now time.Time) bson.M {
	update := bson.M{
		"$max": bson.M{"profile.currentStreak": streak},
		"$set": bson.M{"updatedAt": now},
	}
	if totalXP > 0 {
		update["$inc"] = bson.M{"profile.xp": totalXP}
	}
	return update
}

// commit applies one evaluation pass atomically. Completions use a
// conditional write (status != completed in the filter) so two
// concurrent passes cannot both award the same challenge; XP is only
// incremented for documents the conditional write actually flipped.
// The profile streak ratchet is written on every pass, including passes
// with no challenge updates.
func (s *ChallengeService) commit(ctx context.Context, userID primitive.ObjectID, updates []challengeUpdate, streak int) ([]challengeUpdate, error) {
	userChallenges := s.database.Collection(db.UserChallengesCollection)
	users := s.database.Collection(db.UsersCollection)

	// A pass with no challenge writes is a single profile update; no
	// transaction needed.
	if len(updates) == 0 {
		if _, err := users.UpdateOne(ctx, bson.M{"_id": userID}, profileRatchet(streak, 0, time.Now())); err != nil {
			return nil, fmt.Errorf("ratcheting streak: %w", err)
		}
		return nil, nil
	}

	session, err := s.database.Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("starting session: %w", err)
	}
	defer session.EndSession(ctx)

	var awarded []challengeUpdate

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		awarded = awarded[:0]
		now := time.Now()
		totalXP := 0

		for _, u := range updates {
			if u.Completed {
				res, err := userChallenges.UpdateOne(sc,
					bson.M{
						"userId":      userID,
						"challengeId": u.ChallengeID,
						"status":      bson.M{"$ne": models.ChallengeStatusCompleted},
					},
					bson.M{"$set": bson.M{
						"status":      models.ChallengeStatusCompleted,
						"progress":    1.0,
						"completedAt": now,
						"xpRewarded":  u.XPReward,
						"updatedAt":   now,
					}},
					options.Update().SetUpsert(true),
				)
				if err != nil {
					// The unique userId+challengeId index turns a lost
					// race into a duplicate key error; the other writer
					// already awarded this one.
					if mongo.IsDuplicateKeyError(err) {
						continue
					}
					return nil, fmt.Errorf("completing challenge %s: %w", u.ChallengeID, err)
				}
				if res.ModifiedCount > 0 || res.UpsertedCount > 0 {
					totalXP += u.XPReward
					awarded = append(awarded, u)
				}
				continue
			}

			_, err := userChallenges.UpdateOne(sc,
				bson.M{
					"userId":      userID,
					"challengeId": u.ChallengeID,
					"status":      bson.M{"$ne": models.ChallengeStatusCompleted},
				},
				bson.M{"$set": bson.M{
					"status":    models.ChallengeStatusActive,
					"progress":  u.Progress,
					"updatedAt": now,
				}},
				options.Update().SetUpsert(true),
			)
			if err != nil {
				if mongo.IsDuplicateKeyError(err) {
					continue
				}
				return nil, fmt.Errorf("updating challenge %s: %w", u.ChallengeID, err)
			}
		}

		if _, err := users.UpdateOne(sc, bson.M{"_id": userID}, profileRatchet(streak, totalXP, now)); err != nil {
			return nil, fmt.Errorf("crediting challenge xp: %w", err)
		}

		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return awarded, nil
}
