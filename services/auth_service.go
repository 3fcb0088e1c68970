package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"taskhero/db"
	"taskhero/models"
	"taskhero/progression"
)

// JWTClaims are the token claims the middleware reads back.
type JWTClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// AuthService owns signup, login and token handling. Signup writes the
// level-1 profile defaults in the same insert, so a user document never
// exists without its profile.
type AuthService struct {
	database  *mongo.Database
	evaluator *progression.Evaluator
	secret    []byte
	tokenTTL  time.Duration
}

var authService *AuthService

// InitAuthService wires the singleton used by the controllers.
func InitAuthService(database *mongo.Database, evaluator *progression.Evaluator, secret string, expiryMinutes int) {
	authService = NewAuthService(database, evaluator, secret, expiryMinutes)
}

// GetAuthService returns the singleton instance.
func GetAuthService() *AuthService {
	return authService
}

func NewAuthService(database *mongo.Database, evaluator *progression.Evaluator, secret string, expiryMinutes int) *AuthService {
	return &AuthService{
		database:  database,
		evaluator: evaluator,
		secret:    []byte(secret),
		tokenTTL:  time.Duration(expiryMinutes) * time.Minute,
	}
}

// SignUp creates the account with its level-1 progression profile and
// returns a signed token.
func (s *AuthService) SignUp(ctx context.Context, email, password, displayName string) (*models.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Profile:      s.evaluator.NewProfile(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = s.database.Collection(db.UsersCollection).InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("inserting user: %w", err)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login checks credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	err := s.database.Collection(db.UsersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, "", ErrWrongCredentials
		}
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrWrongCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *AuthService) issueToken(userID primitive.ObjectID) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID: userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a bearer token and returns the caller's user id.
func (s *AuthService) ParseToken(tokenString string) (primitive.ObjectID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}
	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return primitive.NilObjectID, ErrInvalidToken
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}
	return userID, nil
}

// RegisterPushToken stores the device's Expo push token on the user.
func (s *AuthService) RegisterPushToken(ctx context.Context, userID primitive.ObjectID, token string) error {
	res, err := s.database.Collection(db.UsersCollection).UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"pushToken": token, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("storing push token: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
