// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/taskhub/internal/app/system/normalize"
	"github.com/dalemusser/taskhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateEmail = errors.New("email already in use")
	ErrNotFound       = errors.New("user not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a new user. Email is normalized to lowercase; the unique
// index on email turns a duplicate insert into ErrDuplicateEmail.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	if u.AuthMethod == "" {
		u.AuthMethod = models.AuthMethodPassword
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, u)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID retrieves a user by ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByEmail retrieves a user by normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByIDs returns the users with the given ids, in store order.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AddRefreshToken appends a refresh credential to the user's outstanding
// set. Single-document $push; no transaction needed.
func (s *Store) AddRefreshToken(ctx context.Context, userID primitive.ObjectID, rt models.RefreshToken) error {
	res, err := s.c.UpdateByID(ctx, userID, bson.M{
		"$push": bson.M{"refresh_tokens": rt},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByRefreshToken finds the user holding the given refresh credential.
func (s *Store) GetByRefreshToken(ctx context.Context, token string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"refresh_tokens.token": token}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// RemoveRefreshToken revokes exactly the matching refresh credential,
// leaving the user's other outstanding credentials untouched. Returns the
// number of user documents modified (0 when no user held the token).
func (s *Store) RemoveRefreshToken(ctx context.Context, token string) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"refresh_tokens.token": token},
		bson.M{
			"$pull": bson.M{"refresh_tokens": bson.M{"token": token}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// PurgeExpiredRefreshTokens removes refresh credentials whose expiry has
// passed, across all users. Run by the cleanup worker, never on the request
// path. Returns the number of user documents modified.
func (s *Store) PurgeExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"refresh_tokens.expires_at": bson.M{"$lt": now}},
		bson.M{"$pull": bson.M{"refresh_tokens": bson.M{"expires_at": bson.M{"$lt": now}}}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// SetRole updates a user's global role. Used by the admin bootstrap at
// startup.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"role":       normalize.Role(role),
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureIndexes creates indexes for the users collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Unique email; registration duplicate detection depends on this.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_user_email"),
		},
		// Refresh-credential lookup for the /refresh and /logout paths.
		{
			Keys:    bson.D{{Key: "refresh_tokens.token", Value: 1}},
			Options: options.Index().SetName("idx_user_refresh_token"),
		},
		// Case-insensitive name for sorting.
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_user_name_ci"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
