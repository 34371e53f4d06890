package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/homie-rental/internal/model"
)

// UserRepo mirrors the 'users' collection.
type UserRepo struct{ col *mongo.Collection }

func NewUserRepo(db *mongo.Database) *UserRepo { return &UserRepo{col: db.Collection(UsersCollection)} }

// Create inserts u and stores the generated id on it.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = NormalizeEmail(u.Email)
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": NormalizeEmail(email)})
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetManyByID returns the users among ids that exist, keyed by id.
func (r *UserRepo) GetManyByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.User, error) {
	out := make(map[primitive.ObjectID]*model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var u model.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out[u.ID] = &u
	}
	return out, cur.Err()
}

// AddToList adds ref to the given reference list unless it is already
// there.  Returns ErrNotFound when the user does not exist.
func (r *UserRepo) AddToList(ctx context.Context, userID primitive.ObjectID, list model.UserList, ref primitive.ObjectID) error {
	filter, update := addToListQuery(userID, list, ref, time.Now().UTC())
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveFromList pulls ref from the given reference list.  The filter
// only matches when ref is present, so the returned flag tells whether
// this call removed it.
func (r *UserRepo) RemoveFromList(ctx context.Context, userID primitive.ObjectID, list model.UserList, ref primitive.ObjectID) (bool, error) {
	filter, update := removeFromListQuery(userID, list, ref, time.Now().UTC())
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func addToListQuery(userID primitive.ObjectID, list model.UserList, ref primitive.ObjectID, now time.Time) (filter, update bson.M) {
	return bson.M{"_id": userID},
		bson.M{
			"$addToSet": bson.M{string(list): ref},
			"$set":      bson.M{"updatedAt": now},
		}
}

// removeFromListQuery matches the user only while ref is still in list.
func removeFromListQuery(userID primitive.ObjectID, list model.UserList, ref primitive.ObjectID, now time.Time) (filter, update bson.M) {
	return bson.M{"_id": userID, string(list): ref},
		bson.M{
			"$pull": bson.M{string(list): ref},
			"$set":  bson.M{"updatedAt": now},
		}
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var u model.User
	if err := r.col.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
