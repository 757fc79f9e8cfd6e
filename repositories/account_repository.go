// repositories/account_repository.go
package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tukprojects/projects_backend/config"
	"github.com/tukprojects/projects_backend/models"
)

// AccountRepository is the MongoDB-backed account store the auth core
// consumes. Find methods return (nil, nil) when no document matches.
type AccountRepository struct {
	collection *mongo.Collection
}

func NewAccountRepository(db *mongo.Client) *AccountRepository {
	return &AccountRepository{
		collection: config.GetCollection(db, "accounts"),
	}
}

func (r *AccountRepository) FindByPhone(ctx context.Context, phoneNumber string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"phoneNumber": phoneNumber})
}

func (r *AccountRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByPhoneOrEmail matches the identifier against either field, used by
// the registration uniqueness check.
func (r *AccountRepository) FindByPhoneOrEmail(ctx context.Context, identifier string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"$or": []bson.M{
		{"phoneNumber": identifier},
		{"email": identifier},
	}})
}

// Save upserts the account: insert when it has no id yet (assigning one),
// full document replace otherwise. Replace drops unset optional fields such
// as a cleared otpCode.
func (r *AccountRepository) Save(ctx context.Context, account *models.Account) error {
	if account.ID.IsZero() {
		result, err := r.collection.InsertOne(ctx, account)
		if err != nil {
			return err
		}
		if id, ok := result.InsertedID.(primitive.ObjectID); ok {
			account.ID = id
		}
		return nil
	}

	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"_id": account.ID},
		account,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	var account models.Account
	err := r.collection.FindOne(ctx, filter).Decode(&account)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}
