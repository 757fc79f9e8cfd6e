// services/auth/store.go
package auth

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tukprojects/projects_backend/models"
)

// AccountStore is the persistence collaborator of the session core. It is the
// sole point of serialization: all session state (refresh tokens, otpCode)
// round-trips through it. Find methods return (nil, nil) when no account
// matches. Save upserts: inserts when the account has no id yet, setting it,
// and replaces the stored document otherwise.
type AccountStore interface {
	FindByPhone(ctx context.Context, phoneNumber string) (*models.Account, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error)
	FindByPhoneOrEmail(ctx context.Context, identifier string) (*models.Account, error)
	Save(ctx context.Context, account *models.Account) error
}

// SMSSender delivers a message to a phone number. Delivery is best effort:
// callers log failures instead of surfacing them.
type SMSSender interface {
	Send(phoneNumber, message string) error
}
