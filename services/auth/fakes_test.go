// services/auth/fakes_test.go
package auth

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tukprojects/projects_backend/models"
)

// fakeClock is a manually advanced clock shared by the token service and the
// managers under test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (fc *fakeClock) Now() time.Time {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.now
}

func (fc *fakeClock) Advance(d time.Duration) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.now = fc.now.Add(d)
}

// fakeStore is an in-memory AccountStore. Reads return copies so tests catch
// code that mutates an account without saving it.
type fakeStore struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
	saves    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: make(map[string]*models.Account)}
}

func cloneAccount(a *models.Account) *models.Account {
	clone := *a
	clone.RefreshTokens = append([]string(nil), a.RefreshTokens...)
	clone.Permissions = append([]string(nil), a.Permissions...)
	if a.OTPCode != nil {
		code := *a.OTPCode
		clone.OTPCode = &code
	}
	return &clone
}

func (fs *fakeStore) FindByPhone(_ context.Context, phoneNumber string) (*models.Account, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for _, a := range fs.accounts {
		if a.PhoneNumber == phoneNumber {
			return cloneAccount(a), nil
		}
	}
	return nil, nil
}

func (fs *fakeStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Account, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if a, ok := fs.accounts[id.Hex()]; ok {
		return cloneAccount(a), nil
	}
	return nil, nil
}

func (fs *fakeStore) FindByPhoneOrEmail(_ context.Context, identifier string) (*models.Account, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for _, a := range fs.accounts {
		if a.PhoneNumber == identifier || (a.Email != "" && a.Email == identifier) {
			return cloneAccount(a), nil
		}
	}
	return nil, nil
}

func (fs *fakeStore) Save(_ context.Context, account *models.Account) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if account.ID.IsZero() {
		account.ID = primitive.NewObjectID()
	}
	fs.accounts[account.ID.Hex()] = cloneAccount(account)
	fs.saves++
	return nil
}

// mustGet returns the stored copy of an account, failing loudly if absent.
func (fs *fakeStore) mustGet(id primitive.ObjectID) *models.Account {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	a, ok := fs.accounts[id.Hex()]
	if !ok {
		panic("account not in store: " + id.Hex())
	}
	return cloneAccount(a)
}

func (fs *fakeStore) saveCount() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.saves
}

// fakeSMS records sent messages and can be told to fail.
type fakeSMS struct {
	mu       sync.Mutex
	sent     []string
	lastTo   string
	sendErr  error
	sendUsed int
}

func (f *fakeSMS) Send(phoneNumber, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendUsed++
	if f.sendErr != nil {
		return f.sendErr
	}
	f.lastTo = phoneNumber
	f.sent = append(f.sent, message)
	return nil
}
