// models/account.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account statuses. "disabled" is reserved: no code path sets it yet, but
// login must reject it.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

const (
	RoleNormal = "normal"
	RoleAdmin  = "admin"
)

// Account model
type Account struct {
	ID                  primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	FirstName           string             `json:"firstName" bson:"firstName"`
	LastName            string             `json:"lastName" bson:"lastName"`
	PhoneNumber         string             `json:"phoneNumber" bson:"phoneNumber"`
	Email               string             `json:"email,omitempty" bson:"email,omitempty"`
	Password            string             `json:"password,omitempty" bson:"password"`
	Biography           string             `json:"biography,omitempty" bson:"biography,omitempty"`
	Role                string             `json:"role" bson:"role"`
	AccessLevel         int                `json:"accessLevel,omitempty" bson:"accessLevel"`
	Permissions         []string           `json:"permissions,omitempty" bson:"permissions"`
	RefreshTokens       []string           `json:"refreshTokens,omitempty" bson:"refreshTokens"`
	OTPCode             *int               `json:"-" bson:"otpCode,omitempty"`
	Status              string             `json:"status" bson:"status"`
	IsPhoneVerified     bool               `json:"isPhoneVerified" bson:"isPhoneVerified"`
	ForcePasswordChange bool               `json:"-" bson:"forcePasswordChange,omitempty"`
	ProfileImageURL     string             `json:"profileImageURL,omitempty" bson:"profileImageURL,omitempty"`
	LastLogin           time.Time          `json:"lastLogin" bson:"lastLogin"`
	CreatedAt           time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// FullName returns the display name used in owner/commenter snapshots.
func (a *Account) FullName() string {
	return a.FirstName + " " + a.LastName
}

// StripSensitive blanks every field that must never leave the server:
// password hash, stored refresh tokens and the authorization metadata.
// Paired with omitempty so the fields vanish from JSON output.
func (a *Account) StripSensitive() {
	a.Password = ""
	a.RefreshTokens = nil
	a.AccessLevel = 0
	a.Permissions = nil
	a.OTPCode = nil
}

// LoginRequest is the credential payload for /auth/login
type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,max=15"`
	Password    string `json:"password" validate:"required,min=8"`
}

// RegisterRequest is the payload for /auth/register
type RegisterRequest struct {
	FirstName            string `json:"firstName" validate:"required,max=50"`
	LastName             string `json:"lastName" validate:"required,max=50"`
	PhoneNumber          string `json:"phoneNumber" validate:"required,min=11,max=15"`
	Email                string `json:"email,omitempty" validate:"omitempty,email,max=50"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required,eqfield=Password"`
	Biography            string `json:"biography,omitempty"`
}

// RefreshTokenRequest is the payload for /auth/refreshtoken
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// SendPhoneCodeRequest is the payload for /auth/sendphonecode
type SendPhoneCodeRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,max=15"`
}

// RecoverPasswordRequest is the payload for /auth/recoverpassword
type RecoverPasswordRequest struct {
	VerificationCode  int    `json:"verificationCode" validate:"min=0,max=999999"`
	VerificationToken string `json:"verificationToken" validate:"required,max=256"`
	NewPassword       string `json:"newPassword" validate:"required,min=8"`
}

// ChangePasswordRequest is the payload for /users/changepassword
type ChangePasswordRequest struct {
	CurrentPassword         string `json:"currentPassword" validate:"required"`
	NewPassword             string `json:"newPassword" validate:"required,min=8"`
	NewPasswordConfirmation string `json:"newPasswordConfirmation" validate:"required,eqfield=NewPassword"`
}

// UpdateProfileRequest is the payload for /users/profile
type UpdateProfileRequest struct {
	FirstName       string `json:"firstName" validate:"required,max=50"`
	LastName        string `json:"lastName" validate:"required,max=50"`
	Biography       string `json:"biography,omitempty" validate:"omitempty,max=500"`
	ProfileImageURL string `json:"profileImageURL,omitempty" validate:"omitempty,url"`
}

// TokenPair is the access/refresh pair returned by login and refresh
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is the login response payload
type LoginResult struct {
	Tokens  TokenPair `json:"tokens"`
	Account *Account  `json:"userAccount"`
}

// RegisterResult is the register response payload: public identity only
type RegisterResult struct {
	ID          primitive.ObjectID `json:"_id"`
	FirstName   string             `json:"firstName"`
	LastName    string             `json:"lastName"`
	PhoneNumber string             `json:"phoneNumber"`
	Email       string             `json:"email,omitempty"`
	Biography   string             `json:"biography,omitempty"`
	Role        string             `json:"role"`
}

// PhoneCodeResult is the sendphonecode response payload
type PhoneCodeResult struct {
	VerificationToken string    `json:"verificationToken"`
	ExpiryDate        time.Time `json:"expiryDate"`
}
