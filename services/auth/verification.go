// services/auth/verification.go
package auth

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/tukprojects/projects_backend/apperrors"
	"github.com/tukprojects/projects_backend/models"
)

// VerificationFlow implements the phone-code/password-recovery state machine.
// The pending state lives entirely on the account's otpCode field plus the
// caller's possession of the verification token.
type VerificationFlow struct {
	store        AccountStore
	tokens       *TokenService
	validator    *Validator
	sms          SMSSender
	codeLifetime time.Duration
	now          func() time.Time
	logger       *log.Logger
}

// NewVerificationFlow builds the flow. Pass a nil clock for time.Now and a
// nil logger for the default logger.
func NewVerificationFlow(store AccountStore, tokens *TokenService, validator *Validator, sms SMSSender, codeLifetime time.Duration, clock func() time.Time, logger *log.Logger) *VerificationFlow {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = log.Default()
	}
	return &VerificationFlow{
		store:        store,
		tokens:       tokens,
		validator:    validator,
		sms:          sms,
		codeLifetime: codeLifetime,
		now:          clock,
		logger:       logger,
	}
}

// SendPhoneCode generates a one-time numeric code for the account, signs a
// short-lived verification token WITH THE CODE ITSELF as the secret, persists
// the code on the account and dispatches it over SMS. SMS delivery is best
// effort: a failure is logged, never surfaced to the caller.
func (vf *VerificationFlow) SendPhoneCode(ctx context.Context, req *models.SendPhoneCodeRequest) (*models.PhoneCodeResult, error) {
	if err := vf.validator.ValidateSendPhoneCode(req); err != nil {
		return nil, err
	}

	account, err := vf.store.FindByPhone(ctx, req.PhoneNumber)
	if err != nil {
		return nil, apperrors.New(apperrors.KindStore, "Failed to look up account")
	}
	if account == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "User account not found")
	}

	code, err := GenerateVerificationCode()
	if err != nil {
		return nil, apperrors.New(apperrors.KindStore, "Failed to generate verification code")
	}

	verificationToken, err := vf.tokens.IssueVerificationToken(account.ID.Hex(), strconv.Itoa(code))
	if err != nil {
		return nil, apperrors.New(apperrors.KindStore, "Failed to generate verification token")
	}

	account.OTPCode = &code
	account.UpdatedAt = vf.now()
	if err := vf.store.Save(ctx, account); err != nil {
		return nil, apperrors.New(apperrors.KindStore, "Failed to update account")
	}

	message := fmt.Sprintf("Your verification code is %06d. It expires in %d minutes.", code, int(vf.codeLifetime.Minutes()))
	if err := vf.sms.Send(req.PhoneNumber, message); err != nil {
		vf.logger.Printf("failed to send verification SMS to %s: %v", req.PhoneNumber, err)
	}

	return &models.PhoneCodeResult{
		VerificationToken: verificationToken,
		ExpiryDate:        vf.now().Add(vf.codeLifetime),
	}, nil
}

// RecoverPassword completes the flow: the submitted code must both verify the
// token's signature (it is the signing secret) and match the code stored on
// the account. Expired and forged tokens produce the same response. On
// success the password is replaced, the pending code cleared and any forced
// password change reset.
func (vf *VerificationFlow) RecoverPassword(ctx context.Context, req *models.RecoverPasswordRequest) error {
	if err := vf.validator.ValidateRecoverPassword(req); err != nil {
		return err
	}

	claims, err := vf.tokens.VerifyVerificationToken(req.VerificationToken, strconv.Itoa(req.VerificationCode))
	if err != nil {
		return apperrors.New(apperrors.KindUnauthorized, "Invalid or expired verification token")
	}

	accountID, err := primitive.ObjectIDFromHex(claims.AccountID)
	if err != nil {
		return apperrors.New(apperrors.KindUnauthorized, "Invalid or expired verification token")
	}

	account, err := vf.store.FindByID(ctx, accountID)
	if err != nil {
		return apperrors.New(apperrors.KindStore, "Failed to look up account")
	}
	if account == nil {
		return apperrors.New(apperrors.KindNotFound, "User account not found")
	}

	if account.OTPCode == nil || *account.OTPCode != req.VerificationCode {
		return apperrors.New(apperrors.KindInvalidInput, "Invalid code")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.New(apperrors.KindStore, "Failed to hash password")
	}

	account.Password = string(hashedPassword)
	account.OTPCode = nil
	account.ForcePasswordChange = false
	account.UpdatedAt = vf.now()

	if err := vf.store.Save(ctx, account); err != nil {
		return apperrors.New(apperrors.KindStore, "Failed to update account")
	}

	vf.logger.Printf("password recovered for account %s", account.ID.Hex())

	return nil
}
