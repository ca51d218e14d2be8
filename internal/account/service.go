// Package account implements the account lifecycle: a user registers
// (pending), validates their email through a signed token (validated), sets
// a password (credentialed) and can then log in. No transition ever moves
// backward.
package account

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"discoverlx/poi-api/internal/model"
	"discoverlx/poi-api/internal/storage"
	"discoverlx/poi-api/pkg/security"
	"discoverlx/poi-api/pkg/validators"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// How long an activation link stays usable
	ActivationTokenTTL = 24 * time.Hour
	// How long the password-setup capability handed out after a successful
	// validation stays usable
	SetupTokenTTL = time.Hour
)

// Mailer is the outbound activation mail boundary. Implementations must not
// fail past their own boundary, any transport error is reported as false.
type Mailer interface {
	SendActivation(to, username, link string) bool
}

type Service struct {
	db      *gorm.DB
	codec   *security.TokenCodec
	argon   *security.ArgonHash
	mailer  Mailer
	store   storage.Storage
	baseURL string
}

func NewService(db *gorm.DB, codec *security.TokenCodec, argon *security.ArgonHash, mailer Mailer, store storage.Storage, baseURL string) *Service {
	return &Service{
		db:      db,
		codec:   codec,
		argon:   argon,
		mailer:  mailer,
		store:   store,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

type RegisterResult struct {
	User *model.User
	// The raw activation link. Shown to the user directly when the mail
	// couldn't be delivered
	ActivationLink string
	MailSent       bool
}

// Register creates a pending account and tries to deliver the activation
// link. A failed delivery does not fail the registration: the committed
// account stays and the caller gets the raw link to show instead.
func (s *Service) Register(ctx context.Context, username, email string) (*RegisterResult, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validators.UsernameValidator(username); err != nil {
		return nil, fmt.Errorf("%w, %s", ErrInvalidInput, err)
	}

	if err := validators.EmailValidator(email); err != nil {
		return nil, fmt.Errorf("%w, %s", ErrInvalidInput, err)
	}

	token, err := s.codec.Issue(email, security.PurposeEmailValidation)
	if err != nil {
		return nil, fmt.Errorf("failed to issue activation token, %w", err)
	}

	expiry := time.Now().Add(ActivationTokenTTL)

	user := &model.User{
		Username:        username,
		Email:           email,
		ValidationToken: &token,
		TokenExpiresAt:  &expiry,
	}

	// The unique indexes are the authority on duplicates. A pre-flight
	// lookup would race against a concurrent registration of the same
	// username or email, the constraint can't
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateOf(ctx, username)
		}

		return nil, fmt.Errorf("failed to create account, %w", err)
	}

	link := fmt.Sprintf("%s/validate/%s", s.baseURL, token)
	sent := s.mailer.SendActivation(email, username, link)

	return &RegisterResult{
		User:           user,
		ActivationLink: link,
		MailSent:       sent,
	}, nil
}

// duplicateOf figures out which unique constraint fired.
func (s *Service) duplicateOf(ctx context.Context, username string) error {
	var count int64

	err := s.db.WithContext(ctx).
		Model(model.User{}).
		Where("username = ?", username).
		Count(&count).
		Error
	if err == nil && count > 0 {
		return ErrDuplicateUsername
	}

	return ErrDuplicateEmail
}

type ActivateResult struct {
	User *model.User
	// Short-lived capability the caller must present back to SetPassword
	SetupToken string
}

// Activate verifies an activation token and transitions the account to
// validated. Activating an already validated account is idempotent and
// reports ErrAlreadyValidated without touching any state.
func (s *Service) Activate(ctx context.Context, token string) (*ActivateResult, error) {
	email, err := s.codec.Verify(token, security.PurposeEmailValidation, ActivationTokenTTL)
	if err != nil {
		return nil, ErrInvalidOrExpiredToken
	}

	var user model.User

	err = s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}

		return nil, fmt.Errorf("failed to look up account, %w", err)
	}

	if user.Validated {
		return nil, ErrAlreadyValidated
	}

	// The stored token must match exactly. A signature-valid token that was
	// superseded by a newer one is useless
	if user.ValidationToken == nil || *user.ValidationToken != token {
		return nil, ErrAccountNotFound
	}

	// Belt and braces next to the codec's own max-age check
	if user.TokenExpiresAt != nil && time.Now().After(*user.TokenExpiresAt) {
		return nil, ErrInvalidOrExpiredToken
	}

	err = s.db.WithContext(ctx).
		Model(model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"validated":        true,
			"validation_token": nil,
		}).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to mark account validated, %w", err)
	}

	user.Validated = true
	user.ValidationToken = nil

	setupToken, err := s.codec.Issue(strconv.FormatUint(uint64(user.ID), 10), security.PurposePasswordSetup)
	if err != nil {
		return nil, fmt.Errorf("failed to issue setup token, %w", err)
	}

	return &ActivateResult{
		User:       &user,
		SetupToken: setupToken,
	}, nil
}

// SetPassword consumes a setup token and stores the account's password
// hash. The token counts as consumed once a hash is set, presenting it
// again fails.
func (s *Service) SetPassword(ctx context.Context, setupToken, password, confirm string) (*model.User, error) {
	subject, err := s.codec.Verify(setupToken, security.PurposePasswordSetup, SetupTokenTTL)
	if err != nil {
		return nil, ErrNoPendingSetup
	}

	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return nil, ErrNoPendingSetup
	}

	var user model.User

	err = s.db.WithContext(ctx).First(&user, uint(id)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}

		return nil, fmt.Errorf("failed to look up account, %w", err)
	}

	if !user.Validated {
		return nil, ErrNotValidated
	}

	if user.PasswordHash != nil {
		return nil, ErrNoPendingSetup
	}

	if password == "" || password != confirm {
		return nil, ErrPasswordMismatch
	}

	if err := validators.PasswordValidator(password); err != nil {
		return nil, fmt.Errorf("%w, %s", ErrWeakPassword, err)
	}

	hash, err := s.argon.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password, %w", err)
	}

	err = s.db.WithContext(ctx).
		Model(model.User{}).
		Where("id = ?", user.ID).
		Update("password_hash", hash).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to store password, %w", err)
	}

	user.PasswordHash = &hash
	return &user, nil
}

// Login authenticates by username or email. The password comparison only
// runs once the account is known to be validated and credentialed.
func (s *Service) Login(ctx context.Context, identifier, password string) (*model.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, fmt.Errorf("%w, all fields are required", ErrInvalidInput)
	}

	var user model.User

	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}

		return nil, fmt.Errorf("failed to look up account, %w", err)
	}

	if !user.Validated {
		return nil, ErrNotValidated
	}

	if user.PasswordHash == nil {
		return nil, ErrNoPassword
	}

	ok, err := s.argon.Verify(password, *user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return nil, ErrBadPassword
	}

	return &user, nil
}

// Delete removes the account. Content rows cascade at the database layer,
// their media files are removed best-effort afterwards.
func (s *Service) Delete(ctx context.Context, userID uint) error {
	var keys []string

	err := s.db.WithContext(ctx).
		Model(model.Content{}).
		Where("user_id = ? AND media_filename != ''", userID).
		Pluck("media_filename", &keys).
		Error
	if err != nil {
		return fmt.Errorf("failed to collect media keys, %w", err)
	}

	res := s.db.WithContext(ctx).Delete(&model.User{}, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete account, %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}

	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			zap.L().Warn("Failed to delete media file", zap.String("key", key), zap.Error(err))
		}
	}

	return nil
}
