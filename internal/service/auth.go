package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AyanMustafa/Anevo/internal/logger"
	"github.com/AyanMustafa/Anevo/internal/model"
)

const (
	minPasswordLength = 6
	// bcrypt truncates input beyond 72 bytes, so longer passwords are rejected.
	maxPasswordLength = 72
)

type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	verifier     model.IdentityVerifier
	tokenManager model.TokenManager
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	verifier model.IdentityVerifier,
	tokenManager model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		verifier:     verifier,
		tokenManager: tokenManager,
		logger:       logger,
	}
}

func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.Session, error) {
	a.logger.Debug("Auth service: starting user registration",
		"email", params.Email,
		"username", params.Username)

	if len(params.Password) < minPasswordLength {
		return model.Session{}, model.NewErrPasswordTooShort()
	}
	if len(params.Password) > maxPasswordLength {
		return model.Session{}, model.NewErrPasswordTooLong()
	}

	existingUser, err := a.userStore.GetByEmail(ctx, params.Email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", params.Email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if existingUser.ID != 0 {
		a.logger.Info("Auth service: email already registered",
			"email", params.Email)
		return model.Session{}, model.NewErrEmailTaken()
	}

	existingUser, err = a.userStore.GetByUsername(ctx, params.Username)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by username",
			"username", params.Username,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to get user by username: %w", err)
	}
	if existingUser.ID != 0 {
		a.logger.Info("Auth service: username already taken",
			"username", params.Username)
		return model.Session{}, model.NewErrUsernameTaken()
	}

	name := params.Name
	if name == "" {
		name = params.Username
	}

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"email", params.Email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.userStore.Create(ctx, model.User{
		Email:        params.Email,
		Username:     params.Username,
		Name:         name,
		PasswordHash: &hash,
		Provider:     model.ProviderLocal,
	})
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", params.Email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered successfully",
		"user_id", user.ID,
		"username", user.Username)

	return a.issueSession(user)
}

func (a *Auth) Login(ctx context.Context, identifier, password string) (model.Session, error) {
	a.logger.Debug("Auth service: starting user login",
		"identifier", identifier)

	user, err := a.userStore.GetByIdentifier(ctx, identifier)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, model.NewErrInvalidCredentials()
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get user by identifier: %w", err)
	}

	if user.Provider == model.ProviderGoogle || user.PasswordHash == nil {
		a.logger.Info("Auth service: password login attempted on google account",
			"user_id", user.ID)
		return model.Session{}, model.NewErrGoogleAccount()
	}

	if err := a.hasher.Compare(*user.PasswordHash, password); err != nil {
		a.logger.Info("Auth service: password mismatch",
			"user_id", user.ID)
		return model.Session{}, model.NewErrInvalidCredentials()
	}

	a.logger.Info("Auth service: user logged in successfully",
		"user_id", user.ID)

	return a.issueSession(user)
}

func (a *Auth) LoginWithGoogle(ctx context.Context, idToken string) (model.Session, error) {
	a.logger.Debug("Auth service: starting google login")

	identity, err := a.verifier.Verify(ctx, idToken)
	if err != nil {
		a.logger.Info("Auth service: google token verification failed",
			"error", err.Error())
		return model.Session{}, model.NewErrInvalidGoogleToken()
	}

	name := identity.Name
	if name == "" {
		name = localPart(identity.Email)
	}

	user, err := a.userStore.GetByEmail(ctx, identity.Email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", identity.Email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err == nil {
		if user.Provider != model.ProviderGoogle {
			a.logger.Info("Auth service: google login attempted on local account",
				"user_id", user.ID)
			return model.Session{}, model.NewErrLocalAccount()
		}

		updated, err := a.userStore.UpdateGoogleIdentity(ctx, user.ID, identity.Subject, name)
		if err != nil {
			a.logger.Error("Auth service: failed to update google identity",
				"user_id", user.ID,
				"error", err.Error())
			return model.Session{}, fmt.Errorf("failed to update google identity: %w", err)
		}

		a.logger.Info("Auth service: google user logged in successfully",
			"user_id", updated.ID)

		return a.issueSession(updated)
	}

	username, err := a.uniqueUsername(ctx, localPart(identity.Email))
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to pick username: %w", err)
	}

	user, err = a.userStore.Create(ctx, model.User{
		Email:    identity.Email,
		Username: username,
		Name:     name,
		GoogleID: &identity.Subject,
		Provider: model.ProviderGoogle,
	})
	if err != nil {
		a.logger.Error("Auth service: failed to create google user",
			"email", identity.Email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: google user provisioned successfully",
		"user_id", user.ID,
		"username", user.Username)

	return a.issueSession(user)
}

func (a *Auth) Me(ctx context.Context, userID int64) (model.UserInfo, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return model.UserInfo{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return model.UserInfo{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Name:     user.Name,
	}, nil
}

func (a *Auth) DeleteAccount(ctx context.Context, userID int64) error {
	a.logger.Debug("Auth service: deleting account",
		"user_id", userID)

	if err := a.userStore.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	a.logger.Info("Auth service: account deleted",
		"user_id", userID)

	return nil
}

func (a *Auth) issueSession(user model.User) (model.Session, error) {
	token, err := a.tokenManager.GenerateAccessToken(user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to generate access token",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return model.Session{
		Token: token,
		User: model.UserInfo{
			ID:       user.ID,
			Email:    user.Email,
			Username: user.Username,
			Name:     user.Name,
		},
	}, nil
}

// uniqueUsername derives a username from the email local part, appending
// 1, 2, ... until no existing user holds it.
func (a *Auth) uniqueUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 1; ; i++ {
		_, err := a.userStore.GetByUsername(ctx, candidate)
		if errors.Is(err, model.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to get user by username: %w", err)
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

func localPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
