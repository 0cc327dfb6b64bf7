package usecase

import (
	"context"

	"trifoody/internal/domain/entity"
	"trifoody/internal/domain/repository"
	"trifoody/pkg/errors"
	"trifoody/pkg/logger"
)

type AuthUseCase struct {
	userRepo  repository.UserRepository
	auth      AuthProvider
	navigator Navigator
}

func NewAuthUseCase(userRepo repository.UserRepository, auth AuthProvider) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		auth:     auth,
	}
}

type SignUpInput struct {
	Email    string
	Password string
	Username string
	UserType string
}

// AuthResult is a signed-in session plus where the client should go next.
type AuthResult struct {
	Session *entity.AuthSession `json:"session"`
	Profile *entity.UserProfile `json:"profile"`
	State   entity.SessionState `json:"state"`
	Screen  entity.Screen       `json:"screen"`
}

// SignUp creates the identity and its profile, then signs in. userType is fixed from here on.
// If the profile cannot be written the identity is deleted again.
func (uc *AuthUseCase) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	role, err := entity.ParseRole(input.UserType)
	if err != nil {
		return nil, errors.BadRequest("User type must be individual, business or charity", err)
	}

	uid, err := uc.auth.CreateUser(ctx, input.Email, input.Password, input.Username)
	if err != nil {
		return nil, err
	}

	profile := &entity.UserProfile{
		UserID:   uid,
		Email:    input.Email,
		Username: input.Username,
		UserType: role,
	}
	if err := uc.userRepo.Create(ctx, profile); err != nil {
		logger.LogMutationError("create_profile", uid, err)
		if delErr := uc.auth.DeleteUser(ctx, uid); delErr != nil {
			logger.Error("Failed to delete orphaned identity %s: %v", uid, delErr)
		}
		return nil, err
	}

	session, err := uc.auth.SignInWithEmailPassword(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	state, err := uc.navigator.Run(entity.StateUnauthenticated,
		entity.SessionEvent{Type: entity.EventSignUpRequested},
		entity.SessionEvent{Type: entity.EventAuthenticated},
		entity.SessionEvent{Type: entity.EventRoleResolved, Role: role},
	)
	if err != nil {
		return nil, err
	}

	logger.Info("User signed up: userID=%s, userType=%s", uid, role)
	return &AuthResult{Session: session, Profile: profile, State: state, Screen: state.Screen()}, nil
}

// SignIn authenticates and routes by the userType read back from the store.
func (uc *AuthUseCase) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	session, err := uc.auth.SignInWithEmailPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profile, role, err := uc.ResolveRole(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	state, err := uc.navigator.Run(entity.StateUnauthenticated,
		entity.SessionEvent{Type: entity.EventSignInRequested},
		entity.SessionEvent{Type: entity.EventAuthenticated},
		entity.SessionEvent{Type: entity.EventRoleResolved, Role: role},
	)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Session: session, Profile: profile, State: state, Screen: state.Screen()}, nil
}

func (uc *AuthUseCase) SignOut(ctx context.Context, userID string) (entity.SessionState, error) {
	if err := uc.auth.RevokeSession(ctx, userID); err != nil {
		logger.LogMutationError("sign_out", userID, err)
		return "", errors.Unavailable("Failed to sign out", err)
	}
	return entity.StateUnauthenticated, nil
}

func (uc *AuthUseCase) ResetPassword(ctx context.Context, email string) error {
	return uc.auth.SendPasswordReset(ctx, email)
}

// ResolveRole reads the user's profile. A missing or unreadable profile is an error.
func (uc *AuthUseCase) ResolveRole(ctx context.Context, userID string) (*entity.UserProfile, entity.Role, error) {
	profile, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, "", errors.NotFound("User profile", err)
		}
		return nil, "", errors.Unavailable("Failed to load user profile", err)
	}
	return profile, profile.Role(), nil
}
