package usecase

import (
	"context"

	"github.com/google/uuid"

	"trifoody/internal/domain/entity"
	"trifoody/internal/domain/repository"
	"trifoody/pkg/errors"
	"trifoody/pkg/logger"
)

type NavigationUseCase struct {
	userRepo    repository.UserRepository
	launchStore LaunchStore
	navigator   Navigator
}

func NewNavigationUseCase(userRepo repository.UserRepository, launchStore LaunchStore) *NavigationUseCase {
	return &NavigationUseCase{
		userRepo:    userRepo,
		launchStore: launchStore,
	}
}

type EntryResult struct {
	FirstLaunch bool                `json:"first_launch"`
	State       entity.SessionState `json:"state"`
	Screen      entity.Screen       `json:"screen"`
	Role        entity.Role         `json:"role,omitempty"`
}

// Entry decides the first screen for a device. The first launch always shows the start screen.
// After that a signed-in user goes straight home; the role is read from the store every time.
func (uc *NavigationUseCase) Entry(ctx context.Context, deviceID, userID string) (*EntryResult, error) {
	if deviceID == "" {
		return nil, errors.BadRequest("Device ID is required", nil)
	}
	// Device ids are vendor UUIDs; anything else would grow the launch store unchecked.
	if len(deviceID) > 36 {
		return nil, errors.BadRequest("Device ID must be a UUID", nil)
	}
	if _, err := uuid.Parse(deviceID); err != nil {
		return nil, errors.BadRequest("Device ID must be a UUID", err)
	}

	first, err := uc.launchStore.MarkLaunched(deviceID)
	if err != nil {
		return nil, errors.Internal("Failed to record launch", err)
	}

	state, err := uc.navigator.Next(entity.StateFirstLaunch, entity.SessionEvent{Type: entity.EventLaunched, FirstLaunch: first})
	if err != nil {
		return nil, err
	}
	result := &EntryResult{FirstLaunch: first}

	if state == entity.StateRoleResolving {
		state = uc.resolve(ctx, state, userID, result)
	}

	result.State = state
	result.Screen = state.Screen()
	return result, nil
}

func (uc *NavigationUseCase) resolve(ctx context.Context, state entity.SessionState, userID string, result *EntryResult) entity.SessionState {
	failed := entity.SessionEvent{Type: entity.EventFailed}

	if userID == "" {
		next, _ := uc.navigator.Next(state, failed)
		return next
	}

	profile, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, errors.CodeNotFound) {
			logger.Warn("Role lookup failed on entry: userID=%s, error=%v", userID, err)
		}
		next, _ := uc.navigator.Next(state, failed)
		return next
	}

	result.Role = profile.Role()
	next, err := uc.navigator.Next(state, entity.SessionEvent{Type: entity.EventRoleResolved, Role: result.Role})
	if err != nil {
		next, _ = uc.navigator.Next(state, failed)
	}
	return next
}

// Home returns the role configuration of the signed-in user.
func (uc *NavigationUseCase) Home(ctx context.Context, userID string) (*entity.RoleConfig, error) {
	profile, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	cfg, _ := entity.RoleConfigFor(profile.Role())
	return &cfg, nil
}
