package usecase

import (
	"context"

	"trifoody/internal/domain/entity"
)

type AuthProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
	SignInWithEmailPassword(ctx context.Context, email, password string) (*entity.AuthSession, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	RevokeSession(ctx context.Context, uid string) error
	SendPasswordReset(ctx context.Context, email string) error
}

// LaunchStore remembers whether a device has opened the app before.
type LaunchStore interface {
	MarkLaunched(deviceID string) (bool, error)
}
