package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"trifoody/internal/domain/entity"
	"trifoody/internal/domain/repository"
	"trifoody/pkg/errors"
	"trifoody/pkg/logger"
)

const usersCollection = "users"

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.UserProfile) error {
	_, err := r.client.Collection(usersCollection).Doc(user.UserID).Set(ctx, user)
	if err != nil {
		return errors.Unavailable("Failed to create user profile", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	doc, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Unavailable("Failed to get user profile", err)
	}

	var user entity.UserProfile
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user profile", err)
	}
	if user.UserID == "" {
		user.UserID = doc.Ref.ID
	}

	return &user, nil
}

func (r *firestoreUserRepository) Merge(ctx context.Context, id string, fields map[string]interface{}) error {
	logger.Debug("Merging user %s fields: %+v", id, fields)

	_, err := r.client.Collection(usersCollection).Doc(id).Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		return errors.Unavailable("Failed to update user profile", err)
	}

	return nil
}

func (r *firestoreUserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(usersCollection).Doc(id).Delete(ctx)
	if err != nil {
		return errors.Unavailable("Failed to delete user profile", err)
	}
	return nil
}
