package memory

import (
	"context"

	"trifoody/internal/domain/entity"
	"trifoody/pkg/errors"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(ctx context.Context, user *entity.UserProfile) error {
	if err := r.store.takeFault(OpCreateUser); err != nil {
		return errors.Unavailable("Failed to create user profile", err)
	}

	fields := map[string]interface{}{}
	setIfNotEmpty(fields, entity.UserFieldUserID, user.UserID)
	setIfNotEmpty(fields, entity.UserFieldEmail, user.Email)
	setIfNotEmpty(fields, entity.UserFieldUsername, user.Username)
	setIfNotEmpty(fields, entity.UserFieldUserType, string(user.UserType))
	setIfNotEmpty(fields, entity.UserFieldAddress, user.Address)
	setIfNotEmpty(fields, entity.UserFieldIntroduction, user.Introduction)
	setIfNotEmpty(fields, entity.UserFieldProfileImageURL, user.ProfileImageURL)

	r.store.mu.Lock()
	r.store.users[user.UserID] = fields
	r.store.mu.Unlock()

	r.store.changed(colUsers)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	if err := r.store.takeFault(OpGetUser); err != nil {
		return nil, errors.Unavailable("Failed to get user profile", err)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	fields, ok := r.store.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}

	user := &entity.UserProfile{
		UserID:          stringField(fields, entity.UserFieldUserID),
		Email:           stringField(fields, entity.UserFieldEmail),
		Username:        stringField(fields, entity.UserFieldUsername),
		UserType:        entity.Role(stringField(fields, entity.UserFieldUserType)),
		Address:         stringField(fields, entity.UserFieldAddress),
		Introduction:    stringField(fields, entity.UserFieldIntroduction),
		ProfileImageURL: stringField(fields, entity.UserFieldProfileImageURL),
	}
	if user.UserID == "" {
		user.UserID = id
	}
	return user, nil
}

func (r *userRepository) Merge(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := r.store.takeFault(OpMergeUser); err != nil {
		return errors.Unavailable("Failed to update user profile", err)
	}

	r.store.mu.Lock()
	doc, ok := r.store.users[id]
	if !ok {
		doc = map[string]interface{}{}
		r.store.users[id] = doc
	}
	for k, v := range fields {
		doc[k] = v
	}
	r.store.mu.Unlock()

	r.store.changed(colUsers)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	delete(r.store.users, id)
	r.store.mu.Unlock()

	r.store.changed(colUsers)
	return nil
}

func setIfNotEmpty(fields map[string]interface{}, key, value string) {
	if value != "" {
		fields[key] = value
	}
}

// stringField mirrors a typed decode: a missing or non-string field reads as empty.
func stringField(fields map[string]interface{}, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}
