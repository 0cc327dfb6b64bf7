package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"trifoody/internal/domain/entity"
	"trifoody/internal/domain/repository"
	"trifoody/internal/domain/service"
	"trifoody/internal/infrastructure/imaging"
	"trifoody/pkg/errors"
	"trifoody/pkg/logger"
)

const MaxProfileImageBytes = 2 * 1024 * 1024

type ProfileUseCase struct {
	userRepo     repository.UserRepository
	objectStore  service.ObjectStore
	imageQuality int
}

func NewProfileUseCase(userRepo repository.UserRepository, objectStore service.ObjectStore, imageQuality int) *ProfileUseCase {
	return &ProfileUseCase{
		userRepo:     userRepo,
		objectStore:  objectStore,
		imageQuality: imageQuality,
	}
}

// UpdateProfileInput holds the fields to change. Nil fields are left as stored.
type UpdateProfileInput struct {
	Username     *string `json:"username"`
	Address      *string `json:"address"`
	Introduction *string `json:"introduction"`
}

func profileImageKey(userID string) string {
	return fmt.Sprintf("profileImages/%s.jpg", userID)
}

func (uc *ProfileUseCase) GetProfile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// UpdateProfile merge-writes the provided fields. Fields the caller's role does not edit are rejected.
func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.UserProfile, error) {
	profile, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	cfg, _ := entity.RoleConfigFor(profile.Role())

	fields := map[string]interface{}{}
	for field, value := range map[entity.ProfileField]*string{
		entity.ProfileFieldUsername:     input.Username,
		entity.ProfileFieldAddress:      input.Address,
		entity.ProfileFieldIntroduction: input.Introduction,
	} {
		if value == nil {
			continue
		}
		if !cfg.HasProfileField(field) {
			return nil, errors.BadRequest(fmt.Sprintf("Field %s cannot be edited for %s accounts", field, cfg.Role), nil)
		}
		fields[string(field)] = *value
	}

	if len(fields) == 0 {
		return profile, nil
	}

	if err := uc.userRepo.Merge(ctx, userID, fields); err != nil {
		logger.LogMutationError("update_profile", userID, err)
		return nil, err
	}
	return uc.userRepo.GetByID(ctx, userID)
}

// UploadProfileImage compresses the image, replaces the stored one and records its public URL.
func (uc *ProfileUseCase) UploadProfileImage(ctx context.Context, userID string, image io.Reader) (string, error) {
	compressed, err := imaging.CompressJPEG(image, uc.imageQuality)
	if err != nil {
		return "", err
	}

	key := profileImageKey(userID)
	if err := uc.objectStore.Upload(ctx, key, bytes.NewReader(compressed), imaging.ContentTypeJPEG); err != nil {
		logger.LogMutationError("upload_profile_image", userID, err)
		return "", err
	}

	url, err := uc.objectStore.PublicURL(ctx, key)
	if err != nil {
		return "", err
	}

	if err := uc.userRepo.Merge(ctx, userID, map[string]interface{}{entity.UserFieldProfileImageURL: url}); err != nil {
		logger.LogMutationError("set_profile_image_url", userID, err)
		return "", err
	}
	return url, nil
}

func (uc *ProfileUseCase) DownloadProfileImage(ctx context.Context, userID string) ([]byte, error) {
	return uc.objectStore.Download(ctx, profileImageKey(userID), MaxProfileImageBytes)
}
