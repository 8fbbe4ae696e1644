package service

import (
	"context"
	"testing"

	"lumina/internal/model"
	"lumina/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImageService(env *testEnv, notifier NotificationService) ImageService {
	return NewImageService(env.imageRepo, env.likeRepo, env.categoryRepo, nil, notifier)
}

func TestGetImageCountsView(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "uploader")
	image := env.createImage(t, uploader.ID)

	svc := newImageService(env, nil)

	got, err := svc.GetImage(image.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)

	got, err = svc.GetImage(image.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)
}

func TestRegisterDownload(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "uploader")
	image := env.createImage(t, uploader.ID)

	svc := newImageService(env, nil)

	url, err := svc.RegisterDownload(image.ID)
	require.NoError(t, err)
	assert.Equal(t, image.URL, url)

	stored, err := env.imageRepo.FindByID(image.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Downloads)

	_, err = svc.RegisterDownload("4dd3c2a0-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateImageOwnership(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "uploader")
	stranger := env.createUser(t, "stranger")
	image := env.createImage(t, uploader.ID)

	svc := newImageService(env, nil)

	title := "New title"
	_, err := svc.UpdateImage(stranger.ID, false, image.ID, UpdateImageInput{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)

	// Admins may edit anyone's image
	updated, err := svc.UpdateImage(stranger.ID, true, image.ID, UpdateImageInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
}

func TestUpdateImageCategoryMoveMaintainsCounts(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "uploader")
	nature := env.createCategory(t, "Nature", "nature")
	urban := env.createCategory(t, "Urban", "urban")

	svc := newImageService(env, nil)

	image := env.createImage(t, uploader.ID)
	image.CategoryID = &nature.ID
	require.NoError(t, env.imageRepo.Update(image))
	require.NoError(t, env.categoryRepo.SetImageCount(nature.ID, 1))

	// Move to urban
	updated, err := svc.UpdateImage(uploader.ID, false, image.ID, UpdateImageInput{CategoryID: &urban.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.CategoryID)
	assert.Equal(t, urban.ID, *updated.CategoryID)

	natureStored, err := env.categoryRepo.FindByID(nature.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), natureStored.ImageCount)

	urbanStored, err := env.categoryRepo.FindByID(urban.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), urbanStored.ImageCount)

	// Moving to the same category changes nothing
	_, err = svc.UpdateImage(uploader.ID, false, image.ID, UpdateImageInput{CategoryID: &urban.ID})
	require.NoError(t, err)
	urbanStored, err = env.categoryRepo.FindByID(urban.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), urbanStored.ImageCount)

	// Clearing the category decrements
	empty := ""
	_, err = svc.UpdateImage(uploader.ID, false, image.ID, UpdateImageInput{CategoryID: &empty})
	require.NoError(t, err)
	urbanStored, err = env.categoryRepo.FindByID(urban.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), urbanStored.ImageCount)

	// Moving to a missing category fails
	missing := "4dd3c2a0-0000-0000-0000-000000000000"
	_, err = svc.UpdateImage(uploader.ID, false, image.ID, UpdateImageInput{CategoryID: &missing})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteImageCleansUp(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "uploader")
	liker := env.createUser(t, "liker")
	nature := env.createCategory(t, "Nature", "nature")

	likeSvc := newLikeService(env, nil)
	svc := newImageService(env, nil)

	image := env.createImage(t, uploader.ID)
	image.CategoryID = &nature.ID
	require.NoError(t, env.imageRepo.Update(image))
	require.NoError(t, env.categoryRepo.SetImageCount(nature.ID, 1))

	_, err := likeSvc.ToggleLike(liker.ID, image.ID)
	require.NoError(t, err)

	// Stranger cannot delete
	stranger := env.createUser(t, "stranger")
	assert.ErrorIs(t, svc.DeleteImage(context.Background(), stranger.ID, false, image.ID), ErrForbidden)

	require.NoError(t, svc.DeleteImage(context.Background(), uploader.ID, false, image.ID))

	_, err = svc.GetImage(image.ID, false)
	assert.ErrorIs(t, err, ErrNotFound)

	likes, err := env.likeRepo.CountByImageUncached(image.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), likes)

	stored, err := env.categoryRepo.FindByID(nature.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.ImageCount)
}

func TestSetFeaturedNotifiesUploader(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "uploader")
	image := env.createImage(t, uploader.ID)

	notifSvc := newNotificationService(env)
	svc := newImageService(env, notifSvc)

	updated, err := svc.SetFeatured(image.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsFeatured)

	notifications, total, err := env.notifRepo.FindByUser(uploader.ID, repository.NotificationListParams{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, model.NotificationTypeImageFeatured, notifications[0].Type)

	// Featuring an already-featured image is a no-op
	_, err = svc.SetFeatured(image.ID, true)
	require.NoError(t, err)
	_, total, err = env.notifRepo.FindByUser(uploader.ID, repository.NotificationListParams{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// Unfeaturing does not notify
	updated, err = svc.SetFeatured(image.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsFeatured)
	_, total, err = env.notifRepo.FindByUser(uploader.ID, repository.NotificationListParams{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestPopularImagesRankedByLikes(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "uploader")
	svc := newImageService(env, nil)

	quiet := env.createImage(t, uploader.ID)
	hit := env.createImage(t, uploader.ID)
	hidden := env.createImage(t, uploader.ID)

	require.NoError(t, env.imageRepo.SetLikesCount(hit.ID, 9))
	require.NoError(t, env.imageRepo.SetLikesCount(quiet.ID, 1))
	require.NoError(t, env.imageRepo.SetLikesCount(hidden.ID, 50))

	hidden.IsActive = false
	require.NoError(t, env.imageRepo.Update(hidden))

	popular, err := svc.PopularImages(10)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, hit.ID, popular[0].ID)
	assert.Equal(t, quiet.ID, popular[1].ID)
}
