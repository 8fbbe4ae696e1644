package service

import (
	"errors"
	"testing"

	"lumina/internal/model"
	"lumina/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLikeService(env *testEnv, notifier Notifier) LikeService {
	return NewLikeService(env.likeRepo, env.imageRepo, notifier)
}

func TestToggleLike(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "uploader")
	liker := env.createUser(t, "liker")
	image := env.createImage(t, uploader.ID)

	svc := newLikeService(env, nil)

	// First toggle likes
	result, err := svc.ToggleLike(liker.ID, image.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, int64(1), result.LikesCount)

	stored, err := env.imageRepo.FindByID(image.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.LikesCount)

	// Second toggle unlikes
	result, err = svc.ToggleLike(liker.ID, image.ID)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, int64(0), result.LikesCount)

	stored, err = env.imageRepo.FindByID(image.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.LikesCount)

	// Relation row is gone
	liked, err := svc.CheckStatus(liker.ID, image.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestToggleLikeTwiceReturnsToBaseline(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "uploader")
	image := env.createImage(t, uploader.ID)

	svc := newLikeService(env, nil)

	users := []*model.User{
		env.createUser(t, "alice"),
		env.createUser(t, "bob"),
		env.createUser(t, "carol"),
	}

	for _, u := range users {
		_, err := svc.ToggleLike(u.ID, image.ID)
		require.NoError(t, err)
	}
	for _, u := range users {
		_, err := svc.ToggleLike(u.ID, image.ID)
		require.NoError(t, err)
	}

	stored, err := env.imageRepo.FindByID(image.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.LikesCount)

	count, err := env.likeRepo.CountByImageUncached(image.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestToggleLikeUnknownImage(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")

	svc := newLikeService(env, nil)

	_, err := svc.ToggleLike(user.ID, "4dd3c2a0-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleLikeCounterNeverNegative(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "uploader")
	liker := env.createUser(t, "liker")
	image := env.createImage(t, uploader.ID)

	svc := newLikeService(env, nil)

	_, err := svc.ToggleLike(liker.ID, image.ID)
	require.NoError(t, err)

	// Counter drifted to zero while the relation row survived
	require.NoError(t, env.imageRepo.SetLikesCount(image.ID, 0))

	result, err := svc.ToggleLike(liker.ID, image.ID)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, int64(0), result.LikesCount)

	stored, err := env.imageRepo.FindByID(image.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.LikesCount)
}

func TestToggleLikeNotifiesOwner(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "uploader")
	liker := env.createUser(t, "liker")
	image := env.createImage(t, uploader.ID)

	notifier := &recordingNotifier{}
	svc := newLikeService(env, notifier)

	_, err := svc.ToggleLike(liker.ID, image.ID)
	require.NoError(t, err)
	require.Len(t, notifier.liked, 1)
	assert.Equal(t, uploader.ID, notifier.liked[0].ownerID)
	assert.Equal(t, liker.ID, notifier.liked[0].likerID)

	// Unliking does not notify
	_, err = svc.ToggleLike(liker.ID, image.ID)
	require.NoError(t, err)
	assert.Len(t, notifier.liked, 1)
}

func TestToggleLikeSelfLikeSkipsNotification(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "uploader")
	image := env.createImage(t, uploader.ID)

	notifier := &recordingNotifier{}
	svc := newLikeService(env, notifier)

	result, err := svc.ToggleLike(uploader.ID, image.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Empty(t, notifier.liked)
}

func TestToggleLikeNotifierFailureDoesNotPropagate(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "uploader")
	liker := env.createUser(t, "liker")
	image := env.createImage(t, uploader.ID)

	notifier := &recordingNotifier{err: errors.New("broker down")}
	svc := newLikeService(env, notifier)

	result, err := svc.ToggleLike(liker.ID, image.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, int64(1), result.LikesCount)
}

// Losing the insert race to a concurrent like must report success without a
// second counter increment.
func TestToggleLikeLostInsertRace(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "uploader")
	liker := env.createUser(t, "liker")
	image := env.createImage(t, uploader.ID)

	svc := NewLikeService(
		&racingLikeRepo{LikeRepository: env.likeRepo, env: env, liker: liker.ID, image: image.ID},
		env.imageRepo,
		nil,
	)

	result, err := svc.ToggleLike(liker.ID, image.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, int64(1), result.LikesCount)

	stored, err := env.imageRepo.FindByID(image.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.LikesCount)
}

func TestGetMyLikes(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "uploader")
	liker := env.createUser(t, "liker")
	first := env.createImage(t, uploader.ID)
	second := env.createImage(t, uploader.ID)

	svc := newLikeService(env, nil)

	_, err := svc.ToggleLike(liker.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.ToggleLike(liker.ID, second.ID)
	require.NoError(t, err)

	likes, total, err := svc.GetMyLikes(liker.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, likes, 2)
}

type likedCall struct {
	ownerID string
	likerID string
}

type recordingNotifier struct {
	liked []likedCall
	err   error
}

func (r *recordingNotifier) NotifyImageLiked(ownerID, likerID, likerName, imageID, imageTitle string) error {
	if r.err != nil {
		return r.err
	}
	r.liked = append(r.liked, likedCall{ownerID: ownerID, likerID: likerID})
	return nil
}

// racingLikeRepo simulates a duplicate insert appearing between the existence
// check and the create. The first Create inserts the winning row out of band
// and reports the unique violation the loser would see.
type racingLikeRepo struct {
	repository.LikeRepository
	env   *testEnv
	liker string
	image string
	raced bool
}

func (r *racingLikeRepo) Create(like *model.Like) error {
	if !r.raced {
		r.raced = true
		winner := &model.Like{UserID: r.liker, ImageID: r.image}
		if err := r.env.likeRepo.Create(winner); err != nil {
			return err
		}
		if _, err := r.env.imageRepo.IncrementLikesCount(r.image); err != nil {
			return err
		}
		return gorm.ErrDuplicatedKey
	}
	return r.env.likeRepo.Create(like)
}

func TestRemoveAllByUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	uploader := env.createUser(t, "uploader")
	svc := newLikeService(env, nil)

	first := env.createImage(t, uploader.ID)
	second := env.createImage(t, uploader.ID)

	_, err := svc.ToggleLike(alice.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.ToggleLike(bob.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.ToggleLike(alice.ID, second.ID)
	require.NoError(t, err)

	// Drift the second image's counter to zero; removal must clamp, not
	// go negative.
	require.NoError(t, env.imageRepo.SetLikesCount(second.ID, 0))

	require.NoError(t, svc.RemoveAllByUser(alice.ID))

	likes, _, err := env.likeRepo.FindByUser(alice.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, likes)

	// Bob's like and its counter contribution survive
	stored, err := env.imageRepo.FindByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.LikesCount)

	stored, err = env.imageRepo.FindByID(second.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.LikesCount)

	liked, err := svc.CheckStatus(bob.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, liked)
}
