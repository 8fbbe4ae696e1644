package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategoryService(env *testEnv) CategoryService {
	return NewCategoryService(env.categoryRepo, env.imageRepo)
}

func TestCreateCategory(t *testing.T) {
	env := newTestEnv(t)
	svc := newCategoryService(env)

	category, err := svc.Create(CreateCategoryInput{Name: "Street Photography"})
	require.NoError(t, err)
	assert.Equal(t, "street-photography", category.Slug)
	assert.True(t, category.IsActive)

	_, err = svc.Create(CreateCategoryInput{Name: "Street Photography"})
	assert.ErrorIs(t, err, ErrDuplicate)

	found, err := svc.GetBySlug("street-photography")
	require.NoError(t, err)
	assert.Equal(t, category.ID, found.ID)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Nature":              "nature",
		"Street Photography":  "street-photography",
		"Black & White":       "black-white",
		"  Spaced   Out  ":    "spaced-out",
		"Already-Slugged 2.0": "already-slugged-2-0",
	}
	for in, want := range cases {
		assert.Equal(t, want, slugify(in), "slugify(%q)", in)
	}
}

func TestUpdateCategoryRenameRefreshesSlug(t *testing.T) {
	env := newTestEnv(t)
	svc := newCategoryService(env)

	category, err := svc.Create(CreateCategoryInput{Name: "Nature"})
	require.NoError(t, err)

	name := "Wild Nature"
	updated, err := svc.Update(category.ID, UpdateCategoryInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "wild-nature", updated.Slug)

	// Renaming onto an existing name is refused
	_, err = svc.Create(CreateCategoryInput{Name: "Urban"})
	require.NoError(t, err)
	taken := "Urban"
	_, err = svc.Update(category.ID, UpdateCategoryInput{Name: &taken})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestDeleteCategoryBlockedWhenNotEmpty(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "uploader")
	svc := newCategoryService(env)

	category, err := svc.Create(CreateCategoryInput{Name: "Nature"})
	require.NoError(t, err)

	image := env.createImage(t, uploader.ID)
	image.CategoryID = &category.ID
	require.NoError(t, env.imageRepo.Update(image))

	assert.ErrorIs(t, svc.Delete(category.ID), ErrCategoryNotEmpty)

	image.CategoryID = nil
	require.NoError(t, env.imageRepo.Update(image))

	require.NoError(t, svc.Delete(category.ID))
	_, err = svc.GetByID(category.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryStats(t *testing.T) {
	env := newTestEnv(t)
	uploader := env.createUser(t, "uploader")
	svc := newCategoryService(env)

	category, err := svc.Create(CreateCategoryInput{Name: "Nature"})
	require.NoError(t, err)

	for _, views := range []int64{10, 5} {
		image := env.createImage(t, uploader.ID)
		image.CategoryID = &category.ID
		image.Views = views
		image.Downloads = 2
		require.NoError(t, env.imageRepo.Update(image))
	}
	// An image outside the category must not count
	env.createImage(t, uploader.ID)

	stats, err := svc.Stats(category.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.ImageCount)
	assert.Equal(t, int64(15), stats.Views)
	assert.Equal(t, int64(4), stats.Downloads)
	assert.Equal(t, "Nature", stats.Name)

	_, err = svc.Stats("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}
