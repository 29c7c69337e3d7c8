package usecases

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abelzeko/aquahealth/internal/entities"
	"github.com/abelzeko/aquahealth/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFeed(t *testing.T) (*FeedUseCase, *repository.CSVPostRepository) {
	t.Helper()
	dir := t.TempDir()
	repo := repository.NewCSVPostRepository(filepath.Join(dir, "feed.csv"))
	images, err := repository.NewImageStore(filepath.Join(dir, "images"))
	require.NoError(t, err)

	uc := NewFeedUseCase(repo, images)
	uc.now = func() time.Time { return time.Date(2025, time.June, 2, 17, 40, 12, 0, time.Local) }
	return uc, repo
}

func TestSubmitPostDefaults(t *testing.T) {
	uc, repo := newTestFeed(t)

	post, err := uc.SubmitPost(PostSubmission{
		Message: "Water turned <b>rust red</b><script>alert(1)</script> overnight",
		Tag:     "#RedTide",
		Lat:     43.5081,
		Lon:     16.4402,
	})
	require.NoError(t, err)

	assert.Equal(t, entities.AnonymousUser, post.User)
	assert.Equal(t, entities.UnknownLocation, post.Location)
	assert.Equal(t, "2025-06-02 17:40", post.Timestamp)
	assert.Equal(t, "Water turned rust red overnight", post.Message)
	assert.Empty(t, post.ImagePath)

	posts, err := repo.Load()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post, posts[0])
}

func TestSubmitPostWithImage(t *testing.T) {
	uc, _ := newTestFeed(t)

	post, err := uc.SubmitPost(PostSubmission{
		Message: "Foam lines along the beach",
		Tag:     "#FoamSlick",
		Image:   strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "anonymous_2025-06-02_1740.png", filepath.Base(post.ImagePath))

	rc, err := uc.OpenImage("anonymous_2025-06-02_1740.png")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	named, err := uc.SubmitPost(PostSubmission{User: "kai", Tag: "#OilSheen", Image: strings.NewReader("x")})
	require.NoError(t, err)
	assert.Equal(t, "kai_2025-06-02_1740.png", filepath.Base(named.ImagePath))
}

func TestSubmitPostValidation(t *testing.T) {
	uc, repo := newTestFeed(t)

	_, err := uc.SubmitPost(PostSubmission{Tag: "#NotATag"})
	assert.ErrorIs(t, err, ErrUnknownTag)

	_, err = uc.SubmitPost(PostSubmission{Tag: "#RedTide", Lat: 91})
	assert.ErrorIs(t, err, ErrInvalidPost)

	_, err = uc.SubmitPost(PostSubmission{Tag: "#RedTide", Lon: -180.5})
	assert.ErrorIs(t, err, ErrInvalidPost)

	_, err = uc.SubmitPost(PostSubmission{Tag: "#RedTide", Lat: math.NaN(), Lon: 16})
	assert.ErrorIs(t, err, ErrInvalidPost)

	_, err = uc.SubmitPost(PostSubmission{Tag: "#RedTide", Lat: 43, Lon: math.NaN()})
	assert.ErrorIs(t, err, ErrInvalidPost)

	posts, err := repo.Load()
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestListPostsNewestFirstAndMissingImages(t *testing.T) {
	uc, _ := newTestFeed(t)

	withImage, err := uc.SubmitPost(PostSubmission{User: "ana", Tag: "#AlgalBloom", Image: strings.NewReader("img")})
	require.NoError(t, err)
	_, err = uc.SubmitPost(PostSubmission{User: "ben", Tag: "#OilSpill"})
	require.NoError(t, err)

	items, err := uc.ListPosts()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "ben", items[0].User)
	assert.False(t, items[0].ShowImage)
	assert.True(t, items[1].ShowImage)

	require.NoError(t, os.Remove(withImage.ImagePath))

	items, err = uc.ListPosts()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.False(t, items[1].ShowImage, "a deleted image is not shown")
	assert.Equal(t, withImage.ImagePath, items[1].ImagePath)
}

func TestOpenImageMissing(t *testing.T) {
	uc, _ := newTestFeed(t)

	_, err := uc.OpenImage("nobody_2025-01-01_0000.png")
	assert.ErrorIs(t, err, repository.ErrImageNotFound)
}
