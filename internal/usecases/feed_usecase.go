package usecases

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/abelzeko/aquahealth/internal/entities"
	"github.com/abelzeko/aquahealth/internal/integration"
	"github.com/abelzeko/aquahealth/internal/metrics"
	"github.com/abelzeko/aquahealth/internal/repository"
	"go.uber.org/zap"
)

var (
	// ErrUnknownTag is returned for posts whose category is not in the tag catalogue
	ErrUnknownTag = errors.New("unknown tag")
	// ErrInvalidPost is returned for posts with impossible coordinates
	ErrInvalidPost = errors.New("invalid post")
)

// PostSubmission is a report as entered by a community member
type PostSubmission struct {
	User     string
	Location string
	Lat      float64
	Lon      float64
	Message  string
	Tag      string
	Image    io.Reader // optional
}

// FeedItem is a post prepared for display
type FeedItem struct {
	entities.AnomalyPost
	ShowImage bool `json:"show_image"`
}

// FeedUseCase handles the community anomaly feed
type FeedUseCase struct {
	repo   repository.PostRepository
	images *repository.ImageStore
	now    func() time.Time
}

// NewFeedUseCase creates a new feed use case
func NewFeedUseCase(repo repository.PostRepository, images *repository.ImageStore) *FeedUseCase {
	return &FeedUseCase{
		repo:   repo,
		images: images,
		now:    time.Now,
	}
}

// Tags returns the fixed catalogue of feed categories
func (uc *FeedUseCase) Tags() []string {
	return entities.Tags
}

// SubmitPost fills in the defaults, stores the optional image and puts the post at the head of the feed
func (uc *FeedUseCase) SubmitPost(sub PostSubmission) (entities.AnomalyPost, error) {
	if !entities.IsKnownTag(sub.Tag) {
		return entities.AnomalyPost{}, fmt.Errorf("%w: %q", ErrUnknownTag, sub.Tag)
	}
	if math.IsNaN(sub.Lat) || math.IsNaN(sub.Lon) || math.Abs(sub.Lat) > 90 || math.Abs(sub.Lon) > 180 {
		return entities.AnomalyPost{}, fmt.Errorf("%w: coordinates (%g, %g) out of range", ErrInvalidPost, sub.Lat, sub.Lon)
	}

	user := integration.PlainText(sub.User)
	location := integration.PlainText(sub.Location)
	now := uc.now()

	post := entities.AnomalyPost{
		User:      user,
		Timestamp: now.Format(entities.TimestampLayout),
		Location:  location,
		Lat:       sub.Lat,
		Lon:       sub.Lon,
		Message:   integration.PlainText(sub.Message),
		Tag:       sub.Tag,
	}
	if post.User == "" {
		post.User = entities.AnonymousUser
	}
	if post.Location == "" {
		post.Location = entities.UnknownLocation
	}

	if sub.Image != nil {
		// The image name uses the user as typed, before the Anonymous default.
		path, err := uc.images.Put(repository.ImageName(user, now), sub.Image)
		if err != nil {
			return entities.AnomalyPost{}, fmt.Errorf("failed to save post image: %w", err)
		}
		post.ImagePath = path
	}

	if err := uc.repo.Append(post); err != nil {
		return entities.AnomalyPost{}, fmt.Errorf("failed to append post: %w", err)
	}

	metrics.PostsTotal.WithLabelValues(strconv.FormatBool(post.HasImage())).Inc()
	return post, nil
}

// ListPosts returns the feed newest first, marking which images can still be shown
func (uc *FeedUseCase) ListPosts() ([]FeedItem, error) {
	posts, err := uc.repo.Load()
	if err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(posts))
	for _, p := range posts {
		item := FeedItem{AnomalyPost: p}
		if p.HasImage() {
			item.ShowImage = uc.images.Exists(p.ImagePath)
			if !item.ShowImage {
				metrics.MissingImagesTotal.Inc()
				zap.S().Warnf("Image %s for post by %s at %s is missing, showing post without it", p.ImagePath, p.User, p.Timestamp)
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// OpenImage returns a stored image by file name
func (uc *FeedUseCase) OpenImage(name string) (io.ReadCloser, error) {
	return uc.images.Open(uc.images.Resolve(name))
}
