package repository

import (
	"fmt"
	"sync"

	"github.com/abelzeko/aquahealth/internal/entities"
	"go.uber.org/zap"
)

// PostRepository defines persistence for the community anomaly feed
type PostRepository interface {
	// Append puts post at the head of the feed
	Append(post entities.AnomalyPost) error
	// Load returns the feed, newest first
	Load() ([]entities.AnomalyPost, error)
}

// CSVPostRepository keeps the feed in a single CSV file that is rewritten on every append.
// Appends are serialized within the process only; two processes appending at
// the same time can still lose one of the posts.
type CSVPostRepository struct {
	path string
	mu   sync.Mutex
}

// NewCSVPostRepository creates a feed repository backed by the CSV file at path
func NewCSVPostRepository(path string) *CSVPostRepository {
	return &CSVPostRepository{path: path}
}

// Path returns the location of the feed file
func (r *CSVPostRepository) Path() string {
	return r.path
}

// Load reads the whole feed into memory
func (r *CSVPostRepository) Load() ([]entities.AnomalyPost, error) {
	posts := []entities.AnomalyPost{}
	if err := readCSVFile(r.path, &posts); err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}
	return posts, nil
}

// Append inserts post at the head of the feed and writes the feed back in full
func (r *CSVPostRepository) Append(post entities.AnomalyPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.Load()
	if err != nil {
		return err
	}

	posts = append([]entities.AnomalyPost{post}, posts...)
	if err := writeCSVFile(r.path, &posts); err != nil {
		return fmt.Errorf("failed to save feed: %w", err)
	}

	zap.S().Infof("Saved post from %s tagged %s (%d posts in feed)", post.User, post.Tag, len(posts))
	return nil
}
