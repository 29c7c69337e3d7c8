package usecases

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/abelzeko/aquahealth/internal/entities"
	"github.com/abelzeko/aquahealth/internal/integration/openai"
	"github.com/abelzeko/aquahealth/internal/metrics"
	"github.com/abelzeko/aquahealth/internal/repository"
	"go.uber.org/zap"
)

// InsightFilter narrows the Harbor Helper list
type InsightFilter struct {
	Location string // "All" or "" for every location
	Keyword  string // matched case-insensitively against tag, message and insight
}

// InsightUseCase handles Harbor Helper insights
type InsightUseCase struct {
	insights  repository.InsightRepository
	posts     repository.PostRepository
	explainer openai.InsightService
}

// NewInsightUseCase creates a new insight use case. explainer may be nil when
// insights are only read.
func NewInsightUseCase(insights repository.InsightRepository, posts repository.PostRepository, explainer openai.InsightService) *InsightUseCase {
	return &InsightUseCase{
		insights:  insights,
		posts:     posts,
		explainer: explainer,
	}
}

// explained loads the rows that already carry an insight
func (uc *InsightUseCase) explained() ([]entities.Insight, error) {
	all, err := uc.insights.Load()
	if err != nil {
		return nil, err
	}
	result := make([]entities.Insight, 0, len(all))
	for _, in := range all {
		if strings.TrimSpace(in.Insight) != "" {
			result = append(result, in)
		}
	}
	return result, nil
}

// Insights returns explained posts matching the filter, in file order
func (uc *InsightUseCase) Insights(f InsightFilter) ([]entities.Insight, error) {
	all, err := uc.explained()
	if err != nil {
		return nil, err
	}

	keyword := strings.ToLower(f.Keyword)
	result := []entities.Insight{}
	for _, in := range all {
		if f.Location != "" && f.Location != entities.StatusAll && in.Location != f.Location {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(in.Tag), keyword) &&
			!strings.Contains(strings.ToLower(in.Message), keyword) &&
			!strings.Contains(strings.ToLower(in.Insight), keyword) {
			continue
		}
		result = append(result, in)
	}
	return result, nil
}

// Locations returns the sorted distinct locations of explained posts
func (uc *InsightUseCase) Locations() ([]string, error) {
	all, err := uc.explained()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	locations := []string{}
	for _, in := range all {
		if !seen[in.Location] {
			seen[in.Location] = true
			locations = append(locations, in.Location)
		}
	}
	sort.Strings(locations)
	return locations, nil
}

// GenerateMissing asks the explainer for up to limit feed posts that have no
// insight yet and saves the merged insight file. It returns how many insights were added.
func (uc *InsightUseCase) GenerateMissing(ctx context.Context, limit int) (int, error) {
	if uc.explainer == nil {
		return 0, fmt.Errorf("no insight service configured")
	}

	posts, err := uc.posts.Load()
	if err != nil {
		return 0, err
	}
	existing, err := uc.insights.Load()
	if err != nil {
		return 0, err
	}

	byKey := make(map[string]entities.Insight, len(existing))
	for _, in := range existing {
		byKey[entities.PostKey(in.Post())] = in
	}

	merged := make([]entities.Insight, 0, len(posts)+len(existing))
	inFeed := make(map[string]bool, len(posts))
	generated := 0
	for _, p := range posts {
		key := entities.PostKey(p)
		inFeed[key] = true

		in, ok := byKey[key]
		if !ok {
			in = entities.InsightFromPost(p)
		}
		if strings.TrimSpace(in.Insight) == "" && (limit <= 0 || generated < limit) && ctx.Err() == nil {
			resp, err := uc.explainer.ExplainPost(ctx, p)
			if err != nil {
				metrics.InsightsGeneratedTotal.WithLabelValues("error").Inc()
				zap.S().Warnf("Failed to generate insight for post by %s at %s: %v", p.User, p.Timestamp, err)
			} else {
				in.Insight = resp.Insight
				generated++
				metrics.InsightsGeneratedTotal.WithLabelValues("ok").Inc()
				zap.S().Infof("Generated %s-confidence insight for %s at %s", resp.Confidence, p.Tag, p.Location)
			}
		}
		merged = append(merged, in)
	}

	// Rows whose post is no longer in the feed are kept at the end.
	for _, in := range existing {
		if !inFeed[entities.PostKey(in.Post())] {
			merged = append(merged, in)
		}
	}

	if generated == 0 && len(merged) == len(existing) {
		zap.S().Info("No new insights to save")
		return 0, ctx.Err()
	}
	if err := uc.insights.Save(merged); err != nil {
		return generated, fmt.Errorf("failed to save insights: %w", err)
	}
	zap.S().Infof("Insight generation finished with %d new insights", generated)
	return generated, ctx.Err()
}
