package source

import (
	"context"
	"fmt"
	"time"

	"github.com/sosodev/duration"
	"go.uber.org/zap"

	"github.com/kobozo/ai-auto-summarizer/internal/config"
	"github.com/kobozo/ai-auto-summarizer/internal/content"
)

// TypeYouTube is the registry tag for YouTube channel sources.
const TypeYouTube = "youtube"

// maxVideosPerFetch caps how many videos one fetch inspects.
const maxVideosPerFetch = 50

// YouTube fetches recent videos and their transcripts from a single channel.
// The channel may be configured by ID or by an @handle, which is resolved on
// first fetch.
type YouTube struct {
	cfg    config.SourceConfig
	client *YouTubeClient
	log    *zap.SugaredLogger
}

var _ Source = (*YouTube)(nil)

// NewYouTube builds a YouTube source for one configured channel.
func NewYouTube(cfg config.SourceConfig, settings Settings) (Source, error) {
	if settings.APIKey == "" {
		return nil, fmt.Errorf("youtube: api key is required: %w", config.ErrMissingField)
	}
	if cfg.ID == "" {
		return nil, fmt.Errorf("youtube: channel id is required: %w", config.ErrMissingField)
	}

	client, err := NewYouTubeClient(settings.APIKey)
	if err != nil {
		return nil, err
	}

	log := settings.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	client.log = log

	return &YouTube{cfg: cfg, client: client, log: log}, nil
}

// GetContent returns videos published at or after fromDate, with transcripts
// attached where one could be retrieved.
func (y *YouTube) GetContent(ctx context.Context, fromDate time.Time) ([]content.Item, error) {
	channelID := y.cfg.ID
	if isHandle(channelID) {
		resolved, err := y.client.ResolveHandle(ctx, channelID)
		if err != nil {
			return nil, &FetchError{Source: y.cfg.Name, Err: err}
		}
		if resolved == "" {
			y.log.Warnw("could not resolve youtube handle", "handle", channelID, "source", y.cfg.Name)
			return []content.Item{}, nil
		}
		channelID = resolved
	}

	videos, err := y.client.ChannelVideos(ctx, channelID, maxVideosPerFetch, fromDate)
	if err != nil {
		return nil, &FetchError{Source: y.cfg.Name, Err: err}
	}

	items := make([]content.Item, 0, len(videos))
	for _, v := range videos {
		item := content.Item{
			ID:           v.ID,
			Title:        v.Title,
			Description:  v.Description,
			PublishedAt:  v.PublishedAt,
			URL:          fmt.Sprintf("https://www.youtube.com/watch?v=%s", v.ID),
			SourceType:   TypeYouTube,
			ChannelID:    v.ChannelID,
			ChannelTitle: v.ChannelTitle,
			Duration:     parseISODuration(v.Duration),
			Statistics: content.Statistics{
				Views:    v.Views,
				Likes:    v.Likes,
				Comments: v.Comments,
			},
		}

		// Transcript retrieval is best effort: every method failing just
		// leaves the transcript absent.
		item.Transcript = y.client.Transcript(ctx, v.ID)

		items = append(items, item)
	}

	return items, nil
}

func isHandle(id string) bool {
	return len(id) > 0 && id[0] == '@'
}

// parseISODuration converts an ISO-8601 duration string (PT1H2M3S) into
// seconds, returning 0 for unparseable input.
func parseISODuration(iso string) float64 {
	if iso == "" {
		return 0
	}
	d, err := duration.Parse(iso)
	if err != nil {
		return 0
	}
	return d.ToTimeDuration().Seconds()
}
