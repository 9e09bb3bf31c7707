package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Video is the metadata the client collects for one video.
type Video struct {
	ID           string
	Title        string
	Description  string
	PublishedAt  time.Time
	ChannelID    string
	ChannelTitle string
	Duration     string // ISO-8601, as reported by the API
	Views        uint64
	Likes        uint64
	Comments     uint64
}

// YouTubeClient wraps the YouTube Data API service plus the caption
// endpoints that live outside it.
type YouTubeClient struct {
	svc              *youtube.Service
	httpClient       *http.Client
	timedtextBaseURL string
	runner           commandRunner
	log              *zap.SugaredLogger
}

// NewYouTubeClient builds a client authenticated with an API key.
func NewYouTubeClient(apiKey string, opts ...option.ClientOption) (*YouTubeClient, error) {
	all := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtube.NewService(context.Background(), all...)
	if err != nil {
		return nil, fmt.Errorf("youtube: failed to create service: %w", err)
	}
	return &YouTubeClient{
		svc:              svc,
		httpClient:       &http.Client{Timeout: 30 * time.Second},
		timedtextBaseURL: "https://www.youtube.com",
		runner:           execRunner{},
		log:              zap.NewNop().Sugar(),
	}, nil
}

// ResolveHandle resolves an @handle or legacy username to a channel ID. It
// tries the forUsername lookup first and falls back to a channel search.
// Returns "" when nothing matches.
func (c *YouTubeClient) ResolveHandle(ctx context.Context, handle string) (string, error) {
	name := handle
	if isHandle(name) {
		name = name[1:]
	}

	resp, err := c.svc.Channels.List([]string{"id"}).ForUsername(name).MaxResults(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("youtube: channel lookup for %q failed: %w", handle, err)
	}
	if len(resp.Items) > 0 {
		return resp.Items[0].Id, nil
	}

	search, err := c.svc.Search.List([]string{"id"}).Q(name).Type("channel").MaxResults(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("youtube: channel search for %q failed: %w", handle, err)
	}
	if len(search.Items) > 0 && search.Items[0].Id != nil {
		return search.Items[0].Id.ChannelId, nil
	}
	return "", nil
}

// ChannelVideos returns up to maxResults videos from a channel's uploads
// playlist, published at or after fromDate.
func (c *YouTubeClient) ChannelVideos(ctx context.Context, channelID string, maxResults int, fromDate time.Time) ([]Video, error) {
	resp, err := c.svc.Channels.List([]string{"contentDetails"}).Id(channelID).MaxResults(1).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube: channel %s lookup failed: %w", channelID, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].ContentDetails == nil {
		c.log.Warnw("no channel found", "channel_id", channelID)
		return []Video{}, nil
	}

	uploads := resp.Items[0].ContentDetails.RelatedPlaylists.Uploads
	return c.playlistVideos(ctx, uploads, maxResults, fromDate)
}

// playlistVideos lists a playlist and loads details for every entry that
// passes the publish-date filter. The API caps one page at 50 entries.
func (c *YouTubeClient) playlistVideos(ctx context.Context, playlistID string, maxResults int, fromDate time.Time) ([]Video, error) {
	pageSize := int64(maxResults)
	if pageSize > 50 {
		pageSize = 50
	}

	resp, err := c.svc.PlaylistItems.List([]string{"snippet", "contentDetails"}).
		PlaylistId(playlistID).MaxResults(pageSize).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube: playlist %s listing failed: %w", playlistID, err)
	}

	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ContentDetails == nil || item.Snippet == nil {
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		if err != nil {
			c.log.Warnw("unparseable publish date", "video_id", item.ContentDetails.VideoId, "published_at", item.Snippet.PublishedAt)
			continue
		}
		if publishedAt.Before(fromDate) {
			continue
		}

		video, err := c.videoDetails(ctx, item.ContentDetails.VideoId)
		if err != nil {
			return nil, err
		}
		if video != nil {
			videos = append(videos, *video)
		}
		if len(videos) >= maxResults {
			break
		}
	}

	c.log.Infow("playlist scan complete", "playlist_id", playlistID, "matched", len(videos))
	return videos, nil
}

func (c *YouTubeClient) videoDetails(ctx context.Context, videoID string) (*Video, error) {
	resp, err := c.svc.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube: video %s lookup failed: %w", videoID, err)
	}
	if len(resp.Items) == 0 {
		c.log.Warnw("no video found", "video_id", videoID)
		return nil, nil
	}

	v := resp.Items[0]
	video := &Video{ID: videoID}
	if v.Snippet != nil {
		video.Title = v.Snippet.Title
		video.Description = v.Snippet.Description
		video.ChannelID = v.Snippet.ChannelId
		video.ChannelTitle = v.Snippet.ChannelTitle
		if t, err := time.Parse(time.RFC3339, v.Snippet.PublishedAt); err == nil {
			video.PublishedAt = t
		}
	}
	if v.ContentDetails != nil {
		video.Duration = v.ContentDetails.Duration
	}
	if v.Statistics != nil {
		video.Views = v.Statistics.ViewCount
		video.Likes = v.Statistics.LikeCount
		video.Comments = v.Statistics.CommentCount
	}
	return video, nil
}
