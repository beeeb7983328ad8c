package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/kkdai/youtube/v2"
	"github.com/rs/zerolog"
)

var (
	watchIDPattern  = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	searchIDPattern = regexp.MustCompile(`"videoId":"([a-zA-Z0-9_-]{11})"`)
)

// YouTube resolves queries against YouTube: direct watch/short URLs go
// straight to the video, anything else is treated as a title search.
type YouTube struct {
	client *youtube.Client
	http   *http.Client
	log    zerolog.Logger
}

func NewYouTube(log zerolog.Logger) *YouTube {
	return &YouTube{
		client: &youtube.Client{},
		http:   &http.Client{Timeout: 10 * time.Second},
		log:    log.With().Str("component", "resolver").Logger(),
	}
}

func (r *YouTube) Resolve(ctx context.Context, query string) Outcome {
	if m := watchIDPattern.FindStringSubmatch(query); m != nil {
		track, err := r.fetchTrack(ctx, m[1])
		if err != nil {
			r.log.Warn().Err(err).Str("video_id", m[1]).Msg("failed to resolve video URL")
			return Outcome{Kind: OutcomeFailed, Reason: err.Error()}
		}
		return Outcome{Kind: OutcomeSingle, Track: track}
	}

	ids, err := r.searchIDs(ctx, query)
	if err != nil {
		r.log.Warn().Err(err).Str("query", query).Msg("search failed")
		return Outcome{Kind: OutcomeFailed, Reason: err.Error()}
	}
	if len(ids) == 0 {
		return Outcome{Kind: OutcomeNoMatches}
	}

	candidates := make([]Track, 0, len(ids))
	for _, id := range ids {
		track, err := r.fetchTrack(ctx, id)
		if err != nil {
			r.log.Debug().Err(err).Str("video_id", id).Msg("skipping unplayable search hit")
			continue
		}
		candidates = append(candidates, track)
	}

	switch len(candidates) {
	case 0:
		return Outcome{Kind: OutcomeNoMatches}
	case 1:
		return Outcome{Kind: OutcomeSingle, Track: candidates[0]}
	default:
		return Outcome{Kind: OutcomeCandidates, Candidates: candidates}
	}
}

func (r *YouTube) fetchTrack(ctx context.Context, videoID string) (Track, error) {
	video, err := r.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return Track{}, fmt.Errorf("get video: %w", err)
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return Track{}, fmt.Errorf("no audio formats for video %s", videoID)
	}

	streamURL, err := r.client.GetStreamURLContext(ctx, video, &formats[0])
	if err != nil {
		return Track{}, fmt.Errorf("get stream URL: %w", err)
	}

	var thumbnail string
	if len(video.Thumbnails) > 0 {
		thumbnail = video.Thumbnails[0].URL
	}

	return Track{
		ID:        uuid.NewString(),
		Title:     video.Title,
		URL:       "https://www.youtube.com/watch?v=" + videoID,
		StreamURL: streamURL,
		Duration:  video.Duration,
		Thumbnail: thumbnail,
	}, nil
}

// searchIDs scrapes the results page for video IDs, first hits first.
func (r *YouTube) searchIDs(ctx context.Context, query string) ([]string, error) {
	searchURL := "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	matches := searchIDPattern.FindAllStringSubmatch(string(body), -1)
	seen := make(map[string]struct{}, MaxCandidates)
	var ids []string
	for _, m := range matches {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		ids = append(ids, m[1])
		if len(ids) == MaxCandidates {
			break
		}
	}
	return ids, nil
}
