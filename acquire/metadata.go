package acquire

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/chordsense/chordsense/logging"
)

// VideoMetadata describes a YouTube video for result presentation
type VideoMetadata struct {
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Duration float64 `json:"duration"` // seconds, 0 when unknown
	VideoURL string  `json:"video_url"`
}

// MetadataFetcher resolves video metadata through a chain of providers.
// Metadata is presentation-only: no tier failure ever fails a job.
type MetadataFetcher struct {
	apiKey     string
	ytdlpPath  string
	httpClient *http.Client
	logger     logging.Logger
}

// NewMetadataFetcher creates a fetcher. apiKey may be empty, in which case
// the Data API tier is skipped.
func NewMetadataFetcher(apiKey, ytdlpPath string) *MetadataFetcher {
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	return &MetadataFetcher{
		apiKey:     apiKey,
		ytdlpPath:  ytdlpPath,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logging.WithFields(logging.Fields{"component": "metadata_fetcher"}),
	}
}

// Fetch tries oEmbed, then the Data API, then a yt-dlp probe, and finally
// synthesizes a placeholder. It always returns usable metadata.
func (mf *MetadataFetcher) Fetch(ctx context.Context, videoID string) VideoMetadata {
	videoURL := "https://www.youtube.com/watch?v=" + videoID

	if meta, err := mf.fetchOEmbed(ctx, videoURL); err == nil {
		return meta
	} else {
		mf.logger.Debug("oEmbed lookup failed", logging.Fields{"video_id": videoID, "error": err.Error()})
	}

	if mf.apiKey != "" {
		if meta, err := mf.fetchDataAPI(ctx, videoID, videoURL); err == nil {
			return meta
		} else {
			mf.logger.Debug("Data API lookup failed", logging.Fields{"video_id": videoID, "error": err.Error()})
		}
	}

	if meta, err := mf.fetchYtdlpProbe(ctx, videoURL); err == nil {
		return meta
	} else {
		mf.logger.Debug("yt-dlp probe failed", logging.Fields{"video_id": videoID, "error": err.Error()})
	}

	mf.logger.Warn("all metadata providers failed, synthesizing placeholder", logging.Fields{
		"video_id": videoID,
	})

	return VideoMetadata{
		Title:    "YouTube video " + videoID,
		Artist:   "Unknown Artist",
		VideoURL: videoURL,
	}
}

// fetchOEmbed uses YouTube's public oEmbed endpoint (no key, no duration)
func (mf *MetadataFetcher) fetchOEmbed(ctx context.Context, videoURL string) (VideoMetadata, error) {
	endpoint := "https://www.youtube.com/oembed?format=json&url=" + url.QueryEscape(videoURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return VideoMetadata{}, err
	}

	resp, err := mf.httpClient.Do(req)
	if err != nil {
		return VideoMetadata{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return VideoMetadata{}, fmt.Errorf("oembed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return VideoMetadata{}, err
	}

	title := gjson.GetBytes(body, "title").String()
	author := gjson.GetBytes(body, "author_name").String()
	if title == "" {
		return VideoMetadata{}, fmt.Errorf("oembed response missing title")
	}
	if author == "" {
		author = "Unknown Artist"
	}

	return VideoMetadata{
		Title:    title,
		Artist:   author,
		VideoURL: videoURL,
	}, nil
}

// fetchDataAPI uses the YouTube Data API v3 when an API key is configured
func (mf *MetadataFetcher) fetchDataAPI(ctx context.Context, videoID, videoURL string) (VideoMetadata, error) {
	service, err := youtube.NewService(ctx, option.WithAPIKey(mf.apiKey))
	if err != nil {
		return VideoMetadata{}, err
	}

	call := service.Videos.List([]string{"snippet", "contentDetails"}).Id(videoID)
	resp, err := call.Do()
	if err != nil {
		return VideoMetadata{}, err
	}
	if len(resp.Items) == 0 {
		return VideoMetadata{}, fmt.Errorf("video %s not found", videoID)
	}

	item := resp.Items[0]
	return VideoMetadata{
		Title:    item.Snippet.Title,
		Artist:   item.Snippet.ChannelTitle,
		Duration: parseISO8601Duration(item.ContentDetails.Duration),
		VideoURL: videoURL,
	}, nil
}

// fetchYtdlpProbe shells out to yt-dlp -J for a metadata-only probe
func (mf *MetadataFetcher) fetchYtdlpProbe(ctx context.Context, videoURL string) (VideoMetadata, error) {
	probeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, mf.ytdlpPath,
		"-J",
		"--no-warnings",
		"--no-playlist",
		videoURL,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return VideoMetadata{}, fmt.Errorf("yt-dlp probe failed: %w, stderr: %s", err, stderr.String())
	}

	info := stdout.Bytes()
	title := gjson.GetBytes(info, "title").String()
	if title == "" {
		return VideoMetadata{}, fmt.Errorf("yt-dlp probe returned no title")
	}

	// Artist fallback chain mirrors yt-dlp's own field precedence
	artist := gjson.GetBytes(info, "artist").String()
	if artist == "" {
		artist = gjson.GetBytes(info, "creator").String()
	}
	if artist == "" {
		artist = gjson.GetBytes(info, "channel").String()
	}
	if artist == "" {
		artist = gjson.GetBytes(info, "uploader").String()
	}
	if artist == "" {
		artist = "Unknown Artist"
	}

	return VideoMetadata{
		Title:    title,
		Artist:   artist,
		Duration: gjson.GetBytes(info, "duration").Float(),
		VideoURL: videoURL,
	}, nil
}

var iso8601Duration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISO8601Duration converts the Data API's PT#H#M#S form to seconds
func parseISO8601Duration(s string) float64 {
	m := iso8601Duration.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])

	return float64(hours*3600 + minutes*60 + seconds)
}
