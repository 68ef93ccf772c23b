package downloader

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"quasar/tubedash/formats"
	"quasar/tubedash/media"
	"quasar/tubedash/ytdlp"
)

// ExtractionClient is the boundary to yt-dlp. Implemented by *ytdlp.Client;
// tests substitute fakes.
type ExtractionClient interface {
	Validate(ctx context.Context, rawURL string) bool
	FetchMetadata(ctx context.Context, rawURL string) (*media.MediaMetadata, error)
	Download(ctx context.Context, req ytdlp.Request, hook ytdlp.Hook) (*ytdlp.Result, error)
	PredictFilename(ctx context.Context, req ytdlp.Request) (string, error)
	FFmpegAvailable() bool
}

// Observer receives normalized progress records. It runs on the download
// goroutine, on the critical path of an active transfer, and must not
// block. Passed per call rather than registered globally so concurrent
// invocations do not interfere.
type Observer func(media.Progress)

// Orchestrator assembles materialization requests for the extraction
// client: selector resolution, output naming, temp routing, muxer
// preconditions and final path resolution. One URL at a time; callers
// wanting a queue go through Service.
type Orchestrator struct {
	Client      ExtractionClient
	DownloadDir string
	FFprobePath string
}

func NewOrchestrator(client ExtractionClient, downloadDir string) *Orchestrator {
	return &Orchestrator{Client: client, DownloadDir: downloadDir}
}

// TempDir is where intermediate fragments live until yt-dlp moves the
// finished file out, so partial files never pollute the output directory
// and bulk cleanup stays safe.
func (o *Orchestrator) TempDir() string {
	return filepath.Join(o.DownloadDir, "temp")
}

// EnsureDirs creates the download directory and its temp subdirectory.
func (o *Orchestrator) EnsureDirs() error {
	if err := os.MkdirAll(o.DownloadDir, 0o755); err != nil {
		return fmt.Errorf("create download dir %s: %w", o.DownloadDir, err)
	}
	if err := os.MkdirAll(o.TempDir(), 0o755); err != nil {
		return fmt.Errorf("create temp dir %s: %w", o.TempDir(), err)
	}
	return nil
}

// Inspect fetches metadata and normalizes the stream list.
func (o *Orchestrator) Inspect(ctx context.Context, rawURL string) (*media.MediaMetadata, error) {
	info, err := o.Client.FetchMetadata(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", rawURL, err)
	}
	info.Formats = formats.Normalize(info.Formats)
	return info, nil
}

// QualityOptions returns the tier menu for a URL. A metadata failure
// surfaces to the caller; there is no partially populated menu.
func (o *Orchestrator) QualityOptions(ctx context.Context, rawURL string) ([]media.QualityOption, error) {
	info, err := o.Inspect(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return formats.QualityOptions(info.Formats), nil
}

// Download runs one payload end to end and returns the final file path
// plus the metadata that drove the selection (nil on the plain selector
// fallback path).
func (o *Orchestrator) Download(ctx context.Context, p DownloadPayload, obs Observer) (string, *media.MediaMetadata, error) {
	if p.FormatID != "" {
		return o.downloadByFormatID(ctx, p, obs)
	}

	info, err := o.Inspect(ctx, p.URL)
	if err != nil {
		return "", nil, err
	}

	option, err := resolveQuality(formats.QualityOptions(info.Formats), p.Quality)
	if err != nil {
		return "", nil, fmt.Errorf("download %s: %w", p.URL, err)
	}

	outputName := p.Filename
	if outputName == "" && info.Title != "" {
		outputName = SanitizeTitle(info.Title) + ".%(ext)s"
	}

	path, err := o.DownloadWithSelector(ctx, p.URL, option.Selector, outputName, obs)
	if err != nil {
		return "", info, err
	}

	if option.Name == formats.AudioOnlyName && info != nil {
		if tagErr := tagAudioFile(path, info); tagErr != nil {
			log.Printf("[Downloader] WARN: tagging %s: %v", path, tagErr)
		}
	}

	return path, info, nil
}

// resolveQuality picks a tier by name. "best" (or empty) takes the highest
// video tier; the list is already ladder-ordered.
func resolveQuality(opts []media.QualityOption, quality string) (media.QualityOption, error) {
	if quality == "" || quality == "best" {
		for _, opt := range opts {
			if opt.Height > 0 {
				return opt, nil
			}
		}
		return media.QualityOption{}, fmt.Errorf("no video formats available: %w", ytdlp.ErrFormatNotFound)
	}

	for _, opt := range opts {
		if opt.Name == quality {
			return opt, nil
		}
	}

	names := make([]string, 0, len(opts))
	for _, opt := range opts {
		names = append(names, opt.Name)
	}
	return media.QualityOption{}, fmt.Errorf("quality %q not available (have: %s): %w",
		quality, strings.Join(names, ", "), ytdlp.ErrFormatNotFound)
}

// DownloadWithSelector materializes the streams picked by a format
// selection expression. The output name is used verbatim when given;
// otherwise it is derived from the video title, falling back to an
// ID-keyed template if metadata cannot be fetched.
func (o *Orchestrator) DownloadWithSelector(ctx context.Context, rawURL, selector, outputName string, obs Observer) (string, error) {
	if err := o.EnsureDirs(); err != nil {
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}

	// A "+" selector means separate video and audio streams that ffmpeg
	// must merge. Check before any network transfer, not after.
	merged := strings.Contains(selector, "+")
	if merged && !o.Client.FFmpegAvailable() {
		return "", fmt.Errorf("download %s: merging video and audio requires ffmpeg: %w", rawURL, ytdlp.ErrMissingFFmpeg)
	}

	audioOnly := strings.HasPrefix(selector, "bestaudio")

	req := ytdlp.Request{
		URL:            rawURL,
		Selector:       selector,
		OutputTemplate: o.outputTemplate(ctx, rawURL, outputName),
		TempDir:        o.TempDir(),
		ExtractAudio:   audioOnly,
	}
	if merged {
		req.MergeContainer = "mp4"
	}

	return o.submit(ctx, req, obs)
}

// downloadByFormatID downloads one specific stream. Unlike the selector
// path, the format ID must exist in current metadata, so the fetch is not
// optional here.
func (o *Orchestrator) downloadByFormatID(ctx context.Context, p DownloadPayload, obs Observer) (string, *media.MediaMetadata, error) {
	if err := o.EnsureDirs(); err != nil {
		return "", nil, fmt.Errorf("download %s: %w", p.URL, err)
	}

	info, err := o.Inspect(ctx, p.URL)
	if err != nil {
		return "", nil, err
	}

	var desc *media.StreamDescriptor
	for i := range info.Formats {
		if info.Formats[i].FormatID == p.FormatID {
			desc = &info.Formats[i]
			break
		}
	}
	if desc == nil {
		return "", info, fmt.Errorf("download %s: format %q: %w", p.URL, p.FormatID, ytdlp.ErrFormatNotFound)
	}

	outTmpl := p.Filename
	if outTmpl == "" {
		outTmpl = SanitizeTitle(info.Title) + ".%(ext)s"
	}

	audioOnly := !desc.HasVideo() && desc.HasAudio()

	req := ytdlp.Request{
		URL:            p.URL,
		Selector:       p.FormatID,
		OutputTemplate: filepath.Join(o.DownloadDir, outTmpl),
		TempDir:        o.TempDir(),
		ExtractAudio:   audioOnly,
	}

	path, err := o.submit(ctx, req, obs)
	if err != nil {
		return "", info, err
	}

	if audioOnly {
		if tagErr := tagAudioFile(path, info); tagErr != nil {
			log.Printf("[Downloader] WARN: tagging %s: %v", path, tagErr)
		}
	}

	return path, info, nil
}

// outputTemplate derives the output path template for a selector run.
func (o *Orchestrator) outputTemplate(ctx context.Context, rawURL, outputName string) string {
	if outputName != "" {
		return filepath.Join(o.DownloadDir, outputName)
	}

	info, err := o.Client.FetchMetadata(ctx, rawURL)
	if err != nil || info.Title == "" {
		log.Printf("[Downloader] WARN: no metadata for default filename of %s, using ID template", rawURL)
		return filepath.Join(o.DownloadDir, fallbackOutTmpl)
	}
	return filepath.Join(o.DownloadDir, SanitizeTitle(info.Title)+".%(ext)s")
}

// submit hands the request to the extraction client, relaying every
// progress event, then resolves the final file path. When the client does
// not report an exact path, ask it to predict one from its own naming
// rules; only if neither yields an existing file does the run fail.
func (o *Orchestrator) submit(ctx context.Context, req ytdlp.Request, obs Observer) (string, error) {
	hook := func(raw map[string]any) {
		// Progress is computed even without an observer, then dropped.
		p := media.ParseProgress(raw)
		if obs != nil {
			obs(p)
		}
	}

	res, err := o.Client.Download(ctx, req, hook)
	if err != nil {
		return "", err
	}

	if res.FilePath != "" && fileExists(res.FilePath) {
		return res.FilePath, nil
	}

	predicted, err := o.Client.PredictFilename(ctx, req)
	if err == nil && fileExists(predicted) {
		return predicted, nil
	}

	return "", fmt.Errorf("download %s: %w", req.URL, ytdlp.ErrOutputUnresolved)
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
