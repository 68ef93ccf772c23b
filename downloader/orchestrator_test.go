package downloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quasar/tubedash/media"
	"quasar/tubedash/ytdlp"
)

// fakeClient stands in for the yt-dlp binary. It records the request it
// was handed and optionally creates the file it claims to have produced.
type fakeClient struct {
	meta    *media.MediaMetadata
	metaErr error

	downloadErr  error
	resultPath   string
	createFile   string
	hookPayloads []map[string]any

	predictPath string
	predictErr  error

	ffmpeg  bool
	invalid bool

	lastReq        ytdlp.Request
	downloadCalled bool
	metaCalls      int
}

func (f *fakeClient) Validate(ctx context.Context, rawURL string) bool { return !f.invalid }

func (f *fakeClient) FetchMetadata(ctx context.Context, rawURL string) (*media.MediaMetadata, error) {
	f.metaCalls++
	if f.metaErr != nil {
		return nil, f.metaErr
	}
	// Copy so the orchestrator's normalization does not mutate the fixture.
	info := *f.meta
	info.Formats = append([]media.StreamDescriptor(nil), f.meta.Formats...)
	return &info, nil
}

func (f *fakeClient) Download(ctx context.Context, req ytdlp.Request, hook ytdlp.Hook) (*ytdlp.Result, error) {
	f.downloadCalled = true
	f.lastReq = req
	for _, payload := range f.hookPayloads {
		hook(payload)
	}
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	if f.createFile != "" {
		if err := os.WriteFile(f.createFile, []byte("x"), 0o644); err != nil {
			return nil, err
		}
	}
	return &ytdlp.Result{FilePath: f.resultPath}, nil
}

func (f *fakeClient) PredictFilename(ctx context.Context, req ytdlp.Request) (string, error) {
	return f.predictPath, f.predictErr
}

func (f *fakeClient) FFmpegAvailable() bool { return f.ffmpeg }

func videoMeta() *media.MediaMetadata {
	return &media.MediaMetadata{
		ID:       "abc123",
		Title:    "My/Video:Title??",
		Uploader: "someone",
		Formats: []media.StreamDescriptor{
			{FormatID: "22", Ext: "mp4", Height: 720, TBR: 1200, VCodec: "avc1", ACodec: "mp4a", URL: "http://cdn/22"},
			{FormatID: "140", Ext: "m4a", TBR: 128, VCodec: "none", ACodec: "mp4a", URL: "http://cdn/140"},
		},
	}
}

func TestDownloadWithSelector_MergeRequiresFFmpeg(t *testing.T) {
	fake := &fakeClient{ffmpeg: false}
	orch := NewOrchestrator(fake, t.TempDir())

	_, err := orch.DownloadWithSelector(context.Background(), "http://v/1",
		"bestvideo[height<=720]+bestaudio/best[height<=720]", "out.%(ext)s", nil)
	if !errors.Is(err, ytdlp.ErrMissingFFmpeg) {
		t.Fatalf("err = %v, want ErrMissingFFmpeg", err)
	}
	if fake.downloadCalled {
		t.Fatal("download started despite missing ffmpeg")
	}
}

func TestDownloadWithSelector_CustomFilenameUsedVerbatim(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "custom.mp4")
	fake := &fakeClient{ffmpeg: true, createFile: out, resultPath: out}
	orch := NewOrchestrator(fake, dir)

	path, err := orch.DownloadWithSelector(context.Background(), "http://v/1", "best", "custom.%(ext)s", nil)
	if err != nil {
		t.Fatalf("DownloadWithSelector: %v", err)
	}
	if path != out {
		t.Errorf("path = %q, want %q", path, out)
	}
	if want := filepath.Join(dir, "custom.%(ext)s"); fake.lastReq.OutputTemplate != want {
		t.Errorf("output template = %q, want %q", fake.lastReq.OutputTemplate, want)
	}
	if fake.metaCalls != 0 {
		t.Errorf("metadata fetched %d times for an explicit filename", fake.metaCalls)
	}
}

func TestDownloadWithSelector_MetadataFailureFallsBackToIDTemplate(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "abc123.mp4")
	fake := &fakeClient{
		metaErr:    errors.New("boom"),
		createFile: out,
		resultPath: out,
	}
	orch := NewOrchestrator(fake, dir)

	_, err := orch.DownloadWithSelector(context.Background(), "http://v/1", "best", "", nil)
	if err != nil {
		t.Fatalf("DownloadWithSelector: %v", err)
	}
	if want := filepath.Join(dir, fallbackOutTmpl); fake.lastReq.OutputTemplate != want {
		t.Errorf("output template = %q, want %q", fake.lastReq.OutputTemplate, want)
	}
}

func TestDownloadWithSelector_AudioSelectorExtractsAudio(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "track.mp3")
	fake := &fakeClient{createFile: out, resultPath: out}
	orch := NewOrchestrator(fake, dir)

	_, err := orch.DownloadWithSelector(context.Background(), "http://v/1", "bestaudio/best", "track.%(ext)s", nil)
	if err != nil {
		t.Fatalf("DownloadWithSelector: %v", err)
	}
	if !fake.lastReq.ExtractAudio {
		t.Error("ExtractAudio not set for a bestaudio selector")
	}
	if fake.lastReq.MergeContainer != "" {
		t.Errorf("MergeContainer = %q for a single-stream selector", fake.lastReq.MergeContainer)
	}
}

func TestDownloadWithSelector_PredictedFilenameFallback(t *testing.T) {
	dir := t.TempDir()
	predicted := filepath.Join(dir, "predicted.mp4")
	if err := os.WriteFile(predicted, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	// The client reports no path of its own; resolution falls through to
	// the predicted name.
	fake := &fakeClient{resultPath: "", predictPath: predicted}
	orch := NewOrchestrator(fake, dir)

	path, err := orch.DownloadWithSelector(context.Background(), "http://v/1", "best", "out.%(ext)s", nil)
	if err != nil {
		t.Fatalf("DownloadWithSelector: %v", err)
	}
	if path != predicted {
		t.Errorf("path = %q, want %q", path, predicted)
	}
}

func TestDownloadWithSelector_UnresolvedOutput(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeClient{resultPath: "", predictPath: filepath.Join(dir, "never-written.mp4")}
	orch := NewOrchestrator(fake, dir)

	_, err := orch.DownloadWithSelector(context.Background(), "http://v/1", "best", "out.%(ext)s", nil)
	if !errors.Is(err, ytdlp.ErrOutputUnresolved) {
		t.Fatalf("err = %v, want ErrOutputUnresolved", err)
	}
}

func TestDownload_BestQualityAndDerivedFilename(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "My_Video_Title.mp4")
	fake := &fakeClient{
		meta:       videoMeta(),
		ffmpeg:     true,
		createFile: out,
		resultPath: out,
	}
	orch := NewOrchestrator(fake, dir)

	path, info, err := orch.Download(context.Background(), DownloadPayload{URL: "http://v/1", Quality: "best"}, nil)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if path != out {
		t.Errorf("path = %q, want %q", path, out)
	}
	if info == nil || info.Title != "My/Video:Title??" {
		t.Errorf("metadata not returned: %+v", info)
	}
	if !strings.Contains(fake.lastReq.Selector, "height<=720") {
		t.Errorf("selector = %q, want the 720 tier", fake.lastReq.Selector)
	}
	if want := filepath.Join(dir, "My_Video_Title.%(ext)s"); fake.lastReq.OutputTemplate != want {
		t.Errorf("output template = %q, want %q", fake.lastReq.OutputTemplate, want)
	}
}

func TestDownload_UnknownQuality(t *testing.T) {
	fake := &fakeClient{meta: videoMeta(), ffmpeg: true}
	orch := NewOrchestrator(fake, t.TempDir())

	_, _, err := orch.Download(context.Background(), DownloadPayload{URL: "http://v/1", Quality: "1080p"}, nil)
	if !errors.Is(err, ytdlp.ErrFormatNotFound) {
		t.Fatalf("err = %v, want ErrFormatNotFound", err)
	}
	if !strings.Contains(err.Error(), "720p") {
		t.Errorf("error does not list available tiers: %v", err)
	}
}

func TestDownload_UnknownFormatID(t *testing.T) {
	fake := &fakeClient{meta: videoMeta(), ffmpeg: true}
	orch := NewOrchestrator(fake, t.TempDir())

	_, _, err := orch.Download(context.Background(), DownloadPayload{URL: "http://v/1", FormatID: "999"}, nil)
	if !errors.Is(err, ytdlp.ErrFormatNotFound) {
		t.Fatalf("err = %v, want ErrFormatNotFound", err)
	}
}

func TestDownload_FormatIDAudioStream(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "My_Video_Title.m4a")
	fake := &fakeClient{
		meta:       videoMeta(),
		createFile: out,
		resultPath: out,
	}
	orch := NewOrchestrator(fake, dir)

	_, _, err := orch.Download(context.Background(), DownloadPayload{URL: "http://v/1", FormatID: "140"}, nil)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if fake.lastReq.Selector != "140" {
		t.Errorf("selector = %q, want the raw format ID", fake.lastReq.Selector)
	}
	if !fake.lastReq.ExtractAudio {
		t.Error("ExtractAudio not set for an audio-only format ID")
	}
}

func TestDownload_RelaysProgressToObserver(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "My_Video_Title.mp4")
	fake := &fakeClient{
		meta:       videoMeta(),
		ffmpeg:     true,
		createFile: out,
		resultPath: out,
		hookPayloads: []map[string]any{
			{"status": "downloading", "downloaded_bytes": float64(50), "total_bytes": float64(200)},
			{"status": "finished", "filename": "My_Video_Title.mp4"},
		},
	}
	orch := NewOrchestrator(fake, dir)

	var seen []media.Progress
	obs := func(p media.Progress) { seen = append(seen, p) }

	if _, _, err := orch.Download(context.Background(), DownloadPayload{URL: "http://v/1", Quality: "best"}, obs); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("observer saw %d events, want 2", len(seen))
	}
	if seen[0].Status != media.StatusDownloading || seen[0].Percentage != 25.0 {
		t.Errorf("first event = %+v, want downloading at 25%%", seen[0])
	}
	if seen[1].Status != media.StatusFinished || seen[1].Percentage != 100.0 {
		t.Errorf("second event = %+v, want finished at 100%%", seen[1])
	}
}
