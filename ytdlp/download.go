package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// Request describes one materialization run.
type Request struct {
	URL            string
	Selector       string // format selection expression, passed through verbatim
	OutputTemplate string // full output path template (yt-dlp syntax)
	TempDir        string // where intermediate files go
	ExtractAudio   bool   // attach the audio-extraction post-processing step
	MergeContainer string // output container when separate streams get merged, e.g. "mp4"
}

// Result carries what yt-dlp reported about a finished run.
type Result struct {
	// FilePath is the final file after all post-processing, if yt-dlp
	// reported one.
	FilePath string
}

// Hook receives one raw progress payload per event, decoded from the JSON
// progress lines yt-dlp prints. It is invoked from the goroutine reading
// the subprocess pipe and must not block.
type Hook func(map[string]any)

func (c *Client) buildDownloadArgs(req Request) []string {
	args := []string{
		"-f", req.Selector,
		"-o", req.OutputTemplate,
		"--no-playlist",
		"--no-warnings",
		"--newline",
		// One JSON object per progress event on stdout.
		"--progress-template", "download:%(progress)j",
		// Reported once the file reached its final resting place.
		"--print", "after_move:filepath",
	}
	if req.TempDir != "" {
		args = append(args, "-P", "temp:"+req.TempDir)
	}
	if req.MergeContainer != "" {
		args = append(args, "--merge-output-format", req.MergeContainer)
	}
	if req.ExtractAudio {
		// Best available codec at best quality; yt-dlp keeps the native
		// container unless told otherwise.
		args = append(args, "--extract-audio", "--audio-quality", "0")
	}
	if c.FFmpegPath != "" && c.FFmpegPath != "ffmpeg" {
		args = append(args, "--ffmpeg-location", c.FFmpegPath)
	}
	args = append(args, req.URL)
	return args
}

// Download materializes the requested streams. Every progress event is
// relayed to the hook as it arrives; the hook also gets a synthesized
// "merging" payload when yt-dlp hands off to its merger or audio
// extractor, since the binary does not emit progress for those stages.
func (c *Client) Download(ctx context.Context, req Request, hook Hook) (*Result, error) {
	cmd := exec.CommandContext(ctx, c.bin(), c.buildDownloadArgs(req)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", req.URL, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("download %s: starting yt-dlp: %w", req.URL, err)
	}

	var (
		wg        sync.WaitGroup
		finalPath string
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		finalPath = scanOutput(stdout, hook)
	}()

	// Drain stdout before Wait; Wait closes the pipe and would cut off the
	// tail of the output, including the after_move filepath print.
	wg.Wait()
	runErr := cmd.Wait()

	if runErr != nil {
		cause := classify(stderr.String())
		return nil, fmt.Errorf("download %s: %w: %s", req.URL, cause, excerpt(stderr.String()))
	}

	return &Result{FilePath: finalPath}, nil
}

// scanOutput walks yt-dlp stdout line by line. JSON lines are progress
// payloads; "[Merger]"/"[ExtractAudio]" lines mark the post-processing
// stage; the last plain line is the after_move filepath print.
func scanOutput(r io.Reader, hook Hook) (finalPath string) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "{") {
			var payload map[string]any
			if err := json.Unmarshal([]byte(line), &payload); err == nil {
				if hook != nil {
					hook(payload)
				}
			}
			continue
		}

		if strings.HasPrefix(line, "[Merger]") || strings.HasPrefix(line, "[ExtractAudio]") {
			if hook != nil {
				hook(map[string]any{
					"status":   "merging",
					"filename": mergeTarget(line),
				})
			}
			continue
		}

		if !strings.HasPrefix(line, "[") {
			finalPath = line
		}
	}
	return finalPath
}

// mergeTarget pulls the destination path out of lines like
// [Merger] Merging formats into "out.mp4".
func mergeTarget(line string) string {
	start := strings.Index(line, `"`)
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(line, `"`)
	if end <= start {
		return ""
	}
	return line[start+1 : end]
}

// PredictFilename asks yt-dlp to compute the output path it would use for
// the request, without downloading anything. Used as a fallback when a
// finished run did not report its final path.
func (c *Client) PredictFilename(ctx context.Context, req Request) (string, error) {
	cmd := exec.CommandContext(ctx, c.bin(),
		"-f", req.Selector,
		"-o", req.OutputTemplate,
		"--no-playlist",
		"--no-warnings",
		"--simulate",
		"--print", "filename",
		req.URL,
	)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("predict filename %s: %w", req.URL, err)
	}
	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", fmt.Errorf("predict filename %s: empty result", req.URL)
	}
	return path, nil
}
