package ytdlp

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"audioharvest/internal/core/domain"
)

const (
	defaultBinary    = "yt-dlp"
	videoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// Options is the fixed download policy handed to every yt-dlp invocation.
type Options struct {
	AudioFormat     string
	AudioQuality    string
	SocketTimeout   time.Duration
	Retries         int
	ProbeTimeout    time.Duration
	TransferTimeout time.Duration
}

// DefaultOptions mirrors the harvester's built-in policy: mp3 at 192K,
// 30s socket timeout, a single retry.
func DefaultOptions() Options {
	return Options{
		AudioFormat:     "mp3",
		AudioQuality:    "192K",
		SocketTimeout:   30 * time.Second,
		Retries:         1,
		ProbeTimeout:    time.Minute,
		TransferTimeout: 10 * time.Minute,
	}
}

// YtDlpDownloader implements ports.MediaDownloader with the yt-dlp binary.
type YtDlpDownloader struct {
	binaryPath string
	opts       Options
}

// NewYtDlpDownloader creates a new downloader. An empty binary means yt-dlp
// on PATH.
func NewYtDlpDownloader(binary string, opts Options) *YtDlpDownloader {
	if binary = strings.TrimSpace(binary); binary == "" {
		binary = defaultBinary
	}
	return &YtDlpDownloader{binaryPath: binary, opts: opts}
}

// BinaryPath returns the yt-dlp command this downloader runs.
func (d *YtDlpDownloader) BinaryPath() string {
	return d.binaryPath
}

// ProbeTitle fetches the video title with --print, without downloading media.
func (d *YtDlpDownloader) ProbeTitle(ctx context.Context, videoID domain.VideoID) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.opts.ProbeTimeout)
	defer cancel()

	out, err := d.run(ctx, d.probeArgs(videoID))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrProbe, err)
	}

	title, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: yt-dlp returned empty title for %s", domain.ErrProbe, videoID)
	}
	return title, nil
}

// DownloadAudio fetches the best audio stream and transcodes it to
// outputPath. The extension of outputPath is replaced by the audio format.
func (d *YtDlpDownloader) DownloadAudio(ctx context.Context, videoID domain.VideoID, outputPath string) error {
	ctx, cancel := context.WithTimeout(ctx, d.opts.TransferTimeout)
	defer cancel()

	if _, err := d.run(ctx, d.downloadArgs(videoID, outputPath)); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransfer, err)
	}
	return nil
}

func (d *YtDlpDownloader) run(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, d.binaryPath, args...)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("yt-dlp: %w", ctx.Err())
		}
		return "", fmt.Errorf("yt-dlp failed: %w, stderr: %s", err, lastLine(stderr.String()))
	}
	return out.String(), nil
}

func (d *YtDlpDownloader) commonArgs() []string {
	return []string{
		"--no-warnings",
		"--no-playlist",
		"--socket-timeout", strconv.Itoa(int(d.opts.SocketTimeout.Seconds())),
		"--retries", strconv.Itoa(d.opts.Retries),
	}
}

func (d *YtDlpDownloader) probeArgs(videoID domain.VideoID) []string {
	args := d.commonArgs()
	args = append(args, "--skip-download", "--print", "%(title)s", videoURL(videoID))
	return args
}

func (d *YtDlpDownloader) downloadArgs(videoID domain.VideoID, outputPath string) []string {
	args := d.commonArgs()
	args = append(args,
		"--no-progress",
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", d.opts.AudioFormat,
		"--audio-quality", d.opts.AudioQuality,
		"-o", outputTemplate(outputPath),
		videoURL(videoID),
	)
	return args
}

// outputTemplate turns a literal target path into a yt-dlp output template,
// escaping '%' so titles are never interpreted as template fields.
func outputTemplate(outputPath string) string {
	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	return strings.ReplaceAll(base, "%", "%%") + ".%(ext)s"
}

func videoURL(videoID domain.VideoID) string {
	return fmt.Sprintf(videoURLTemplate, videoID)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
