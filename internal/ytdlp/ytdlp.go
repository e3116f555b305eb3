package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/nDmitry/podfeed/internal/app"
	"github.com/nDmitry/podfeed/internal/entity"
)

const (
	// MetadataFile and MediaURLsFile are the names Fetch gives to the two dumps inside a workdir.
	MetadataFile  = "channel.json"
	MediaURLsFile = "media_urls.csv"

	mediaURLTemplate = "%(id)s,%(url)s"
	stderrTailSize   = 2048
)

// ExitError reports a downloader run that exited non-zero.
type ExitError struct {
	Code int
	// Stderr holds the tail of the process's error output.
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("exit status %d", e.Code)
	}

	return fmt.Sprintf("exit status %d: %s", e.Code, e.Stderr)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, stdout io.Writer) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps the yt-dlp invocations that produce the builder's two inputs.
type Client struct {
	binary      string
	timeout     time.Duration
	audioFormat string
	exec        Executor
}

// New constructs a yt-dlp client. A zero timeout disables the per-invocation deadline.
func New(cfg entity.YtdlpConfig, opts ...Option) (*Client, error) {
	binary := strings.TrimSpace(cfg.Path)

	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}

	audioFormat := cfg.AudioFormat

	if audioFormat == "" {
		audioFormat = "bestaudio"
	}

	client := &Client{
		binary:      binary,
		timeout:     cfg.Timeout,
		audioFormat: audioFormat,
		exec:        commandExecutor{},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// DumpChannel writes the channel metadata document for channelURL to dst.
func (c *Client) DumpChannel(ctx context.Context, channelURL, dst string) error {
	return c.dump(ctx, dst, "--dump-single-json", "--ignore-errors", channelURL)
}

// DumpMediaURLs writes one "id,url" line per channel entry to dst.
func (c *Client) DumpMediaURLs(ctx context.Context, channelURL, dst string) error {
	return c.dump(ctx, dst, "-f", c.audioFormat, "--print", mediaURLTemplate, "--ignore-errors", channelURL)
}

// Fetch runs both dumps into workdir and returns the paths of the metadata document
// and the media URL table.
func (c *Client) Fetch(ctx context.Context, channelURL, workdir string) (string, string, error) {
	if strings.TrimSpace(channelURL) == "" {
		return "", "", errors.New("channel url required")
	}

	if err := os.MkdirAll(workdir, 0o755); err != nil {
		return "", "", &entity.IOError{Op: "create workdir", Err: err}
	}

	metadataPath := filepath.Join(workdir, MetadataFile)
	mediaURLsPath := filepath.Join(workdir, MediaURLsFile)

	if err := c.DumpChannel(ctx, channelURL, metadataPath); err != nil {
		return "", "", fmt.Errorf("could not dump channel metadata: %w", err)
	}

	if err := c.DumpMediaURLs(ctx, channelURL, mediaURLsPath); err != nil {
		return "", "", fmt.Errorf("could not dump media urls: %w", err)
	}

	return metadataPath, mediaURLsPath, nil
}

func (c *Client) dump(ctx context.Context, dst string, args ...string) error {
	runCtx := ctx

	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	f, err := os.Create(dst)

	if err != nil {
		return &entity.IOError{Op: "create " + filepath.Base(dst), Err: err}
	}

	start := time.Now()

	app.Logger().Debug("Running yt-dlp", "binary", c.binary, "args", args)

	out := &countingWriter{w: f}
	runErr := c.exec.Run(runCtx, c.binary, args, out)
	closeErr := f.Close()

	if runErr != nil {
		var exitErr *ExitError

		// yt-dlp exits non-zero when any single video fails; what it printed for the
		// rest of the channel is still usable.
		if !errors.As(runErr, &exitErr) || out.n == 0 || closeErr != nil {
			_ = os.Remove(dst)
			return fmt.Errorf("could not run %s: %w", c.binary, runErr)
		}

		app.Logger().Warn("yt-dlp reported errors, keeping partial output",
			"dst", dst,
			"bytes", out.n,
			"exit_code", exitErr.Code,
			"stderr", exitErr.Stderr,
		)

		return nil
	}

	if closeErr != nil {
		_ = os.Remove(dst)
		return &entity.IOError{Op: "close " + filepath.Base(dst), Err: closeErr}
	}

	app.Logger().Info("yt-dlp finished", "dst", dst, "bytes", out.n, "duration", time.Since(start).Round(time.Millisecond))

	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, stdout io.Writer) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec

	var stderr bytes.Buffer

	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		var exitErr *exec.ExitError

		if errors.As(err, &exitErr) {
			return &ExitError{Code: exitErr.ExitCode(), Stderr: stderrTail(stderr.Bytes())}
		}

		return err
	}

	return nil
}

func stderrTail(b []byte) string {
	b = bytes.TrimSpace(b)

	if len(b) > stderrTailSize {
		b = b[len(b)-stderrTailSize:]
	}

	return string(b)
}
