package output

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/nDmitry/podfeed/internal/app"
	"github.com/nDmitry/podfeed/internal/cache"
	"github.com/nDmitry/podfeed/internal/entity"
)

const (
	redisScheme    = "redis"
	redisTLSScheme = "rediss"
	lockRetryDelay = 50 * time.Millisecond
)

// Options carries what a target needs besides the content itself.
type Options struct {
	// ChannelID and Format build the default Redis key.
	ChannelID string
	Format    string
	// TTL applies to Redis targets, zero means no expiry.
	TTL time.Duration
	// Stdout defaults to os.Stdout.
	Stdout io.Writer
	// OpenCache defaults to cache.NewRedisClient.
	OpenCache func(ctx context.Context, rawURL string) (cache.Cache, error)
}

// Write delivers the generated feed to target: "-" for stdout, a redis:// URL or a file path.
// Every failure matches entity.ErrIO.
func Write(ctx context.Context, target string, content []byte, opts Options) error {
	switch {
	case target == "":
		return &entity.IOError{Op: "write feed", Err: fmt.Errorf("empty output target")}
	case target == entity.StdoutTarget:
		return writeStdout(content, opts.Stdout)
	case isRedisURL(target):
		return writeRedis(ctx, target, content, opts)
	default:
		return writeFile(ctx, target, content)
	}
}

// DefaultKey is the Redis key used when the target URL has no key parameter.
func DefaultKey(channelID, format string) string {
	return fmt.Sprintf("podfeed:feed:%s:%s", channelID, format)
}

func isRedisURL(target string) bool {
	scheme, _, ok := strings.Cut(target, "://")
	return ok && (scheme == redisScheme || scheme == redisTLSScheme)
}

func writeStdout(content []byte, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	if _, err := w.Write(content); err != nil {
		return &entity.IOError{Op: "write feed to stdout", Err: err}
	}

	return nil
}

func writeRedis(ctx context.Context, target string, content []byte, opts Options) error {
	u, err := url.Parse(target)

	if err != nil {
		return &entity.IOError{Op: "parse redis target", Err: err}
	}

	q := u.Query()
	key := q.Get("key")
	q.Del("key")
	u.RawQuery = q.Encode()

	if key == "" {
		key = DefaultKey(opts.ChannelID, opts.Format)
	}

	open := opts.OpenCache

	if open == nil {
		open = func(ctx context.Context, rawURL string) (cache.Cache, error) {
			return cache.NewRedisClient(ctx, rawURL)
		}
	}

	c, err := open(ctx, u.String())

	if err != nil {
		return &entity.IOError{Op: "open redis target", Err: err}
	}

	defer c.Close()

	if err := c.Set(ctx, key, content, opts.TTL); err != nil {
		return &entity.IOError{Op: "store feed in redis", Err: err}
	}

	app.Logger().Info("Stored feed in Redis", "key", key, "addr", u.Host, "ttl", opts.TTL, "bytes", len(content))

	return nil
}

// writeFile replaces path with content without ever exposing a partially written file.
// Concurrent writers to the same path are serialised through <path>.lock.
func writeFile(ctx context.Context, path string, content []byte) error {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &entity.IOError{Op: "create output directory", Err: err}
	}

	lock := flock.New(path + ".lock")

	locked, err := lock.TryLockContext(ctx, lockRetryDelay)

	if err != nil {
		return &entity.IOError{Op: "lock output file", Err: err}
	}

	if !locked {
		return &entity.IOError{Op: "lock output file", Err: fmt.Errorf("%s is locked", path)}
	}

	defer func() {
		if err := lock.Unlock(); err != nil {
			app.Logger().Warn("Could not release output lock", "path", lock.Path(), "error", err)
		}
	}()

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")

	if err != nil {
		return &entity.IOError{Op: "create temp file", Err: err}
	}

	tmpName := tmp.Name()

	fail := func(op string, err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &entity.IOError{Op: op, Err: err}
	}

	if _, err := tmp.Write(content); err != nil {
		return fail("write temp file", err)
	}

	if err := tmp.Chmod(0o644); err != nil {
		return fail("chmod temp file", err)
	}

	if err := tmp.Sync(); err != nil {
		return fail("sync temp file", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &entity.IOError{Op: "close temp file", Err: err}
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return &entity.IOError{Op: "rename temp file", Err: err}
	}

	app.Logger().Info("Wrote feed file", "path", path, "bytes", len(content))

	return nil
}
