package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	goupdate "github.com/doitdistributed/go-update"
	"github.com/mitchellh/go-ps"

	"github.com/ollielynas/reanimator-site/internal/version"
)

// DefaultFileMode is the mode of downloaded installers.
const DefaultFileMode os.FileMode = 0o644

var (
	errBadHTTPStatus = errors.New("unexpected http status")
	errTargetInUse   = errors.New("target is used by a running process")
)

// downloader streams a release asset into place.
type downloader struct {
	httpClient *http.Client
	// processes lists running processes; replaced in tests.
	processes func() ([]ps.Process, error)
}

// newDownloader bounds the wait for response headers by timeout.
// The body streams for as long as ctx allows.
func newDownloader(timeout time.Duration) *downloader {
	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // Always *http.Transport.
	transport.ResponseHeaderTimeout = timeout

	return &downloader{
		httpClient: &http.Client{Transport: transport},
		processes:  ps.Processes,
	}
}

// countingReader counts bytes passing through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)

	return n, err
}

// Download fetches url and atomically replaces target with its body.
func (d *downloader) Download(ctx context.Context, url, target string) (int64, error) {
	target = filepath.Clean(target)

	if err := d.ensureNotRunning(target); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, err
	}

	req.Header.Set("User-Agent", version.UserAgent("release-fetch"))

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%s, %s: %w", url, resp.Status, errBadHTTPStatus)
	}

	// go-update swaps files in place, so the target has to exist first.
	// A placeholder created here is removed again if the download fails.
	placeholder := false
	if _, err = os.Stat(target); errors.Is(err, os.ErrNotExist) {
		if err = os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return 0, err
		}

		f, createErr := os.OpenFile(target, os.O_CREATE|os.O_WRONLY, DefaultFileMode)
		if createErr != nil {
			return 0, createErr
		}

		_ = f.Close()
		placeholder = true
	}

	body := &countingReader{r: resp.Body}

	options := goupdate.Options{
		TargetPath: target,
		TargetMode: DefaultFileMode,
	}

	if err = goupdate.Apply(body, options); err != nil {
		if placeholder {
			_ = os.Remove(target)
		}

		if rollbackErr := goupdate.RollbackError(err); rollbackErr != nil {
			return 0, fmt.Errorf("apply download: %w (rollback failed: %w)", err, rollbackErr)
		}

		return 0, fmt.Errorf("apply download: %w", err)
	}

	return body.n, nil
}

// ensureNotRunning refuses to replace a file whose name matches a running executable.
func (d *downloader) ensureNotRunning(target string) error {
	processList, err := d.processes()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	name := filepath.Base(target)
	self := os.Getpid()

	for _, process := range processList {
		if process.Pid() == self {
			continue
		}

		if strings.EqualFold(process.Executable(), name) {
			return fmt.Errorf("%s (pid %d): %w", name, process.Pid(), errTargetInUse)
		}
	}

	return nil
}
