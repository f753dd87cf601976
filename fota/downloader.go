package fota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"digitalpetro.in/bpcl/fwdl/at"
)

// Default protocol windows, sized for the modem family's server-side
// round trips: the GET result can take the better part of a minute on
// a congested cell, and the read window must cover a worst-case full
// transfer, not just connection setup.
const (
	DefaultURLWindow     = 5 * time.Second
	DefaultAckWindow     = 5 * time.Second
	DefaultGetWindow     = 80 * time.Second
	DefaultConnectWindow = 10 * time.Second
	DefaultInactivity    = 60 * time.Second

	// DefaultChunkSize is the per-iteration read cap during streaming.
	DefaultChunkSize = 4096
	// DefaultProgressEvery is the byte cadence of progress records.
	DefaultProgressEvery = 51200

	// Modem-side windows in seconds, carried inside the AT commands.
	getWindowSeconds  = 80
	readWindowSeconds = 300
)

// Downloader drives one HTTP-over-AT transfer: configure the modem's
// HTTP client, send the URL, issue the GET, parse the declared size,
// open the read stream and hand control to the streaming loop. The
// steps are strictly sequential with no backward transitions, and no
// partial artifact ever survives a failure.
type Downloader struct {
	Session Session
	Storage Storage
	Logger  *slog.Logger

	// BaseURL is the fixed target; a cache-busting ?t=<uptime-millis>
	// query parameter is appended per run.
	BaseURL string
	// ArtifactName is the file the payload is stored under.
	ArtifactName string

	// Uptime supplies the elapsed-boot-time value for the cache
	// buster. Nil means time since the Downloader was first run.
	Uptime func() time.Duration

	ChunkSize     int
	ProgressEvery int
	URLWindow     time.Duration
	AckWindow     time.Duration
	GetWindow     time.Duration
	ConnectWindow time.Duration
	Inactivity    time.Duration
	PollInterval  time.Duration

	started time.Time
}

// Result reports a completed, verified transfer.
type Result struct {
	URL    string
	Size   int64
	Digest string
}

func (d *Downloader) setDefaults() {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.ChunkSize == 0 {
		d.ChunkSize = DefaultChunkSize
	}
	if d.ProgressEvery == 0 {
		d.ProgressEvery = DefaultProgressEvery
	}
	if d.URLWindow == 0 {
		d.URLWindow = DefaultURLWindow
	}
	if d.AckWindow == 0 {
		d.AckWindow = DefaultAckWindow
	}
	if d.GetWindow == 0 {
		d.GetWindow = DefaultGetWindow
	}
	if d.ConnectWindow == 0 {
		d.ConnectWindow = DefaultConnectWindow
	}
	if d.Inactivity == 0 {
		d.Inactivity = DefaultInactivity
	}
	if d.PollInterval == 0 {
		d.PollInterval = time.Millisecond
	}
	if d.started.IsZero() {
		d.started = time.Now()
	}
}

// buildURL appends the cache-busting query parameter so intermediate
// caches never serve a stale image.
func (d *Downloader) buildURL() string {
	var uptime time.Duration
	if d.Uptime != nil {
		uptime = d.Uptime()
	} else {
		uptime = time.Since(d.started)
	}
	sep := "?"
	if strings.Contains(d.BaseURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%st=%d", d.BaseURL, sep, uptime.Milliseconds())
}

// Run executes one download attempt and verifies the stored artifact.
// Any error means no artifact is left behind.
func (d *Downloader) Run(ctx context.Context) (*Result, error) {
	d.setDefaults()

	url := d.buildURL()
	d.Logger.Info("starting download", "url", url)

	d.prepare(ctx)

	if err := d.sendURL(ctx, url); err != nil {
		return nil, err
	}

	size, err := d.issueGet(ctx)
	if err != nil {
		return nil, err
	}
	d.Logger.Info("target file size known", "bytes", size)

	// Storage is opened only now; every failure from here on must
	// close the handle and delete the artifact.
	out, err := d.Storage.Create(d.ArtifactName)
	if err != nil {
		return nil, fmt.Errorf("create artifact %q: %w", d.ArtifactName, err)
	}

	overrunsBefore := d.Session.Overruns()
	if err := d.connectStream(ctx); err != nil {
		out.Close()
		d.Storage.Remove(d.ArtifactName)
		return nil, err
	}

	written, streamErr := d.stream(ctx, out, size)
	if written != size {
		d.Logger.Error("download incomplete", "written", written, "declared", size, "error", streamErr)
		d.Storage.Remove(d.ArtifactName)
		if streamErr == nil {
			streamErr = ErrIncomplete
		}
		return nil, fmt.Errorf("wrote %d of %d bytes: %w", written, size, streamErr)
	}

	// A byte-exact count is not enough: if the inbound buffer dropped
	// anything mid-transfer, the artifact has holes back-filled by
	// whatever arrived next.
	if dropped := d.Session.Overruns() - overrunsBefore; dropped > 0 {
		d.Logger.Error("inbound bytes dropped during transfer", "dropped", dropped)
		d.Storage.Remove(d.ArtifactName)
		return nil, fmt.Errorf("%d bytes dropped mid-transfer: %w", dropped, ErrOverrun)
	}
	d.Logger.Info("download complete", "written", written, "declared", size)

	digest, err := Checksum(d.Storage, d.ArtifactName)
	if err != nil {
		return nil, err
	}
	d.Logger.Info("artifact verified", "digest", digest)

	return &Result{URL: url, Size: size, Digest: digest}, nil
}

// prepare resets the modem's HTTP client. Each command is best effort
// with a short window; a modem with no prior session answers ERROR to
// the stop and that is fine.
func (d *Downloader) prepare(ctx context.Context) {
	d.Session.Exec(ctx, at.CmdEchoOff, at.OK, time.Second)
	d.Session.Exec(ctx, at.CmdHTTPStop, at.OK, time.Second)
	d.Session.Exec(ctx, at.CmdHTTPNoHeaders, at.OK, time.Second)
}

// sendURL announces the URL's byte length, waits for the modem to open
// its input window, writes the raw URL bytes and drains the
// acknowledgement.
func (d *Downloader) sendURL(ctx context.Context, url string) error {
	if _, err := d.Session.Exec(ctx, at.CmdHTTPURL(len(url)), at.Connect, d.URLWindow); err != nil {
		return fmt.Errorf("%w: %w", ErrNoURLWindow, err)
	}
	if err := d.Session.WriteRaw([]byte(url)); err != nil {
		return fmt.Errorf("write URL: %w", err)
	}
	d.Session.CollectFor(ctx, d.AckWindow)
	return nil
}

// issueGet sends the GET command and polls inbound lines for the
// result. A success line carries the declared size as its trailing
// field; any other +QHTTPGET line is a hard HTTP failure. Lines
// without the prefix are discarded without extending the deadline.
func (d *Downloader) issueGet(ctx context.Context) (int64, error) {
	if err := d.Session.WriteRaw([]byte(at.CmdHTTPGet(getWindowSeconds) + at.CRLF)); err != nil {
		return 0, fmt.Errorf("issue GET: %w", err)
	}

	deadline := at.DeadlineAfter(time.Now(), d.GetWindow)
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		remaining := deadline.Remaining(time.Now())
		if remaining == 0 {
			return 0, fmt.Errorf("no GET result within %s", d.GetWindow)
		}

		line, err := d.Session.ReadLine(ctx, remaining)
		if err != nil {
			return 0, fmt.Errorf("await GET result: %w", err)
		}

		size, err := at.ParseGetResult(line)
		if errors.Is(err, at.ErrNotGetResult) {
			continue
		}
		if err != nil {
			return 0, err
		}
		return size, nil
	}
}

// connectStream issues the read command and waits for the connect
// signal that precedes the binary payload.
func (d *Downloader) connectStream(ctx context.Context) error {
	if err := d.Session.WriteRaw([]byte(at.CmdHTTPRead(readWindowSeconds) + at.CRLF)); err != nil {
		return fmt.Errorf("issue read: %w", err)
	}

	deadline := at.DeadlineAfter(time.Now(), d.ConnectWindow)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		remaining := deadline.Remaining(time.Now())
		if remaining == 0 {
			return ErrNoConnect
		}
		line, err := d.Session.ReadLine(ctx, remaining)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNoConnect, err)
		}
		if strings.Contains(line, at.Connect) {
			return nil
		}
	}
}
