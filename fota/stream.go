package fota

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"digitalpetro.in/bpcl/fwdl/at"
)

// stream copies exactly size bytes from the session to the output
// handle. Each iteration reads at most min(chunk, available,
// remaining) bytes, so the loop never consumes the protocol bytes the
// modem sends immediately after the payload. The handle is closed on
// every exit path; the caller decides the artifact's fate from the
// returned count.
func (d *Downloader) stream(ctx context.Context, out io.WriteCloser, size int64) (written int64, err error) {
	defer out.Close()

	buf := make([]byte, d.ChunkSize)
	stall := at.DeadlineAfter(time.Now(), d.Inactivity)
	nextProgress := int64(d.ProgressEvery)

	for written < size {
		// Let the platform's housekeeping run even while we spin on a
		// quiet line.
		runtime.Gosched()

		if err := ctx.Err(); err != nil {
			return written, err
		}

		if avail := d.Session.Available(); avail > 0 {
			toRead := int64(d.ChunkSize)
			if int64(avail) < toRead {
				toRead = int64(avail)
			}
			if remaining := size - written; remaining < toRead {
				toRead = remaining
			}

			n, readErr := d.Session.Read(buf[:toRead])
			if n > 0 {
				if _, werr := out.Write(buf[:n]); werr != nil {
					return written, fmt.Errorf("write artifact: %w", werr)
				}
				written += int64(n)
				stall = at.DeadlineAfter(time.Now(), d.Inactivity)
				if written >= nextProgress {
					d.progress(written, size)
					for nextProgress <= written {
						nextProgress += int64(d.ProgressEvery)
					}
				}
			}
			if readErr != nil {
				return written, fmt.Errorf("read stream: %w", readErr)
			}
			continue
		}

		if stall.Expired(time.Now()) {
			return written, ErrStalled
		}
		time.Sleep(d.PollInterval)
	}

	return written, nil
}

func (d *Downloader) progress(current, total int64) {
	d.Logger.Info("download progress",
		"percent", current*100/total,
		"bytes", current,
		"total", total,
	)
}
