package fota

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
)

// Checksum re-reads the stored artifact and streams it through the
// digest once, in file order. It never mutates the artifact; a file
// that cannot be opened is reported as an error, not a crash.
func Checksum(storage Storage, name string) (string, error) {
	f, err := storage.Open(name)
	if err != nil {
		return "", fmt.Errorf("open artifact for verification: %w", err)
	}
	defer f.Close()

	h := md5.New()
	buf := make([]byte, DefaultChunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("read artifact: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
