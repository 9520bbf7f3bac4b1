// Package checksum hashes artifacts and column lists.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// SHA256Hex returns the hex SHA-256 of the concatenated parts.
func SHA256Hex(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// FileSHA256 streams a file through SHA-256.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Fingerprint returns a short xxhash64 digest of an ordered list of names.
// Names are joined with a separator that cannot appear in a column name.
func Fingerprint(names []string) string {
	d := xxhash.New()
	_, _ = d.WriteString(strings.Join(names, "\x1f"))
	return hex.EncodeToString(d.Sum(nil))
}
