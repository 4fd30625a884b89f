package normalize

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// FileHash computes the hex-encoded SHA-256 of the file at path.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for hash: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// ReportHash computes a stable SHA-256 over a report's study ID and body,
// separated by a null byte. Used to detect duplicate study IDs with diverging
// bodies in one source.
func ReportHash(studyID, body string) []byte {
	h := sha256.New()
	h.Write([]byte(studyID))
	h.Write([]byte{0})
	h.Write([]byte(body))
	return h.Sum(nil)
}
