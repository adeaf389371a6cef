package library

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// hashLen is the number of hex characters kept from the content hash.
// Matches the backend's upload renaming, so files round-trip between the
// local library and the server without duplicate copies.
const hashLen = 12

// NameWithHash returns the filename suffixed with a short content hash:
// "logo.png" + content -> "logo-3b4f9c2d1a0e.png".
func NameWithHash(name string, content []byte) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	sum := sha256.Sum256(content)
	return fmt.Sprintf("%s-%s%s", base, hex.EncodeToString(sum[:])[:hashLen], ext)
}

var hashSuffix = regexp.MustCompile(`-[0-9a-f]{12}$`)

// StripHashSuffix removes a trailing content-hash suffix, if present.
func StripHashSuffix(base string) string {
	return hashSuffix.ReplaceAllString(base, "")
}

// HashedName reports whether the (extension-free) base name already carries
// a content-hash suffix.
func HashedName(base string) bool {
	return hashSuffix.MatchString(base)
}

// Import copies a file into the library directory under its hashed name and
// returns the stored filename. Importing identical content twice is a no-op
// returning the same name.
func (l *Library) Import(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	name := NameWithHash(filepath.Base(path), content)
	dst := filepath.Join(l.dir, name)
	if _, err := os.Stat(dst); err == nil {
		return name, nil
	}
	tmp, err := os.CreateTemp(l.dir, ".import-*")
	if err != nil {
		return "", fmt.Errorf("staging import: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, bytes.NewReader(content)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", dst, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("placing %s: %w", dst, err)
	}
	return name, l.Rescan()
}
