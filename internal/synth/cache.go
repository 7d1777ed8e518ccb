package synth

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
)

// Clips smaller than this are treated as truncated provider responses and
// never served from cache.
const minAudioBytes = 1024

// Cache stores synthesized clips on disk keyed by text+voice, so repeated
// phrases (welcomes, fallback apologies) skip the provider round-trip.
type Cache struct {
	dir       string
	urlPrefix string
}

func NewCache(dir, urlPrefix string) *Cache {
	if dir == "" {
		dir = filepath.Join("media", "tts")
	}
	if urlPrefix == "" {
		urlPrefix = "/media/tts"
	}
	return &Cache{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (c *Cache) Dir() string { return c.dir }

// Key derives the short content hash used for clip filenames.
func (c *Cache) Key(text, voiceID string) string {
	sum := md5.Sum([]byte(text + "_" + voiceID))
	return hex.EncodeToString(sum[:])[:10]
}

func (c *Cache) fileName(key string) string { return "tts_" + key + ".mp3" }

// Lookup returns the public URL for a cached clip, or "" when absent or too
// small to be a real clip.
func (c *Cache) Lookup(key string) string {
	info, err := os.Stat(filepath.Join(c.dir, c.fileName(key)))
	if err != nil || info.Size() < minAudioBytes {
		return ""
	}
	return c.urlPrefix + "/" + c.fileName(key)
}

// Store writes the clip to disk and returns its public URL.
func (c *Cache) Store(key string, audio []byte) (string, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(c.dir, c.fileName(key)), audio, 0o644); err != nil {
		return "", err
	}
	return c.urlPrefix + "/" + c.fileName(key), nil
}
