package contentcache

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/tristendillon/flatten/core/logger"
)

// Entry tracks the content state of one file.
type Entry struct {
	FilePath    string    `json:"file_path"`
	ContentHash string    `json:"content_hash"`
	ModTime     time.Time `json:"mod_time"`
	Size        int64     `json:"size"`
}

// Stats reports cache activity.
type Stats struct {
	TotalFiles  int       `json:"total_files"`
	CacheHits   int64     `json:"cache_hits"`
	CacheMisses int64     `json:"cache_misses"`
	HitRate     float64   `json:"hit_rate"`
	LastUpdate  time.Time `json:"last_update"`
}

// ContentCache remembers the content hash of every file a run inlined so a
// filesystem event can be checked against real content changes.
type ContentCache struct {
	entries map[string]*Entry
	mutex   sync.RWMutex
	stats   struct {
		hits   int64
		misses int64
	}
}

// New creates an empty content cache
func New() *ContentCache {
	return &ContentCache{
		entries: make(map[string]*Entry),
		mutex:   sync.RWMutex{},
	}
}

// Reset replaces the tracked set with files, hashing each one.
func (cc *ContentCache) Reset(files []string) error {
	entries := make(map[string]*Entry, len(files))
	for _, filePath := range files {
		stat, err := os.Stat(filePath)
		if err != nil {
			return fmt.Errorf("failed to stat file %s: %w", filePath, err)
		}
		entry, err := createEntry(filePath, stat)
		if err != nil {
			return err
		}
		entries[filePath] = entry
	}

	cc.mutex.Lock()
	defer cc.mutex.Unlock()
	cc.entries = entries
	logger.Debug("ContentCache: Tracking %d files", len(entries))
	return nil
}

// Tracked reports whether filePath is part of the current set.
func (cc *ContentCache) Tracked(filePath string) bool {
	cc.mutex.RLock()
	defer cc.mutex.RUnlock()
	_, ok := cc.entries[filePath]
	return ok
}

// UpdateContent checks whether a tracked file changed and refreshes its
// entry. Untracked files report no change. A deleted file is a change.
func (cc *ContentCache) UpdateContent(filePath string) (bool, error) {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()

	existing, exists := cc.entries[filePath]
	if !exists {
		return false, nil
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("ContentCache: File deleted: %s", filePath)
			delete(cc.entries, filePath)
			cc.stats.misses++
			return true, nil
		}
		return false, fmt.Errorf("failed to stat file %s: %w", filePath, err)
	}

	// Quick check: if size and modtime haven't changed, assume content is same
	if stat.Size() == existing.Size && stat.ModTime().Equal(existing.ModTime) {
		cc.stats.hits++
		return false, nil
	}

	newHash, err := calculateFileHash(filePath)
	if err != nil {
		return false, fmt.Errorf("failed to calculate hash for %s: %w", filePath, err)
	}

	if newHash != existing.ContentHash {
		logger.Debug("ContentCache: Content changed for %s (hash: %s -> %s)", filePath, existing.ContentHash[:8], newHash[:8])
		cc.entries[filePath] = &Entry{
			FilePath:    filePath,
			ContentHash: newHash,
			ModTime:     stat.ModTime(),
			Size:        stat.Size(),
		}
		cc.stats.misses++
		return true, nil
	}

	// Content same, but modtime/size changed (editor save, etc.)
	logger.Debug("ContentCache: Metadata changed but content same for %s", filePath)
	existing.ModTime = stat.ModTime()
	existing.Size = stat.Size()
	cc.stats.hits++
	return false, nil
}

// GetStats returns cache statistics
func (cc *ContentCache) GetStats() *Stats {
	cc.mutex.RLock()
	defer cc.mutex.RUnlock()

	total := cc.stats.hits + cc.stats.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(cc.stats.hits) / float64(total) * 100
	}

	return &Stats{
		TotalFiles:  len(cc.entries),
		CacheHits:   cc.stats.hits,
		CacheMisses: cc.stats.misses,
		HitRate:     hitRate,
		LastUpdate:  time.Now(),
	}
}

func createEntry(filePath string, stat os.FileInfo) (*Entry, error) {
	hash, err := calculateFileHash(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash for %s: %w", filePath, err)
	}

	return &Entry{
		FilePath:    filePath,
		ContentHash: hash,
		ModTime:     stat.ModTime(),
		Size:        stat.Size(),
	}, nil
}

// calculateFileHash computes MD5 hash of file content
func calculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
