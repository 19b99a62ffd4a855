package localstorage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofrs/flock"
	"golang.org/x/text/unicode/norm"

	"audioharvest/internal/core/domain"
	"audioharvest/internal/core/ports"
)

const (
	dirPerm             = 0o755
	locksDirName        = ".locks"
	lockRetryDelay      = 200 * time.Millisecond
	maxTitleBytes       = 180
	untitledPlaceholder = "untitled"
)

// fileNameReplacer replaces filesystem-unsafe characters in titles.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	"\n", " ",
	"\r", " ",
	"\t", " ",
	"\x00", "",
)

// LocalStorage implements ports.Storage for the local filesystem.
// Layout: <BaseDir>/<language>/<title>-<videoId>.<ext>
type LocalStorage struct {
	BaseDir string
	Ext     string
}

// NewLocalStorage creates a new LocalStorage instance. ext is the audio file
// extension without the dot.
func NewLocalStorage(baseDir, ext string) *LocalStorage {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = "mp3"
	}
	return &LocalStorage{BaseDir: baseDir, Ext: ext}
}

// LanguageDir returns the output directory for a language.
func (s *LocalStorage) LanguageDir(language string) string {
	return filepath.Join(s.BaseDir, languageDirName(language))
}

// EnsureLanguageDir creates the language directory. MkdirAll tolerates a
// concurrent creator, so jobs sharing a language never fail here.
func (s *LocalStorage) EnsureLanguageDir(ctx context.Context, language string) (string, error) {
	path := s.LanguageDir(language)
	if err := os.MkdirAll(path, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create language directory %s: %w", path, err)
	}
	return path, nil
}

// AudioPath returns the output file path for a video.
func (s *LocalStorage) AudioPath(language, title string, videoID domain.VideoID) string {
	return filepath.Join(s.LanguageDir(language), AudioFileName(title, videoID, s.Ext))
}

// Exists reports whether a regular file is present at path.
func (s *LocalStorage) Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// LockVideo takes an exclusive file lock for one video of one language. It
// blocks until the lock is held or ctx is done.
func (s *LocalStorage) LockVideo(ctx context.Context, language string, videoID domain.VideoID) (ports.Unlocker, error) {
	dir := filepath.Join(s.LanguageDir(language), locksDirName)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create lock directory %s: %w", dir, err)
	}

	lock := flock.New(filepath.Join(dir, sanitizeTitle(string(videoID))+".lock"))
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to lock video %s: %w", videoID, err)
	}
	if !ok {
		return nil, fmt.Errorf("failed to lock video %s: %w", videoID, ctx.Err())
	}
	return lock, nil
}

// AudioFileName builds "<title>-<videoId>.<ext>" with a filesystem-safe,
// NFC-normalized title.
func AudioFileName(title string, videoID domain.VideoID, ext string) string {
	clean := sanitizeTitle(title)
	if clean == "" {
		clean = untitledPlaceholder
	}
	return fmt.Sprintf("%s-%s.%s", clean, videoID, ext)
}

func sanitizeTitle(title string) string {
	title = norm.NFC.String(strings.TrimSpace(title))
	title = strings.TrimSpace(fileNameReplacer.Replace(title))
	title = strings.Trim(title, ".")
	if len(title) > maxTitleBytes {
		cut := maxTitleBytes
		for cut > 0 && !utf8.RuneStart(title[cut]) {
			cut--
		}
		title = strings.TrimSpace(title[:cut])
	}
	return title
}

func languageDirName(language string) string {
	name := sanitizeTitle(language)
	if name == "" {
		return domain.DefaultLanguage
	}
	return name
}
