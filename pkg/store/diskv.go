package store

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/jobcal/pkg/posting"
)

const (
	snapshotSchema = 1
	snapshotBucket = "snapshots"
)

// Snapshot is the on-disk copy of one user's last successful load.
type Snapshot struct {
	Schema  int            `json:"schema"`
	UserID  string         `json:"userId"`
	SavedAt time.Time      `json:"savedAt"`
	Views   []posting.View `json:"views"`
}

// Snapshots persists per-user view snapshots with diskv. It is a read-only
// convenience copy; the service stays the source of truth.
type Snapshots struct {
	d        *diskv.Diskv
	basePath string
}

// Open creates a snapshot store using cfg's path, loading the config when cfg
// is nil.
func Open(cfg *Config) (*Snapshots, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: snapshot path unknown")
	}
	return &Snapshots{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		TempDir:           filepath.Join(basePath, ".tmp"),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		// Another process may rewrite a snapshot; always read from disk.
		CacheSizeMax: 0,
	}), basePath: basePath}, nil
}

// BasePath is the root directory of the store.
func (s *Snapshots) BasePath() string {
	return s.basePath
}

// Dir is the directory holding every user's snapshot file.
func (s *Snapshots) Dir() string {
	return filepath.Join(s.basePath, snapshotBucket)
}

// File is the path of userID's snapshot.
func (s *Snapshots) File(userID string) string {
	pk := keyToPathTransform(toKey(userID))
	return filepath.Join(append([]string{s.basePath}, append(pk.Path, pk.FileName)...)...)
}

// SaveViews writes views as userID's snapshot.
func (s *Snapshots) SaveViews(userID string, views []posting.View, at time.Time) error {
	if views == nil {
		views = []posting.View{}
	}
	b, err := json.Marshal(Snapshot{
		Schema:  snapshotSchema,
		UserID:  userID,
		SavedAt: at.UTC(),
		Views:   views,
	})
	if err != nil {
		return fmt.Errorf("store: encode snapshot: %w", err)
	}
	if err := s.d.Write(toKey(userID), b); err != nil {
		return fmt.Errorf("store: write snapshot: %w", err)
	}
	return nil
}

// LoadViews reads userID's snapshot. A missing snapshot yields nil views and
// no error.
func (s *Snapshots) LoadViews(userID string) ([]posting.View, time.Time, error) {
	snap, err := s.Load(userID)
	if err != nil || snap == nil {
		return nil, time.Time{}, err
	}
	return snap.Views, snap.SavedAt, nil
}

// Load returns the full snapshot record for userID, nil when absent.
func (s *Snapshots) Load(userID string) (*Snapshot, error) {
	key := toKey(userID)
	if !s.d.Has(key) {
		return nil, nil
	}
	b, err := s.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("store: read snapshot: %w", err)
	}
	snap := &Snapshot{}
	if err := json.Unmarshal(b, snap); err != nil {
		return nil, fmt.Errorf("store: decode snapshot: %w", err)
	}
	if snap.Schema > snapshotSchema {
		return nil, fmt.Errorf("store: snapshot schema %d is newer than %d", snap.Schema, snapshotSchema)
	}
	if snap.Views == nil {
		snap.Views = []posting.View{}
	}
	return snap, nil
}

// Clear removes userID's snapshot.
func (s *Snapshots) Clear(userID string) error {
	key := toKey(userID)
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("store: erase snapshot: %w", err)
	}
	return nil
}

// Users lists every user with a saved snapshot.
func (s *Snapshots) Users() []string {
	var users []string
	for key := range s.d.Keys(nil) {
		if user, ok := fromKey(key); ok {
			users = append(users, user)
		}
	}
	sort.Strings(users)
	return users
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `snapshots-<hex user>`. Hex keeps arbitrary user ids safe as
// file names and free of the path separator "-".
func toKey(userID string) string {
	return fmt.Sprintf("%s-%s", snapshotBucket, hex.EncodeToString([]byte(userID)))
}

func fromKey(key string) (string, bool) {
	prefix := snapshotBucket + "-"
	if !strings.HasPrefix(key, prefix) {
		return "", false
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(key, prefix))
	if err != nil {
		return "", false
	}
	return string(raw), true
}
