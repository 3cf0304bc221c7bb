package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sweetpotato0/slidecraft/errors"
	"github.com/sweetpotato0/slidecraft/pkg/logging"
)

// DirName is the session directory created under the workspace.
const DirName = ".slide-sessions"

// FileStore keeps each session as a JSON file under <workspace>/.slide-sessions.
type FileStore struct {
	dir    string
	mu     sync.Mutex
	logger *slog.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates the session directory if needed.
func NewFileStore(workspaceDir string) (*FileStore, error) {
	if workspaceDir == "" {
		workspaceDir = "."
	}
	dir := filepath.Join(workspaceDir, DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sessions dir: %w", err)
	}
	return &FileStore{
		dir:    dir,
		logger: logging.WithComponent("session.filestore"),
	}, nil
}

// path validates the ID before building a file path under dir.
func (st *FileStore) path(id string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	return filepath.Join(st.dir, id+".json"), nil
}

func (st *FileStore) Save(_ context.Context, s *Session) error {
	path, err := st.path(s.ID)
	if err != nil {
		return err
	}
	s.Touch()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session %s: %w", s.ID, err)
	}
	st.logger.Debug("session saved", "id", s.ID, "slides", len(s.Slides))
	return nil
}

func (st *FileStore) Load(_ context.Context, id string) (*Session, error) {
	path, err := st.path(id)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	data, err := os.ReadFile(path)
	st.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("session %s: %w", id, errors.ErrNotFound)
		}
		return nil, fmt.Errorf("read session %s: %w", id, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

func (st *FileStore) List(_ context.Context) ([]Summary, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	entries, err := os.ReadDir(st.dir)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var out []Summary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(st.dir, entry.Name()))
		if err != nil {
			continue
		}
		var s Session
		if err := json.Unmarshal(data, &s); err != nil {
			st.logger.Warn("skipping unreadable session file", "file", entry.Name(), "error", err)
			continue
		}
		if s.ID == "" {
			s.ID = strings.TrimSuffix(entry.Name(), ".json")
		}
		out = append(out, Summary{
			ID:      s.ID,
			Topic:   s.Topic,
			Style:   s.StyleName,
			Slides:  len(s.Slides),
			Updated: s.UpdatedAt,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Updated > out[j].Updated })
	return out, nil
}

func (st *FileStore) Latest(ctx context.Context) (*Session, error) {
	summaries, err := st.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, nil
	}
	return st.Load(ctx, summaries[0].ID)
}

func (st *FileStore) Delete(_ context.Context, id string) (bool, error) {
	path, err := st.path(id)
	if err != nil {
		return false, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete session %s: %w", id, err)
	}
	return true, nil
}
