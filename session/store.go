package session

import (
	"context"
	"fmt"
	"regexp"

	"github.com/sweetpotato0/slidecraft/errors"
)

// Summary is the brief listing view of a stored session.
type Summary struct {
	ID      string `json:"id"`
	Topic   string `json:"topic"`
	Style   string `json:"style"`
	Slides  int    `json:"slides"`
	Updated string `json:"updated"`
}

// Store persists sessions. Implementations must validate IDs with ValidateID
// before touching any backend resource.
type Store interface {
	// Save writes the session, bumping its UpdatedAt.
	Save(ctx context.Context, s *Session) error
	// Load returns the stored session or errors.ErrNotFound.
	Load(ctx context.Context, id string) (*Session, error)
	// List returns summaries ordered most recently updated first,
	// skipping entries that cannot be decoded.
	List(ctx context.Context) ([]Summary, error)
	// Latest loads the most recently updated session, or nil if none exist.
	Latest(ctx context.Context) (*Session, error)
	// Delete removes a session, reporting whether it existed. Deleting a
	// missing session is not an error; it returns false.
	Delete(ctx context.Context, id string) (bool, error)
}

// Session IDs are lowercase hex only. IDs become file names and backend
// keys, so anything else is rejected before path construction.
var idRE = regexp.MustCompile(`^[a-f0-9]{1,32}$`)

// ValidateID rejects IDs that are not 1-32 lowercase hex characters.
func ValidateID(id string) error {
	if !idRE.MatchString(id) {
		return fmt.Errorf("session id %q must be 1-32 lowercase hex characters: %w",
			id, errors.ErrInvalidSessionID)
	}
	return nil
}
