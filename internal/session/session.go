package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// State is the input a user has entered in one browser session. It survives
// page reloads so the page can re-render the fields.
type State struct {
	Context             string  `json:"context"`
	Question            string  `json:"question"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	SummarizationText   string  `json:"summarization_text"`
	MinLength           int     `json:"min_length"`
	MaxLength           int     `json:"max_length"`
	BeamCount           int     `json:"beam_count"`
}

// Default returns the initial slider positions with empty text fields.
func Default() State {
	return State{
		ConfidenceThreshold: 0.5,
		MinLength:           50,
		MaxLength:           150,
		BeamCount:           4,
	}
}

// Store keeps State per session id.
type Store interface {
	// Get returns the stored state, or Default() when the session is unknown or expired.
	Get(ctx context.Context, id string) (State, error)

	// Save replaces the state and refreshes its TTL.
	Save(ctx context.Context, id string, st State) error

	// Close releases the backend connection.
	Close() error
}

// Update loads the state for id, applies fn and saves the result.
func Update(ctx context.Context, store Store, id string, fn func(*State)) (State, error) {
	st, err := store.Get(ctx, id)
	if err != nil {
		return State{}, err
	}
	fn(&st)
	if err := store.Save(ctx, id, st); err != nil {
		return State{}, err
	}
	return st, nil
}

// Cookies issues and reads the session id cookie.
type Cookies struct {
	Name string
	TTL  time.Duration
}

// ID returns the session id carried by r, issuing a new cookie on w when the
// request has none or carries a malformed one.
func (c Cookies) ID(w http.ResponseWriter, r *http.Request) string {
	if ck, err := r.Cookie(c.Name); err == nil {
		if id, err := uuid.Parse(ck.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    id,
		Path:     "/",
		MaxAge:   int(c.TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
