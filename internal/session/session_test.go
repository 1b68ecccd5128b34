package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func TestMemoryStoreDefaultsAndSave(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	st, err := store.Get(ctx, "unknown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st != Default() {
		t.Errorf("expected defaults for unknown session, got %+v", st)
	}

	st.SummarizationText = "Artificial intelligence (AI) is intelligence demonstrated by machines."
	if err := store.Save(ctx, "s1", st); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	got, _ := store.Get(ctx, "s1")
	if got.SummarizationText != st.SummarizationText || got.BeamCount != 4 {
		t.Errorf("unexpected state %+v", got)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 live session, got %d", store.Len())
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_ = store.Save(ctx, "s1", State{Question: "Who created Python?"})
	now = now.Add(30 * time.Second)
	if st, _ := store.Get(ctx, "s1"); st.Question != "Who created Python?" {
		t.Fatalf("expected live session, got %+v", st)
	}

	now = now.Add(time.Minute)
	if st, _ := store.Get(ctx, "s1"); st != Default() {
		t.Errorf("expected expired session to reset to defaults, got %+v", st)
	}
	if store.Len() != 0 {
		t.Errorf("expected no live sessions, got %d", store.Len())
	}
}

func TestMemoryStoreSaveSweepsExpired(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_ = store.Save(ctx, "old", Default())
	now = now.Add(2 * time.Minute)
	_ = store.Save(ctx, "new", Default())

	store.mu.Lock()
	_, stillThere := store.entries["old"]
	store.mu.Unlock()
	if stillThere {
		t.Error("expected expired entry to be swept on save")
	}
}

func TestUpdate(t *testing.T) {
	store := new(MockStore)
	ctx := context.Background()
	store.On("Get", ctx, "s1").Return(Default(), nil).Once()
	want := Default()
	want.SummarizationText = "sample"
	store.On("Save", ctx, "s1", want).Return(nil).Once()

	got, err := Update(ctx, store, "s1", func(st *State) { st.SummarizationText = "sample" })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	store.AssertExpectations(t)
}

func TestUpdatePropagatesErrors(t *testing.T) {
	ctx := context.Background()

	store := new(MockStore)
	store.On("Get", ctx, "s1").Return(State{}, errors.New("connection reset")).Once()
	if _, err := Update(ctx, store, "s1", func(*State) {}); err == nil {
		t.Error("expected get error")
	}
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)

	store = new(MockStore)
	store.On("Get", ctx, "s1").Return(Default(), nil).Once()
	store.On("Save", ctx, "s1", mock.Anything).Return(errors.New("read only replica")).Once()
	if _, err := Update(ctx, store, "s1", func(*State) {}); err == nil {
		t.Error("expected save error")
	}
}

func TestCookiesID(t *testing.T) {
	c := Cookies{Name: "nlpm_session", TTL: time.Hour}

	t.Run("issues a cookie when missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		id := c.ID(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("expected uuid id, got %q", id)
		}
		cookies := w.Result().Cookies()
		if len(cookies) != 1 || cookies[0].Value != id || !cookies[0].HttpOnly || cookies[0].MaxAge != 3600 {
			t.Errorf("unexpected cookies %+v", cookies)
		}
	})

	t.Run("reuses a valid cookie", func(t *testing.T) {
		existing := uuid.NewString()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "nlpm_session", Value: existing})
		w := httptest.NewRecorder()
		if id := c.ID(w, r); id != existing {
			t.Errorf("expected %s, got %s", existing, id)
		}
		if len(w.Result().Cookies()) != 0 {
			t.Error("expected no new cookie")
		}
	})

	t.Run("replaces a malformed cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "nlpm_session", Value: "not-a-uuid"})
		w := httptest.NewRecorder()
		if id := c.ID(w, r); id == "not-a-uuid" {
			t.Error("expected a fresh id")
		}
	})
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	if _, err := NewRedisStore("127.0.0.1:1", "", time.Hour); err == nil {
		t.Error("expected connection error for unreachable redis")
	}
}
