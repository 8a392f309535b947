package session

import (
	"encoding/json"
	"fmt"
)

// Session is the server-side state tied to one browser cookie.
type Session struct {
	ID       string                     `json:"id"`
	Visited  bool                       `json:"user_visited,omitempty"`
	LoggedIn bool                       `json:"logged_in,omitempty"`
	Username string                     `json:"username,omitempty"`
	Flashes  []string                   `json:"flashes,omitempty"`
	Values   map[string]json.RawMessage `json:"values,omitempty"`

	isNew bool
	dirty bool
}

func newSession(id string) *Session {
	return &Session{ID: id, isNew: true, dirty: true}
}

// New reports whether the session was created by the current request.
func (s *Session) New() bool {
	return s.isNew
}

// Dirty reports whether the session needs to be persisted.
func (s *Session) Dirty() bool {
	return s.dirty
}

// MarkVisited records the first visit and reports whether this call set it.
func (s *Session) MarkVisited() bool {
	if s.Visited {
		return false
	}
	s.Visited = true
	s.dirty = true
	return true
}

func (s *Session) Login(username string) {
	s.LoggedIn = true
	s.Username = username
	s.dirty = true
}

func (s *Session) AddFlash(message string) {
	s.Flashes = append(s.Flashes, message)
	s.dirty = true
}

// PopFlashes returns pending flash messages and clears them.
func (s *Session) PopFlashes() []string {
	if len(s.Flashes) == 0 {
		return nil
	}
	flashes := s.Flashes
	s.Flashes = nil
	s.dirty = true
	return flashes
}

// Set stores value under key as JSON.
func (s *Session) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding session value %q: %w", key, err)
	}
	if s.Values == nil {
		s.Values = map[string]json.RawMessage{}
	}
	s.Values[key] = raw
	s.dirty = true
	return nil
}

// Get decodes the value under key into dest and reports whether it existed.
func (s *Session) Get(key string, dest any) (bool, error) {
	raw, ok := s.Values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return true, fmt.Errorf("decoding session value %q: %w", key, err)
	}
	return true, nil
}

func (s *Session) Delete(key string) {
	if _, ok := s.Values[key]; !ok {
		return
	}
	delete(s.Values, key)
	s.dirty = true
}
