package model

import (
	"sync"
	"time"
)

// Session is one conversation. Callers hold Lock for the duration of a turn;
// accessors below do not lock on their own.
type Session struct {
	mu sync.Mutex

	ID        string
	Prefs     PreferenceSet
	History   []Turn
	Mentioned []string
	Stage     Stage
	CreatedAt time.Time
	UpdatedAt time.Time

	maxTurns int
}

// NewSession creates an empty session retaining at most maxTurns exchanges
func NewSession(id string, maxTurns int) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Stage:     StageDiscovery,
		CreatedAt: now,
		UpdatedAt: now,
		maxTurns:  maxTurns,
	}
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Reset clears preferences, history, mentioned properties and stage
func (s *Session) Reset() {
	s.Prefs = PreferenceSet{}
	s.History = nil
	s.Mentioned = nil
	s.Stage = StageDiscovery
	s.UpdatedAt = time.Now()
}

// AddTurn appends an exchange and drops the oldest beyond the window
func (s *Session) AddTurn(query, response string) {
	s.History = append(s.History, Turn{Query: query, Response: response, Timestamp: time.Now()})
	if s.maxTurns > 0 && len(s.History) > s.maxTurns {
		s.History = append([]Turn(nil), s.History[len(s.History)-s.maxTurns:]...)
	}
	s.UpdatedAt = time.Now()
}

// RecentTurns returns up to n of the latest exchanges, oldest first
func (s *Session) RecentTurns(n int) []Turn {
	if n <= 0 || len(s.History) <= n {
		return s.History
	}
	return s.History[len(s.History)-n:]
}

// Mention records building names as surfaced, keeping first-seen order
func (s *Session) Mention(names ...string) {
	for _, name := range names {
		if name == "" || s.HasMentioned(name) {
			continue
		}
		s.Mentioned = append(s.Mentioned, name)
	}
}

// HasMentioned reports whether name was already surfaced
func (s *Session) HasMentioned(name string) bool {
	for _, m := range s.Mentioned {
		if m == name {
			return true
		}
	}
	return false
}

// Info returns a snapshot for listings
func (s *Session) Info() SessionInfo {
	return SessionInfo{
		SessionID: s.ID,
		Stage:     s.Stage,
		Turns:     len(s.History),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// Stats returns a detailed snapshot
func (s *Session) Stats() SessionStats {
	return SessionStats{
		SessionID:           s.ID,
		Stage:               s.Stage,
		Turns:               len(s.History),
		PropertiesMentioned: append([]string{}, s.Mentioned...),
		Preferences:         s.Prefs.Clone(),
		PreferenceSummary:   s.Prefs.Summary(),
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}
