package model

import "time"

// Stage is the coarse phase of a conversation
type Stage string

const (
	StageDiscovery  Stage = "discovery"
	StageEvaluation Stage = "evaluation"
	StageDecision   Stage = "decision"
)

// Turn is one query/response exchange
type Turn struct {
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRequest represents a chat message request
type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Query     string `json:"query" binding:"required"`
}

// ChatResponse represents the assistant reply for one turn
type ChatResponse struct {
	SessionID   string           `json:"session_id"`
	Response    string           `json:"response"`
	Properties  []RankedProperty `json:"properties"`
	Suggestions []string         `json:"suggestions"`
	Preferences PreferenceSet    `json:"preferences"`
	Stage       Stage            `json:"stage"`
	Greeting    bool             `json:"greeting,omitempty"`
	Took        int64            `json:"took_ms"`
}

// SessionInfo describes a live session
type SessionInfo struct {
	SessionID string    `json:"session_id"`
	Stage     Stage     `json:"stage"`
	Turns     int       `json:"turns"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionStats summarises the activity of one session
type SessionStats struct {
	SessionID           string        `json:"session_id"`
	Stage               Stage         `json:"stage"`
	Turns               int           `json:"turns"`
	PropertiesMentioned []string      `json:"properties_mentioned"`
	Preferences         PreferenceSet `json:"preferences"`
	PreferenceSummary   string        `json:"preference_summary"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// PropertyDetailsRequest looks up a property by name
type PropertyDetailsRequest struct {
	Name string `json:"name" binding:"required"`
}

// NearbyRequest asks for places around a property or a coordinate
type NearbyRequest struct {
	PropertyID int      `json:"property_id,omitempty"`
	Name       string   `json:"name,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
	PlaceType  string   `json:"place_type" binding:"required"`
	Radius     int      `json:"radius,omitempty"`
}

// ScheduleRequest creates an appointment
type ScheduleRequest struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Email        string `json:"email,omitempty"`
	PropertyName string `json:"property_name,omitempty"`
	Date         string `json:"date" binding:"required"`
	Time         string `json:"time" binding:"required"`
	Message      string `json:"message,omitempty"`
}

// TurnLog is the persisted record of one chat turn
type TurnLog struct {
	SessionID   string
	Query       string
	Response    string
	Preferences PreferenceSet
	PropertyIDs []int
	Stage       Stage
	Greeting    bool
	LLMError    bool
	TookMs      int
}
