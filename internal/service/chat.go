package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"property-assistant/internal/model"
)

var greetingPattern = regexp.MustCompile(`\b(hi|hello|hey|good morning|good afternoon|good evening|namaste|hola)\b`)

// IsGreeting reports whether query contains a greeting word
func IsGreeting(query string) bool {
	return greetingPattern.MatchString(strings.ToLower(query))
}

// ChatDeps are the collaborators of a ChatService
type ChatDeps struct {
	Catalogs     *CatalogStore
	Sessions     SessionRegistry
	Extractor    *PreferenceExtractor
	Ranker       *Ranker
	Suggester    *SuggestionGenerator
	LLM          LLMClient
	TurnLogger   TurnLogger // optional
	ContextTurns int
	Logger       *zap.Logger
}

// ChatService runs conversation turns
type ChatService struct {
	catalogs     *CatalogStore
	sessions     SessionRegistry
	extractor    *PreferenceExtractor
	ranker       *Ranker
	suggester    *SuggestionGenerator
	llm          LLMClient
	turnLogger   TurnLogger
	contextTurns int
	logger       *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(deps ChatDeps) *ChatService {
	if deps.ContextTurns <= 0 {
		deps.ContextTurns = 3
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &ChatService{
		catalogs:     deps.Catalogs,
		sessions:     deps.Sessions,
		extractor:    deps.Extractor,
		ranker:       deps.Ranker,
		suggester:    deps.Suggester,
		llm:          deps.LLM,
		turnLogger:   deps.TurnLogger,
		contextTurns: deps.ContextTurns,
		logger:       deps.Logger,
	}
}

// turnState carries a ranked turn between preparation and completion
type turnState struct {
	start   time.Time
	session *model.Session
	catalog *Catalog
	query   string
	ranked  []model.RankedProperty
	prompt  string
}

// Chat handles one user message. An unknown session yields
// ErrSessionNotFound; LLM failures become an apology reply, not an error.
func (s *ChatService) Chat(ctx context.Context, sessionID, query string) (*model.ChatResponse, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}
	sess.Lock()
	defer sess.Unlock()

	start := time.Now()
	if IsGreeting(query) {
		return s.greet(sess, query, start), nil
	}

	st := s.prepare(sess, query, start)
	reply, err := s.llm.Generate(ctx, st.prompt)
	return s.complete(st, reply, err), nil
}

// ChatStream is Chat with the model reply delivered through cb as it is
// generated. The greeting path emits the canned greeting as one chunk.
func (s *ChatService) ChatStream(ctx context.Context, sessionID, query string, cb ChunkCallback) (*model.ChatResponse, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}
	sess.Lock()
	defer sess.Unlock()

	start := time.Now()
	if IsGreeting(query) {
		resp := s.greet(sess, query, start)
		if cb != nil {
			if err := cb(resp.Response); err != nil {
				s.logger.Warn("failed to deliver greeting chunk",
					zap.String("session_id", sessionID), zap.Error(err))
				return resp, fmt.Errorf("failed to deliver greeting: %w", err)
			}
		}
		return resp, nil
	}

	st := s.prepare(sess, query, start)
	filter := &markerFilter{cb: cb}
	var streamCb ChunkCallback
	if cb != nil {
		streamCb = filter.write
	}
	reply, err := s.llm.GenerateStream(ctx, st.prompt, streamCb)
	resp := s.complete(st, reply, err)
	if cb != nil {
		if ferr := filter.finish(resp); ferr != nil {
			s.logger.Warn("failed to deliver held chunk",
				zap.String("session_id", sessionID), zap.Error(ferr))
		}
	}
	return resp, nil
}

// markerFilter holds streamed chunks back while the text so far could still
// be GreetingMarker, so the marker itself never reaches the client.
type markerFilter struct {
	cb         ChunkCallback
	held       strings.Builder
	passing    bool
	suppressed bool
}

func (f *markerFilter) write(chunk string) error {
	if f.passing {
		return f.cb(chunk)
	}
	if f.suppressed {
		return nil
	}
	f.held.WriteString(chunk)
	text := f.held.String()
	if strings.Contains(text, GreetingMarker) {
		f.suppressed = true
		return nil
	}
	if strings.HasPrefix(GreetingMarker, strings.TrimSpace(text)) {
		return nil
	}
	f.passing = true
	return f.cb(text)
}

// finish flushes whatever is still held once the reply is complete. A reply
// that turned out to be the marker is replaced by the rendered greeting.
func (f *markerFilter) finish(resp *model.ChatResponse) error {
	if f.passing {
		return nil
	}
	if f.suppressed && !resp.Greeting {
		return f.cb(resp.Response)
	}
	if resp.Greeting {
		return f.cb(resp.Response)
	}
	if f.held.Len() == 0 {
		return nil
	}
	return f.cb(f.held.String())
}

// greet resets the session and answers with the canned greeting
func (s *ChatService) greet(sess *model.Session, query string, start time.Time) *model.ChatResponse {
	catalog := s.catalogs.Current()
	sess.Reset()

	greeting := BuildGreeting(catalog)
	suggestions := s.suggester.Suggest(SuggestionInput{
		Query:    query,
		Response: greeting,
		Prefs:    &sess.Prefs,
		Stage:    sess.Stage,
		Catalog:  catalog,
	})

	chatTurns.WithLabelValues("greeting").Inc()
	resp := &model.ChatResponse{
		SessionID:   sess.ID,
		Response:    greeting,
		Properties:  []model.RankedProperty{},
		Suggestions: suggestions,
		Preferences: sess.Prefs.Clone(),
		Stage:       sess.Stage,
		Greeting:    true,
		Took:        time.Since(start).Milliseconds(),
	}
	s.logTurn(query, resp, false)
	return resp
}

// prepare advances the stage, extracts preferences, ranks and builds the prompt
func (s *ChatService) prepare(sess *model.Session, query string, start time.Time) *turnState {
	catalog := s.catalogs.Current()
	queryLower := strings.ToLower(query)

	sess.Stage = NextStage(sess.Stage, queryLower, len(sess.Mentioned))
	s.extractor.Extract(query, &sess.Prefs, catalog.Locations())
	ranked := s.ranker.Rank(catalog, &sess.Prefs, query)

	prompt := BuildPrompt(
		query,
		BuildPropertyContext(ranked, &sess.Prefs),
		BuildMemoryContext(sess.RecentTurns(s.contextTurns), &sess.Prefs),
		catalog,
	)

	s.logger.Debug("turn prepared",
		zap.String("session_id", sess.ID),
		zap.String("stage", string(sess.Stage)),
		zap.String("preferences", sess.Prefs.Summary()),
		zap.Int("ranked", len(ranked)))

	return &turnState{
		start:   start,
		session: sess,
		catalog: catalog,
		query:   query,
		ranked:  ranked,
		prompt:  prompt,
	}
}

// complete turns the model reply into a response and updates the session
func (s *ChatService) complete(st *turnState, reply string, llmErr error) *model.ChatResponse {
	sess := st.session
	defer func() { chatDuration.Observe(time.Since(st.start).Seconds()) }()

	resp := &model.ChatResponse{
		SessionID:   sess.ID,
		Properties:  st.ranked,
		Preferences: sess.Prefs.Clone(),
		Stage:       sess.Stage,
	}

	if llmErr != nil {
		llmFailures.WithLabelValues(s.llm.Provider()).Inc()
		chatTurns.WithLabelValues("llm_error").Inc()
		s.logger.Error("LLM generation failed",
			zap.String("session_id", sess.ID),
			zap.String("provider", s.llm.Provider()),
			zap.Error(llmErr))

		resp.Response = fmt.Sprintf("Sorry, I encountered an error: %v. Please try a simpler question.", llmErr)
		resp.Suggestions = []string{}
		resp.Took = time.Since(st.start).Milliseconds()
		s.logTurn(st.query, resp, true)
		return resp
	}

	reply = strings.TrimSpace(reply)
	recordHistory := true
	if strings.Contains(reply, GreetingMarker) {
		reply = BuildGreeting(st.catalog)
		resp.Greeting = true
		recordHistory = false
	}

	resp.Response = reply
	resp.Suggestions = s.suggester.Suggest(SuggestionInput{
		Query:    st.query,
		Response: reply,
		Prefs:    &sess.Prefs,
		Stage:    sess.Stage,
		Catalog:  st.catalog,
	})

	if recordHistory {
		sess.AddTurn(st.query, reply)
		for _, r := range st.ranked {
			sess.Mention(r.BuildingName)
		}
	}

	chatTurns.WithLabelValues("ranked").Inc()
	resp.Took = time.Since(st.start).Milliseconds()
	s.logTurn(st.query, resp, false)
	return resp
}

// logTurn persists the turn in the background when a turn logger is set
func (s *ChatService) logTurn(query string, resp *model.ChatResponse, llmError bool) {
	if s.turnLogger == nil {
		return
	}

	ids := make([]int, len(resp.Properties))
	for i, p := range resp.Properties {
		ids[i] = p.ID
	}
	entry := model.TurnLog{
		SessionID:   resp.SessionID,
		Query:       query,
		Response:    resp.Response,
		Preferences: resp.Preferences,
		PropertyIDs: ids,
		Stage:       resp.Stage,
		Greeting:    resp.Greeting,
		LLMError:    llmError,
		TookMs:      int(resp.Took),
	}

	// Log turn (non-blocking)
	go func() {
		if err := s.turnLogger.LogTurn(context.Background(), entry); err != nil {
			s.logger.Warn("failed to log chat turn", zap.String("session_id", entry.SessionID), zap.Error(err))
		}
	}()
}

// CreateSession starts a new conversation
func (s *ChatService) CreateSession() model.SessionInfo {
	sess := s.sessions.Create()
	sess.Lock()
	defer sess.Unlock()
	return sess.Info()
}

// DeleteSession removes a conversation
func (s *ChatService) DeleteSession(id string) error {
	if !s.sessions.Delete(id) {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return nil
}

// ListSessions returns every live session
func (s *ChatService) ListSessions() []model.SessionInfo {
	sessions := s.sessions.List()
	out := make([]model.SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		sess.Lock()
		out = append(out, sess.Info())
		sess.Unlock()
	}
	return out
}

// Preferences returns a copy of a session's preferences
func (s *ChatService) Preferences(id string) (model.PreferenceSet, error) {
	var prefs model.PreferenceSet
	err := s.withSession(id, func(sess *model.Session) {
		prefs = sess.Prefs.Clone()
	})
	return prefs, err
}

// ReplacePreferences overwrites a session's preferences after normalizing
// them against the current catalog
func (s *ChatService) ReplacePreferences(id string, prefs model.PreferenceSet) (model.PreferenceSet, error) {
	var locations []string
	if catalog := s.catalogs.Current(); catalog != nil {
		locations = catalog.Locations()
	}
	normalized, err := prefs.Normalize(locations)
	if err != nil {
		return model.PreferenceSet{}, err
	}
	var out model.PreferenceSet
	err = s.withSession(id, func(sess *model.Session) {
		sess.Prefs = normalized
		sess.UpdatedAt = time.Now()
		out = sess.Prefs.Clone()
	})
	return out, err
}

// ClearPreferences empties a session's preferences, keeping history
func (s *ChatService) ClearPreferences(id string) error {
	return s.withSession(id, func(sess *model.Session) {
		sess.Prefs = model.PreferenceSet{}
		sess.UpdatedAt = time.Now()
	})
}

// Stats summarises a session
func (s *ChatService) Stats(id string) (model.SessionStats, error) {
	var stats model.SessionStats
	err := s.withSession(id, func(sess *model.Session) {
		stats = sess.Stats()
	})
	return stats, err
}

func (s *ChatService) withSession(id string, fn func(sess *model.Session)) error {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	sess.Lock()
	defer sess.Unlock()
	fn(sess)
	return nil
}
