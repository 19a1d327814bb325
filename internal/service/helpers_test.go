package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"property-assistant/internal/model"
	"property-assistant/internal/repository"
)

func float64Ptr(v float64) *float64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

// sampleProperties is a small Mangalore catalog used across tests
func sampleProperties() []model.Property {
	return []model.Property{
		{
			BuildingName:    "Sea Breeze",
			Location:        "Kadri",
			ApartmentTypes:  "2BHK, 3BHK",
			PriceRange:      "120-180",
			Amenities:       "Gym, Swimming Pool, Parking",
			NearbyLocations: "Kadri Park, St Aloysius School",
			CommuteTimes:    "Airport 25 min, Railway station 10 min",
			Availability:    "Ready to move",
			BuilderName:     "Prestige",
			BuilderContact:  "9876500001",
			Latitude:        float64Ptr(12.8856),
			Longitude:       float64Ptr(74.8553),
		},
		{
			BuildingName:    "Palm Residency",
			Location:        "Bejai",
			ApartmentTypes:  "3BHK",
			PriceRange:      "90-140",
			Amenities:       "Garden, Security, Lift",
			NearbyLocations: "City Hospital, Bharath Mall",
			CommuteTimes:    "Bus stand 5 min",
			Availability:    "Under construction",
			BuilderName:     "Rohan",
			BuilderContact:  "9876500002",
		},
		{
			BuildingName:    "Palm Residency Phase 2",
			Location:        "Bejai",
			ApartmentTypes:  "2BHK",
			PriceRange:      "₹70 to 95 lakhs",
			Amenities:       "Playground, Parking",
			NearbyLocations: "Bejai Market",
			CommuteTimes:    "Beach 15 min",
			Availability:    "Ready to move",
			BuilderName:     "Rohan",
			BuilderContact:  "9876500003",
			Latitude:        float64Ptr(12.89),
			Longitude:       float64Ptr(74.84),
		},
		{
			BuildingName:    "Skyline Heights",
			Location:        "Kankanady",
			ApartmentTypes:  "1BHK, 2BHK",
			PriceRange:      "on request",
			Amenities:       "Elevator",
			NearbyLocations: "Father Muller College",
			CommuteTimes:    "Railway station 5 min",
			Availability:    "Ready to move",
			BuilderName:     "Land Trades",
			BuilderContact:  "9876500004",
		},
	}
}

// staticSource is a PropertySource returning fixed data
type staticSource struct {
	properties []model.Property
	err        error
}

func (s *staticSource) LoadProperties(ctx context.Context) ([]model.Property, error) {
	return s.properties, s.err
}

func newTestStore(properties []model.Property) *CatalogStore {
	store := NewCatalogStore(&staticSource{properties: properties}, zap.NewNop())
	if _, err := store.Reload(context.Background()); err != nil {
		panic(err)
	}
	return store
}

// fakeLLM records prompts and returns a canned reply
type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeLLM) GenerateStream(ctx context.Context, prompt string, cb ChunkCallback) (string, error) {
	reply, err := f.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if cb != nil {
		for _, word := range splitKeep(reply) {
			if err := cb(word); err != nil {
				return reply, err
			}
		}
	}
	return reply, nil
}

func (f *fakeLLM) Provider() string { return "fake" }

func (f *fakeLLM) promptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func splitKeep(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		if r == ' ' {
			out = append(out, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// fakeTurnLogger collects logged turns
type fakeTurnLogger struct {
	mu    sync.Mutex
	turns []model.TurnLog
	done  chan struct{}
}

func newFakeTurnLogger() *fakeTurnLogger {
	return &fakeTurnLogger{done: make(chan struct{}, 16)}
}

func (f *fakeTurnLogger) LogTurn(ctx context.Context, turn model.TurnLog) error {
	f.mu.Lock()
	f.turns = append(f.turns, turn)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func newTestChat(properties []model.Property, llm LLMClient, turns TurnLogger) (*ChatService, *repository.SessionCache) {
	sessions := repository.NewSessionCache(0, 0, 4)
	svc := NewChatService(ChatDeps{
		Catalogs:     newTestStore(properties),
		Sessions:     sessions,
		Extractor:    NewPreferenceExtractor(),
		Ranker:       NewRanker(NewScoringEngine(DefaultWeights()), DefaultTopK),
		Suggester:    NewSuggestionGenerator(DefaultSuggestionLimit),
		LLM:          llm,
		TurnLogger:   turns,
		ContextTurns: 3,
		Logger:       zap.NewNop(),
	})
	return svc, sessions
}
