package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"property-assistant/internal/config"
	"property-assistant/internal/model"
	"property-assistant/internal/repository"
	"property-assistant/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const catalogJSON = `[
 {"Building Name": "Sea Breeze", "Location": "Kadri", "Apartment Types": "2BHK, 3BHK",
  "Price Range (Lakhs)": "120-180", "Amenities": "Gym, Pool", "Builder Contact": "9876500001",
  "Latitude": 12.8856, "Longitude": 74.8553},
 {"Building Name": "Palm Residency", "Location": "Bejai", "Apartment Types": "3BHK",
  "Price Range (Lakhs)": "90-140", "Amenities": "Garden", "Latitude": NaN, "Longitude": NaN}
]`

// echoLLM replies with a fixed text
type echoLLM struct {
	mu    sync.Mutex
	reply string
	calls int
}

func (e *echoLLM) Generate(ctx context.Context, prompt string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	return e.reply, nil
}

func (e *echoLLM) GenerateStream(ctx context.Context, prompt string, cb service.ChunkCallback) (string, error) {
	reply, _ := e.Generate(ctx, prompt)
	for _, part := range []string{reply[:len(reply)/2], reply[len(reply)/2:]} {
		if err := cb(part); err != nil {
			return reply, err
		}
	}
	return reply, nil
}

func (e *echoLLM) Provider() string { return "echo" }

// stubPlaces returns one place for every lookup
type stubPlaces struct{}

func (stubPlaces) FindNearby(ctx context.Context, lat, lng float64, category string, radius int) model.NearbyResult {
	return model.NearbyResult{Places: []model.Place{{Name: "Kadri Park", Location: model.LatLng{Lat: lat, Lng: lng}}}, Count: 1}
}

type testEnv struct {
	router      *gin.Engine
	chat        *service.ChatService
	catalogPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "apartments.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(catalogJSON), 0o644))

	logger := zap.NewNop()
	catalogs := service.NewCatalogStore(repository.NewJSONPropertySource(catalogPath), logger)
	_, err := catalogs.Reload(context.Background())
	require.NoError(t, err)

	chat := service.NewChatService(service.ChatDeps{
		Catalogs:  catalogs,
		Sessions:  repository.NewSessionCache(0, 0, 4),
		Extractor: service.NewPreferenceExtractor(),
		Ranker:    service.NewRanker(service.NewScoringEngine(service.DefaultWeights()), service.DefaultTopK),
		Suggester: service.NewSuggestionGenerator(service.DefaultSuggestionLimit),
		LLM:       &echoLLM{reply: "Sea Breeze suits you."},
		Logger:    logger,
	})
	schedules := service.NewScheduleService(repository.NewAppointmentStore(filepath.Join(dir, "schedules.json")), logger)

	router := NewRouter(RouterDeps{
		Chat:     NewChatHandler(chat, logger),
		Property: NewPropertyHandler(service.NewPropertyService(catalogs, stubPlaces{}, 0)),
		Schedule: NewScheduleHandler(schedules, logger),
		Admin:    NewAdminHandler(service.NewAdminService(catalogs, catalogPath, logger), logger),
		Server:   config.ServerConfig{AllowedOrigins: "*", AllowedMethods: "GET,POST,PUT,DELETE", AllowedHeaders: "Content-Type"},
		Build:    BuildInfo{Version: "test", BuildTime: "now", GitCommit: "abc"},
		Logger:   logger,
	})

	return &testEnv{router: router, chat: chat, catalogPath: catalogPath}
}

// performRequest executes an HTTP request against the test router
func performRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
