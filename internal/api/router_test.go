package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"oscar/internal/api/handlers"
	"oscar/internal/dto"
	"oscar/internal/oscar"
	"oscar/internal/repository"
	"oscar/internal/service"
	"oscar/pkg/auth"
	"oscar/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	app        *fiber.App
	engine     *oscar.Engine
	jwtManager *auth.JWTManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	kb, err := oscar.Default()
	require.NoError(t, err)
	engine, err := oscar.NewEngine(kb, oscar.WithPicker(oscar.FirstPicker{}))
	require.NoError(t, err)

	logger := zap.NewNop()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	chatService := service.NewChatService(
		engine,
		repository.NewMemorySessionRepository(),
		repository.NewMemoryMessageRepository(),
		&config.ChatConfig{HistoryLimit: 50, MaxMessageLength: 200},
		logger,
	)

	app := SetupRouter(
		handlers.NewChatHandler(chatService, jwtManager, logger),
		handlers.NewOscarHandler(engine, logger),
		jwtManager,
		&config.ServerConfig{AllowOrigins: "*", StaticDir: t.TempDir()},
		logger,
	)
	return &testServer{app: app, engine: engine, jwtManager: jwtManager}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func (s *testServer) startSession(t *testing.T) dto.SessionResponse {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/v1/sessions", "", "")
	require.Equal(t, http.StatusCreated, status, string(body))

	var session dto.SessionResponse
	require.NoError(t, json.Unmarshal(body, &session))
	return session
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestStartSession(t *testing.T) {
	s := newTestServer(t)

	session := s.startSession(t)

	assert.Equal(t, "Bearer", session.TokenType)
	assert.Equal(t, int64(3600), session.ExpiresIn)
	assert.Equal(t, s.engine.Greeting(), session.Greeting.Text)
	assert.True(t, session.Greeting.IsBot)

	claims, err := s.jwtManager.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.SessionID, claims.SessionID)
}

func TestChatConversation(t *testing.T) {
	s := newTestServer(t)
	session := s.startSession(t)

	status, body := s.do(t, http.MethodPost, "/api/v1/chat/messages", session.Token, `{"text":"What projects has he built?"}`)
	require.Equal(t, http.StatusCreated, status, string(body))

	var sent dto.SendMessageResponse
	require.NoError(t, json.Unmarshal(body, &sent))
	assert.Equal(t, "What projects has he built?", sent.Question.Text)
	assert.False(t, sent.Question.IsBot)
	assert.Equal(t, s.engine.GenerateResponse("What projects has he built?"), sent.Answer.Text)
	assert.True(t, sent.Answer.IsBot)

	status, body = s.do(t, http.MethodGet, "/api/v1/chat/messages", session.Token, "")
	require.Equal(t, http.StatusOK, status, string(body))

	var history []dto.MessageResponse
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history, 3)
	assert.Equal(t, session.Greeting.ID, history[0].ID)
	assert.Equal(t, sent.Question.ID, history[1].ID)
	assert.Equal(t, sent.Answer.ID, history[2].ID)

	status, body = s.do(t, http.MethodGet, "/api/v1/chat/messages?limit=1&offset=2", session.Token, "")
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history, 1)
	assert.Equal(t, sent.Answer.ID, history[0].ID)
}

func TestChatErrors(t *testing.T) {
	s := newTestServer(t)
	session := s.startSession(t)

	unknown, err := s.jwtManager.GenerateToken(uuid.New().String())
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		token  string
		body   string
		want   int
	}{
		{"missing token", http.MethodPost, "", `{"text":"hi"}`, http.StatusUnauthorized},
		{"bad token", http.MethodGet, "not-a-token", "", http.StatusUnauthorized},
		{"blank text", http.MethodPost, session.Token, `{"text":"   "}`, http.StatusBadRequest},
		{"too long", http.MethodPost, session.Token, `{"text":"` + strings.Repeat("a", 201) + `"}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, session.Token, `{"text":`, http.StatusBadRequest},
		{"unknown session", http.MethodPost, unknown, `{"text":"hi"}`, http.StatusNotFound},
		{"unknown session history", http.MethodGet, unknown, "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := s.do(t, tt.method, "/api/v1/chat/messages", tt.token, tt.body)
			assert.Equal(t, tt.want, status)

			var errResp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &errResp))
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestOscarRespond(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		query string
		kind  string
	}{
		{"hello there", "greeting"},
		{"What can you do?", "capability"},
		{"How can I contact Amaan?", "knowledge"},
		{"xyzzy", "fallback"},
		{"", "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.kind+"/"+tt.query, func(t *testing.T) {
			payload, err := json.Marshal(dto.RespondRequest{Query: tt.query})
			require.NoError(t, err)

			status, body := s.do(t, http.MethodPost, "/api/v1/oscar/respond", "", string(payload))
			require.Equal(t, http.StatusOK, status, string(body))

			var resp dto.RespondResponse
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.Equal(t, tt.kind, resp.Kind)
			assert.Equal(t, s.engine.GenerateResponse(tt.query), resp.Response)
		})
	}
}

func TestOscarRespondContactTopic(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/api/v1/oscar/respond", "", `{"query":"How can I contact Amaan?"}`)
	require.Equal(t, http.StatusOK, status)

	var resp dto.RespondResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "Personal", resp.Category)
	assert.Equal(t, "Contact", resp.Subcategory)
}

func TestOscarMatches(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/api/v1/oscar/matches?q=skills", "", "")
	require.Equal(t, http.StatusOK, status)

	var matches []oscar.MatchResult
	require.NoError(t, json.Unmarshal(body, &matches))
	assert.Equal(t, s.engine.FindRelevantKnowledge("skills"), matches)

	status, body = s.do(t, http.MethodGet, "/api/v1/oscar/matches", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))
}

func TestOscarSuggestionsAndTopics(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/api/v1/oscar/suggestions", "", "")
	require.Equal(t, http.StatusOK, status)
	var suggestions []string
	require.NoError(t, json.Unmarshal(body, &suggestions))
	assert.Equal(t, s.engine.Suggestions(), suggestions)

	status, body = s.do(t, http.MethodGet, "/api/v1/oscar/topics", "", "")
	require.Equal(t, http.StatusOK, status)
	var topics []oscar.Topic
	require.NoError(t, json.Unmarshal(body, &topics))
	require.Len(t, topics, 4)
	assert.Equal(t, "Personal", topics[0].Category)
	assert.Equal(t, s.engine.Topics(), topics)
}

func TestFindWebStaticPath(t *testing.T) {
	logger := zap.NewNop()

	dir := t.TempDir()
	assert.Empty(t, findWebStaticPath(dir, logger), "directory without index.html is ignored")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644))
	assert.Equal(t, dir, findWebStaticPath(dir, logger))
}
