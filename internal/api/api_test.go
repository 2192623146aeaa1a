package api

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stackmatch/stackmatch/internal/api/middleware"
	"github.com/stackmatch/stackmatch/internal/config"
	"github.com/stackmatch/stackmatch/internal/database"
	"github.com/stackmatch/stackmatch/internal/database/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ServerTestSuite struct {
	suite.Suite
	server *Server
}

func (s *ServerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	db, err := database.New(ctx, &config.DatabaseConfig{
		URL:             "sqlite:///" + filepath.Join(s.T().TempDir(), "api.db"),
		ConnectAttempts: 1,
		ConnectDelay:    10 * time.Millisecond,
		MaxOpenConns:    1,
	})
	s.Require().NoError(err)
	s.T().Cleanup(func() { db.Close() }) //nolint: errcheck
	s.Require().NoError(db.Migrate(ctx))

	s.server, err = New(&config.Config{Listen: "127.0.0.1:0", Gzip: true}, db)
	s.Require().NoError(err)
}

func (s *ServerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(w, req)
	return w
}

func (s *ServerTestSuite) register(id, mail string) *httptest.ResponseRecorder {
	return s.do(http.MethodPost, "/users", `{
		"id": "`+id+`",
		"user": "user`+id+`",
		"mail": "`+mail+`",
		"password": "pw`+id+`",
		"full_name": "User `+id+`",
		"stack": "Python",
		"wanted_stack": "Go",
		"abt_me": "about `+id+`",
		"additional_links": "https://example.com/`+id+`"
	}`)
}

func (s *ServerTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/", "")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"online"}`, w.Body.String())
	s.NotEmpty(w.Header().Get(middleware.RequestIDHeader))
}

func (s *ServerTestSuite) TestRegisterLoginUpdate() {
	w := s.register("1", "a@example.com")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.JSONEq(`{
		"id": "1", "user": "user1", "mail": "a@example.com", "password": "pw1",
		"full_name": "User 1", "stack": "Python", "wanted_stack": "Go",
		"abt_me": "about 1", "additional_links": "https://example.com/1",
		"swipe_rate": 0, "feed_appearances": 0, "swipes_yes": 0, "swiped_on": 0
	}`, w.Body.String())

	w = s.register("2", "a@example.com")
	s.Equal(http.StatusBadRequest, w.Code)
	s.JSONEq(`{"error":"conflict: user exists"}`, w.Body.String())

	w = s.do(http.MethodPost, "/login", `{"mail":"a@example.com","password":"pw1"}`)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"id":"1"`)

	w = s.do(http.MethodPost, "/login", `{"mail":"a@example.com","password":"PW1"}`)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.JSONEq(`{"error":"unauthorized: invalid credentials"}`, w.Body.String())

	w = s.do(http.MethodPut, "/users/1", `{"stack":"Go","swipe_rate":"5","bogus":true}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var user map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &user))
	s.Equal("Go", user["stack"])
	s.InDelta(5, user["swipe_rate"], 0)
	s.Equal("Go", user["wanted_stack"])
	s.NotContains(user, "bogus")

	w = s.do(http.MethodPut, "/users/9", `{"stack":"Go"}`)
	s.Equal(http.StatusNotFound, w.Code)
	s.JSONEq(`{"error":"not found"}`, w.Body.String())

	w = s.do(http.MethodPut, "/users/1", `{"swipe_rate":"many"}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.JSONEq(`{"error":"bad request: invalid value for swipe_rate"}`, w.Body.String())
}

func (s *ServerTestSuite) TestUpdateUser_MailCollision() {
	s.Require().Equal(http.StatusCreated, s.register("1", "a@example.com").Code)
	s.Require().Equal(http.StatusCreated, s.register("2", "b@example.com").Code)

	w := s.do(http.MethodPut, "/users/2", `{"mail":"a@example.com"}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.JSONEq(`{"error":"conflict: user exists"}`, w.Body.String())
}

func (s *ServerTestSuite) TestListUsers() {
	w := s.do(http.MethodGet, "/users", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`[]`, w.Body.String())

	s.Require().Equal(http.StatusCreated, s.register("1", "a@example.com").Code)
	s.Require().Equal(http.StatusCreated, s.register("2", "b@example.com").Code)

	w = s.do(http.MethodGet, "/users", "")
	s.Require().Equal(http.StatusOK, w.Code)
	var users []map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &users))
	s.Len(users, 2)
}

func (s *ServerTestSuite) TestMessages() {
	for _, body := range []string{
		`{"sender_id":1,"receiver_id":2,"text":"hi"}`,
		`{"sender_id":3,"receiver_id":4,"text":"other"}`,
		`{"sender_id":2,"receiver_id":1,"text":"yo"}`,
	} {
		w := s.do(http.MethodPost, "/send", body)
		s.Require().Equal(http.StatusOK, w.Code)
	}

	w := s.do(http.MethodGet, "/messages/1", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`[
		{"id":1,"sender_id":1,"receiver_id":2,"text":"hi"},
		{"id":3,"sender_id":2,"receiver_id":1,"text":"yo"}
	]`, w.Body.String())

	w = s.do(http.MethodGet, "/messages/42", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`[]`, w.Body.String())

	w = s.do(http.MethodPost, "/send", `{"sender_id":1,"receiver_id":2}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.JSONEq(`{"error":"bad request: missing field"}`, w.Body.String())
}

func (s *ServerTestSuite) TestSwipes() {
	s.Require().Equal(http.StatusCreated, s.register("1", "a@example.com").Code)
	s.Require().Equal(http.StatusCreated, s.register("2", "b@example.com").Code)

	for range 3 {
		w := s.do(http.MethodPost, "/swipe", `{"swiper_id":1,"swiped_id":2}`)
		s.Require().Equal(http.StatusOK, w.Code)
		s.JSONEq(`{"status":"ok","swiper_id":1,"swiped_id":2}`, w.Body.String())
	}

	w := s.do(http.MethodGet, "/swipes/1", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`[{"id":"2","user":"user2","stack":"Python","abt_me":"about 2","additional_links":"https://example.com/2"}]`, w.Body.String())

	w = s.do(http.MethodPost, "/swipe", `{"swiper_id":1}`)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/swipes/one", "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.JSONEq(`{"error":"bad request: invalid user id"}`, w.Body.String())
}

func (s *ServerTestSuite) TestPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/users", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(w, req)

	s.Equal(http.StatusNoContent, w.Code)
	s.Equal("https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func (s *ServerTestSuite) TestGzip() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(w, req)

	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("gzip", w.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(w.Body)
	s.Require().NoError(err)
	body, err := io.ReadAll(zr)
	s.Require().NoError(err)
	s.JSONEq(`{"status":"online"}`, string(body))
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(nil, mock.NewMockDB())
	assert.Error(t, err)

	_, err = New(&config.Config{Listen: ":0"}, nil)
	assert.Error(t, err)
}

func TestServe_GracefulShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	server, err := New(&config.Config{Listen: "127.0.0.1:0"}, mock.NewMockDB())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	resp.Body.Close() //nolint: errcheck
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
