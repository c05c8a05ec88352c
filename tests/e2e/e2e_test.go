package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"silkscan/internal/classifier"
	"silkscan/internal/database"
	"silkscan/internal/domain/auth"
	"silkscan/internal/domain/upload"
	"silkscan/internal/middleware"
	jwtsvc "silkscan/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testSuite struct {
	router         *gin.Engine
	classifierBody atomic.Value // string JSON the stub returns
	uploadDir      string
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *errorDetail           `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func setupSuite(t *testing.T) *testSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &testSuite{uploadDir: t.TempDir()}
	s.classifierBody.Store(`{"label":"healthy","confidence":0.9}`)

	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(s.classifierBody.Load().(string)))
	}))
	t.Cleanup(stub.Close)

	dsn := fmt.Sprintf("file:e2e_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auth.User{}, &upload.UploadRecord{}))

	log := zap.NewNop()
	userRepo := auth.NewRepository(db)
	j := jwtsvc.New("e2e-test-secret", time.Hour)

	authHandler := auth.NewHandler(auth.NewService(userRepo, j))
	uploadHandler := upload.NewHandler(upload.NewService(
		upload.NewRepository(db),
		upload.NewFileStore(s.uploadDir),
		classifier.New(stub.URL, 5*time.Second, log),
		log,
	))

	r := gin.New()
	v1 := r.Group("/api/v1")
	authHandler.RegisterPublicRoutes(v1)
	protected := v1.Group("/")
	protected.Use(middleware.JWTAuth(j, userRepo))
	authHandler.RegisterProtectedRoutes(protected)
	upload.RegisterRoutes(protected, uploadHandler)

	s.router = r
	return s
}

func (s *testSuite) doJSON(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *testSuite) doUpload(token string, content []byte) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("image", "batch.jpg")
	part.Write(content)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func parseEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

func jpegContent() []byte {
	return append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 256)...)
}

func signup(t *testing.T, s *testSuite) string {
	t.Helper()
	rr := s.doJSON(http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"name":     "Aliya",
		"email":    "aliya@example.com",
		"phone":    "+77010000001",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	env := parseEnvelope(t, rr)
	token, _ := env.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestFullFlow(t *testing.T) {
	s := setupSuite(t)
	token := signup(t, s)

	// login with the phone captured at signup
	rr := s.doJSON(http.MethodPost, "/api/v1/auth/login", map[string]any{
		"phone":    "+77010000001",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	env := parseEnvelope(t, rr)
	loginToken := env.Data["token"].(string)
	require.NotEmpty(t, loginToken)

	// me
	rr = s.doJSON(http.MethodGet, "/api/v1/auth/me", nil, loginToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "aliya@example.com")

	// healthy upload
	rr = s.doUpload(token, jpegContent())
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	env = parseEnvelope(t, rr)
	pred := env.Data["prediction"].(map[string]interface{})
	assert.Equal(t, "healthy", pred["label"])
	assert.Nil(t, pred["disease"])

	// diseased upload
	s.classifierBody.Store(`{"label":"Diseased","confidence":0.81,"probabilities":{"Healthy":0.19,"Diseased":0.81}}`)
	rr = s.doUpload(token, jpegContent())
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	env = parseEnvelope(t, rr)
	pred = env.Data["prediction"].(map[string]interface{})
	assert.Equal(t, "diseased", pred["label"])
	assert.NotNil(t, pred["disease"])
	assert.NotEmpty(t, pred["preventiveMeasures"])

	// history: two records, most recent (diseased) first
	rr = s.doJSON(http.MethodGet, "/api/v1/upload/history", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	env = parseEnvelope(t, rr)
	uploads := env.Data["uploads"].([]interface{})
	require.Len(t, uploads, 2)
	firstPred := uploads[0].(map[string]interface{})["prediction"].(map[string]interface{})
	assert.Equal(t, "diseased", firstPred["label"])

	// stats: one entry per label
	rr = s.doJSON(http.MethodGet, "/api/v1/upload/stats", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	env = parseEnvelope(t, rr)
	stats := env.Data["stats"].([]interface{})
	assert.Len(t, stats, 2)
}

func TestUploadWithoutCredential(t *testing.T) {
	s := setupSuite(t)

	rr := s.doUpload("", jpegContent())
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	env := parseEnvelope(t, rr)
	require.NotNil(t, env.Error)
	assert.Equal(t, "AUTH_HEADER_MISSING", env.Error.Code)
}

func TestDuplicateSignup(t *testing.T) {
	s := setupSuite(t)
	signup(t, s)

	rr := s.doJSON(http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"name":     "Aliya Again",
		"email":    "aliya@example.com",
		"phone":    "+77010000002",
		"password": "secret123",
	}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "EMAIL_EXISTS")
}

func TestLoginWrongPassword(t *testing.T) {
	s := setupSuite(t)
	signup(t, s)

	rr := s.doJSON(http.MethodPost, "/api/v1/auth/login", map[string]any{
		"phone":    "+77010000001",
		"password": "nope",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_CREDENTIALS")
}
