package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	adaptershttp "github.com/cryptobud/cryptobud/internal/adapter/http"
	"github.com/cryptobud/cryptobud/internal/adapter/http/dto"
	"github.com/cryptobud/cryptobud/internal/adapter/http/handler"
	"github.com/cryptobud/cryptobud/internal/adapter/repository/postgres"
	redisrepo "github.com/cryptobud/cryptobud/internal/adapter/repository/redis"
	"github.com/cryptobud/cryptobud/internal/infrastructure/auth"
	infraredis "github.com/cryptobud/cryptobud/internal/infrastructure/redis"
	"github.com/cryptobud/cryptobud/internal/usecase"
	"github.com/cryptobud/cryptobud/tests/testutil"
)

// testEnv wires the full HTTP stack against real postgres and redis.
type testEnv struct {
	DB     *testutil.TestDB
	Router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(ctx)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { _ = redisClient.Close() })

	pool := testDB.Pool
	transactionRepo := postgres.NewTransactionRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()
	cache := redisrepo.NewCache(redisClient)
	idempotencyStore := redisrepo.NewIdempotencyStore(redisClient)

	transactionUC := usecase.NewTransactionUseCase(txManager, transactionRepo, cache, idGen, nil).
		WithRetrier(postgres.NewRetrier())
	reportUC := usecase.NewReportUseCase(transactionRepo, cache, nil)
	userUC := usecase.NewUserUseCase(userRepo, idGen)

	jwtManager := auth.NewJWTManager("integration-test-secret", time.Hour)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		AuthHandler:        handler.NewAuthHandler(userUC, jwtManager),
		ImportHandler:      handler.NewImportHandler(transactionUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		ReportHandler:      handler.NewReportHandler(reportUC),
		ExportHandler:      handler.NewExportHandler(transactionUC, reportUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		JWTManager:         jwtManager,
		IdempotencyStore:   idempotencyStore,
	})

	return &testEnv{DB: testDB, Router: router}
}

// do executes one request against the router and returns the recorder.
func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, r)
	return w
}

// upload posts a CSV file to the import preview endpoint.
func (env *testEnv) upload(t *testing.T, token, csv string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "export.csv")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(csv)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/v1/import/", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	r.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, r)
	return w
}

// registerAndLogin creates a user through the API and returns a bearer token.
func (env *testEnv) registerAndLogin(t *testing.T, email, password string) string {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Email:    email,
		Name:     "Integration Tester",
		Password: password,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email:    email,
		Password: password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}

	var token dto.TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &token); err != nil {
		t.Fatalf("failed to parse token response: %v", err)
	}
	return token.Token
}
