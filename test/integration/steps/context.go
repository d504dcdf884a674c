// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/expense-tracker/backend/config"
	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/infra/dependency"
	"github.com/expense-tracker/backend/internal/integration/persistence/model"
	"github.com/expense-tracker/backend/test/integration/mock"
)

const (
	testIssuer = "https://id.ledger.test"
	testKeyID  = "ledger-test-key"
	jwksPath   = "/.well-known/jwks.json"
)

var (
	signingKeyOnce sync.Once
	signingKey     *rsa.PrivateKey
)

func testSigningKey() *rsa.PrivateKey {
	signingKeyOnce.Do(func() {
		var err error
		signingKey, err = rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
	})
	return signingKey
}

// recordingPublisher keeps every published event in order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []adapter.ExpenseChangedEvent
}

func (p *recordingPublisher) PublishExpenseChanged(_ context.Context, event adapter.ExpenseChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []adapter.ExpenseChangedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]adapter.ExpenseChangedEvent(nil), p.events...)
}

type testContext struct {
	cfg       *config.Config
	db        *mock.Db
	timeMock  *mock.Time
	jwks      *mock.ApiMock
	publisher *recordingPublisher
	injector  *dependency.Injector
	server    *httptest.Server
	client    *http.Client

	headers     map[string]string
	accessToken string
	response    *response
	ids         map[string]uuid.UUID
	lastID      string
}

type response struct {
	status int
	body   any
}

// InitializeTestSuite sets up resources before any scenario runs.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &testContext{
		client: &http.Client{Timeout: 10 * time.Second},
		db: mock.NewDb("expense_tracker", map[string]any{
			"regular_expenses":  &model.ExpenseModel{},
			"monthly_summaries": &model.MonthlySummaryModel{},
		}),
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		test.stopServer()
		if test.jwks != nil {
			test.jwks.Close()
		}
		return ctx, nil
	})

	registerSetupSteps(ctx, test)
	registerRequestSteps(ctx, test)
	registerAssertionSteps(ctx, test)
}

func (t *testContext) before() error {
	t.cfg = testConfig()
	t.timeMock = mock.NewTime()
	t.publisher = &recordingPublisher{}
	t.headers = make(map[string]string)
	t.accessToken = ""
	t.response = nil
	t.ids = make(map[string]uuid.UUID)
	t.lastID = ""

	t.jwks = mock.NewApiServer()
	t.jwks.Start()
	t.jwks.SetResponse(-1, http.MethodGet, jwksPath, http.StatusOK, jwksDocument(&testSigningKey().PublicKey))
	t.cfg.Auth.JWKSURI = t.jwks.GetUrl() + jwksPath

	if err := mock.ClearRedis(mock.NewRedis()); err != nil {
		return err
	}
	return t.db.ClearDB()
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		Auth: config.AuthConfig{
			Enabled: true,
			Issuer:  testIssuer,
		},
		Ledger: config.LedgerConfig{
			IncludeRecurring:        true,
			ExcludedExpenseChannels: []string{"creditCard", "tng"},
			DefaultTZOffsetMinutes:  480,
		},
		SummaryWorker: config.SummaryWorkerConfig{
			PollInterval:   time.Hour,
			LookbackMonths: 12,
		},
		RateLimit: config.RateLimitConfig{
			Enabled:     true,
			MaxRequests: 30,
			Window:      time.Minute,
		},
	}
}

func (t *testContext) startServer() {
	t.stopServer()

	t.injector = dependency.NewInjector(t.cfg, t.db.DbConn, dependency.Dependencies{
		Clock:     t.timeMock,
		Publisher: t.publisher,
		Redis:     mock.NewRedis(),
	})
	t.server = httptest.NewServer(t.injector.Router.Setup(t.cfg.Server.Environment))
}

func (t *testContext) stopServer() {
	if t.server != nil {
		t.server.Close()
		t.server = nil
	}
}

func jwksDocument(pub *rsa.PublicKey) map[string]any {
	return map[string]any{
		"keys": []any{
			map[string]any{
				"kid": testKeyID,
				"kty": "RSA",
				"use": "sig",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			},
		},
	}
}
