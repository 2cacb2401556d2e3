package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/ngo-case-service/internal/api/http/handlers"
	"github.com/spec-kit/ngo-case-service/internal/auth"
	"github.com/spec-kit/ngo-case-service/internal/config"
	"github.com/spec-kit/ngo-case-service/internal/domain"
	"github.com/spec-kit/ngo-case-service/internal/events"
	"github.com/spec-kit/ngo-case-service/internal/observability"
	"github.com/spec-kit/ngo-case-service/internal/permission"
	"github.com/spec-kit/ngo-case-service/internal/persistence"
	"github.com/spec-kit/ngo-case-service/internal/service"
)

type memWorkers map[int64]*domain.Worker

func (m memWorkers) FindWorker(_ context.Context, id int64) (*domain.Worker, error) {
	if w, ok := m[id]; ok {
		return w, nil
	}
	return nil, pgx.ErrNoRows
}

func (m memWorkers) GetByEmail(_ context.Context, email string) (*domain.Worker, error) {
	for _, w := range m {
		if w.Email == email {
			return w, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m memWorkers) List(_ context.Context) ([]domain.Worker, error) {
	out := make([]domain.Worker, 0, len(m))
	for _, w := range m {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memCases map[int64]*domain.Case

func (m memCases) FindCase(_ context.Context, id int64) (*domain.Case, error) {
	if c, ok := m[id]; ok {
		return c, nil
	}
	return nil, pgx.ErrNoRows
}

func (m memCases) CaseExists(_ context.Context, id int64) (bool, error) {
	_, ok := m[id]
	return ok, nil
}

func (m memCases) AllCaseIDs(_ context.Context) ([]int64, error) {
	return m.ids(func(*domain.Case) bool { return true }), nil
}

func (m memCases) CaseIDsByWorker(_ context.Context, workerID int64) ([]int64, error) {
	return m.ids(func(c *domain.Case) bool { return c.WorkerID == workerID }), nil
}

func (m memCases) ids(keep func(*domain.Case) bool) []int64 {
	out := []int64{}
	for id, c := range m {
		if keep(c) {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type memNeeds map[int64]*domain.SupplyNeed

func (m memNeeds) GetByID(_ context.Context, id int64) (*domain.SupplyNeed, error) {
	if n, ok := m[id]; ok {
		copied := *n
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (m memNeeds) FindOwningCaseID(_ context.Context, id int64) (int64, error) {
	if n, ok := m[id]; ok {
		return n.CaseID, nil
	}
	return 0, pgx.ErrNoRows
}

func (m memNeeds) SetStatus(_ context.Context, id int64, status domain.NeedStatus) error {
	n, ok := m[id]
	if !ok {
		return pgx.ErrNoRows
	}
	n.Status = status
	return nil
}

func (m memNeeds) MarkCollected(_ context.Context, id int64, batchID *int64, pickupAt time.Time) error {
	n, ok := m[id]
	if !ok {
		return pgx.ErrNoRows
	}
	n.Status = domain.NeedStatusCollected
	n.BatchID = batchID
	n.PickupDate = &pickupAt
	return nil
}

func (m memNeeds) Delete(_ context.Context, id int64) error {
	if _, ok := m[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m, id)
	return nil
}

type apiHarness struct {
	app   *fiber.App
	needs memNeeds
	audit *observer.ObservedLogs
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	workers := memWorkers{
		1: {ID: 1, Email: "sup@example.org", Password: "sup-pw", Name: "Sup", Role: "supervisor"},
		2: {ID: 2, Email: "admin@example.org", Password: "admin-pw", Name: "Ada", Role: "Admin"},
		7: {ID: 7, Email: "mei@example.org", Password: "mei-pw", Name: "Mei", Role: "staff"},
		8: {ID: 8, Email: "lin@example.org", Password: "lin-pw", Name: "Lin", Role: ""},
	}
	cases := memCases{
		42: {ID: 42, Name: "Chen family", WorkerID: 7, Status: "active"},
		99: {ID: 99, Name: "Wang family", WorkerID: 8, Status: "active"},
	}
	needs := memNeeds{
		15: {ID: 15, CaseID: 42, SupplyID: 3, Quantity: 2, Status: domain.NeedStatusPending, ApplyDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
		16: {ID: 16, CaseID: 99, SupplyID: 4, Quantity: 1, Status: domain.NeedStatusPending, ApplyDate: time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)},
	}

	core, audit := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	service.NewNotificationService(dispatcher, logger, false).RegisterHandlers()

	roles := permission.NewRoleResolver(workers, logger)
	ownership := permission.NewOwnershipResolver(cases, roles, logger)
	evaluator := permission.NewEvaluator(roles, ownership, logger)

	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		Secret:   "router-test-secret-with-32-bytes!!",
		Issuer:   "ngo-case-service",
		Audience: "ngo-case-clients",
	})
	require.NoError(t, err)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health: handlers.NewHealthHandler("ngo-case-service", "test", map[string]handlers.Pinger{
			"postgres": &persistence.Postgres{},
		}),
		Auth: handlers.NewAuthHandler(service.NewAuthService(service.AuthDependencies{
			WorkerRepo: workers,
			Tokens:     tokens,
			Passwords:  auth.NewPasswordChecker(config.PasswordModePlaintext),
		})),
		Cases: handlers.NewCasesHandler(service.NewCaseService(cases, evaluator)),
		SupplyNeeds: handlers.NewSupplyNeedsHandler(service.NewSupplyNeedService(service.SupplyNeedDependencies{
			NeedRepo:   needs,
			Dispatcher: dispatcher,
		})),
		Gate: auth.NewGate(auth.GateDependencies{
			Tokens:     tokens,
			Locator:    permission.NewLocator(needs, logger),
			Evaluator:  evaluator,
			Dispatcher: dispatcher,
			Metrics:    metrics,
		}),
		Metrics: metrics,
	})
	return &apiHarness{app: app, needs: needs, audit: audit}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (h *apiHarness) call(t *testing.T, method, target, token string, body any) (int, envelope, string) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env, string(raw)
}

func (h *apiHarness) login(t *testing.T, email, password string) string {
	t.Helper()
	status, env, _ := h.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status)
	var data struct {
		Auth struct {
			Token string `json:"token"`
		} `json:"auth"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Auth.Token)
	return data.Auth.Token
}

func TestLogin(t *testing.T) {
	h := newAPIHarness(t)

	status, env, _ := h.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "mei@example.org",
		"password": "mei-pw",
	})
	require.Equal(t, http.StatusOK, status)
	var data struct {
		Worker struct {
			ID   int64  `json:"worker_id"`
			Role string `json:"role"`
		} `json:"worker"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(7), data.Worker.ID)
	assert.Equal(t, "staff", data.Worker.Role)
	assert.NotContains(t, string(env.Data), "mei-pw")
}

func TestLogin_GenericFailure(t *testing.T) {
	h := newAPIHarness(t)

	for _, creds := range []map[string]string{
		{"email": "mei@example.org", "password": "nope"},
		{"email": "ghost@example.org", "password": "mei-pw"},
	} {
		status, env, _ := h.call(t, http.MethodPost, "/api/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "invalid email or password", env.Error.Message)
	}
}

func TestVerifyEmail(t *testing.T) {
	h := newAPIHarness(t)

	status, env, _ := h.call(t, http.MethodPost, "/api/auth/verify-email", "", map[string]string{"email": "lin@example.org"})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"email":"lin@example.org","exists":true}`, string(env.Data))

	status, _, _ = h.call(t, http.MethodPost, "/api/auth/verify-email", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestMe(t *testing.T) {
	h := newAPIHarness(t)
	token := h.login(t, "admin@example.org", "admin-pw")

	status, env, _ := h.call(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"role":"admin"`)

	status, env, _ = h.call(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHENTICATED", env.Error.Code)
}

func TestListWorkers_ElevatedOnly(t *testing.T) {
	h := newAPIHarness(t)

	status, _, _ := h.call(t, http.MethodGet, "/api/auth/workers", h.login(t, "mei@example.org", "mei-pw"), nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env, _ := h.call(t, http.MethodGet, "/api/auth/workers", h.login(t, "sup@example.org", "sup-pw"), nil)
	require.Equal(t, http.StatusOK, status)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 4)
}

func TestGetCase(t *testing.T) {
	h := newAPIHarness(t)
	mei := h.login(t, "mei@example.org", "mei-pw")

	status, env, _ := h.call(t, http.MethodGet, "/api/cases/42", mei, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"case_id":42`)

	status, env, _ = h.call(t, http.MethodGet, "/api/cases/99", mei, nil)
	assert.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	// Elevated roles see every case, so a missing one reaches the handler.
	status, _, _ = h.call(t, http.MethodGet, "/api/cases/404", h.login(t, "sup@example.org", "sup-pw"), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestForbiddenRequestIsAuditedOnce(t *testing.T) {
	h := newAPIHarness(t)
	mei := h.login(t, "mei@example.org", "mei-pw")
	h.audit.TakeAll()

	status, _, _ := h.call(t, http.MethodGet, "/api/cases/99", mei, nil)
	require.Equal(t, http.StatusForbidden, status)

	assert.Equal(t, 1, h.audit.FilterMessageSnippet("denied").Len())
	denied := h.audit.FilterMessage("access_denied").All()
	require.Len(t, denied, 1)
	assert.Equal(t, zapcore.WarnLevel, denied[0].Level)
	assert.Equal(t, 1, h.audit.FilterMessage("request").Len())
}

func TestAccessibleCases(t *testing.T) {
	h := newAPIHarness(t)

	status, env, _ := h.call(t, http.MethodGet, "/api/cases/accessible", h.login(t, "mei@example.org", "mei-pw"), nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"case_ids":[42]}`, string(env.Data))

	status, env, _ = h.call(t, http.MethodGet, "/api/cases/accessible", h.login(t, "admin@example.org", "admin-pw"), nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"case_ids":[42,99]}`, string(env.Data))
}

func TestPermissionCheck(t *testing.T) {
	h := newAPIHarness(t)
	lin := h.login(t, "lin@example.org", "lin-pw")

	cases := []struct {
		query   string
		allowed bool
		reason  string
	}{
		{query: "action=approve&caseId=99", allowed: true},
		{query: "action=approve&caseId=42", allowed: false, reason: permission.ReasonNotAuthorizedForCase},
		{query: "action=distribute", allowed: false, reason: permission.ReasonRequiresElevatedRole},
		{query: "action=Delete", allowed: true},
		{query: "action=teleport", allowed: false, reason: permission.ReasonUnknownAction},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			status, env, _ := h.call(t, http.MethodGet, "/api/permissions/check?"+tc.query, lin, nil)
			require.Equal(t, http.StatusOK, status)
			var data struct {
				Allowed bool   `json:"allowed"`
				Reason  string `json:"reason"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &data))
			assert.Equal(t, tc.allowed, data.Allowed)
			assert.Equal(t, tc.reason, data.Reason)
		})
	}

	status, _, _ := h.call(t, http.MethodGet, "/api/permissions/check?action=view&caseId=abc", lin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSupplyNeedLifecycle(t *testing.T) {
	h := newAPIHarness(t)
	mei := h.login(t, "mei@example.org", "mei-pw")
	lin := h.login(t, "lin@example.org", "lin-pw")
	sup := h.login(t, "sup@example.org", "sup-pw")

	// Need 15 belongs to case 42, owned by Mei.
	status, _, _ := h.call(t, http.MethodGet, "/api/regular-supplies-needs/15", lin, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env, _ := h.call(t, http.MethodGet, "/api/regular-supplies-needs/15", mei, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"apply_date":"2025-07-01"`)

	status, _, _ = h.call(t, http.MethodPost, "/api/regular-supplies-needs/15/approve", lin, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, domain.NeedStatusPending, h.needs[15].Status)

	status, env, _ = h.call(t, http.MethodPost, "/api/regular-supplies-needs/15/approve", mei, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"status":"approved"`)

	status, _, _ = h.call(t, http.MethodPost, "/api/regular-supplies-needs/15/collect", mei, map[string]int64{"batch_id": 5})
	assert.Equal(t, http.StatusForbidden, status)

	status, _, _ = h.call(t, http.MethodPost, "/api/regular-supplies-needs/15/collect", sup, map[string]int64{"batch_id": 5})
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, h.needs[15].BatchID)
	assert.Equal(t, int64(5), *h.needs[15].BatchID)
	assert.Equal(t, domain.NeedStatusCollected, h.needs[15].Status)

	status, _, _ = h.call(t, http.MethodPost, "/api/regular-supplies-needs/16/reject", lin, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _, _ = h.call(t, http.MethodDelete, "/api/regular-supplies-needs/16", lin, nil)
	assert.Equal(t, http.StatusNoContent, status)
	assert.NotContains(t, h.needs, int64(16))

	assert.Equal(t, 1, h.audit.FilterMessage("need_approved").Len())
	assert.Equal(t, 1, h.audit.FilterMessage("need_collected").Len())
	assert.Equal(t, 1, h.audit.FilterMessage("need_deleted").Len())
	assert.Equal(t, 3, h.audit.FilterMessage("access_denied").Len())
}

func TestSupplyNeed_MissingRecordIsNotFoundForElevated(t *testing.T) {
	h := newAPIHarness(t)

	status, env, _ := h.call(t, http.MethodPost, "/api/regular-supplies-needs/500/approve", h.login(t, "admin@example.org", "admin-pw"), nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newAPIHarness(t)

	status, _, _ := h.call(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _, _ = h.call(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)

	h.call(t, http.MethodGet, "/api/cases/42", "", nil)
	status, _, body := h.call(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `authorization_decisions_total{action="view",outcome="unauthenticated"} 1`)
	assert.Contains(t, body, "http_requests_total")
}
