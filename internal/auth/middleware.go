package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ngo-case-service/internal/events"
	"github.com/spec-kit/ngo-case-service/internal/observability"
	"github.com/spec-kit/ngo-case-service/internal/permission"
	apperrors "github.com/spec-kit/ngo-case-service/pkg/util/errorutil"
)

const workerIDKey = "auth_worker_id"

type workerIDContextKey struct{}

// Gate authenticates the bearer token and enforces a route's policy.
type Gate struct {
	tokens     *TokenManager
	locator    *permission.Locator
	evaluator  *permission.Evaluator
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
}

// GateDependencies bundles the collaborators of a Gate.
type GateDependencies struct {
	Tokens     *TokenManager
	Locator    *permission.Locator
	Evaluator  *permission.Evaluator
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
}

// NewGate constructs the gate.
func NewGate(deps GateDependencies) *Gate {
	return &Gate{
		tokens:     deps.Tokens,
		locator:    deps.Locator,
		evaluator:  deps.Evaluator,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
	}
}

// Require returns middleware enforcing policy on a route.
func (g *Gate) Require(policy permission.RoutePolicy) fiber.Handler {
	action := policy.Action.String()

	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			g.metrics.RecordDecision(action, observability.OutcomeUnauthenticated)
			return apperrors.NewUnauthorized("missing or malformed bearer token")
		}

		workerID, ok := g.tokens.SubjectIDOf(token)
		if !ok {
			g.metrics.RecordDecision(action, observability.OutcomeUnauthenticated)
			return apperrors.NewUnauthorized("invalid token")
		}

		ctx := c.UserContext()
		var caseID *int64
		if id, found := g.locator.Locate(ctx, policy, permission.RequestParams{
			Route: c.AllParams(),
			Query: c.Queries(),
		}); found {
			caseID = &id
		}

		decision := g.evaluator.CanPerformAction(ctx, workerID, policy.Action, caseID)
		if !decision.Allowed() {
			g.metrics.RecordDecision(action, observability.OutcomeForbidden)
			g.publish(c, events.EventAccessDenied, workerID, caseID, action, decision.Reason())
			return apperrors.NewForbidden("forbidden")
		}

		g.metrics.RecordDecision(action, observability.OutcomeAllowed)
		g.publish(c, events.EventAccessGranted, workerID, caseID, action, "")

		c.Locals(workerIDKey, workerID)
		c.SetUserContext(context.WithValue(ctx, workerIDContextKey{}, workerID))
		return c.Next()
	}
}

func (g *Gate) publish(c *fiber.Ctx, eventType events.EventType, workerID int64, caseID *int64, action, reason string) {
	if g.dispatcher == nil {
		return
	}
	g.dispatcher.Publish(c.UserContext(), events.New(eventType, workerID, caseID, events.AccessPayload{
		Action:    action,
		Method:    c.Method(),
		Path:      c.Path(),
		Reason:    reason,
		RequestID: observability.RequestID(c),
	}))
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// WorkerIDFromContext returns the worker id attached by the gate.
func WorkerIDFromContext(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(workerIDKey).(int64)
	return id, ok
}

// WorkerIDFromUserContext returns the worker id from a request context.
func WorkerIDFromUserContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(workerIDContextKey{}).(int64)
	return id, ok
}
