package permission

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// DependentIDParam is the route argument used for indirection when no case
// parameter resolves.
const DependentIDParam = "id"

// RoutePolicy is declared per protected route.
type RoutePolicy struct {
	Action Action
	// CaseIDParam names the route or query parameter carrying a case id.
	CaseIDParam string
}

// RequestParams holds the raw parameters of an inbound request.
type RequestParams struct {
	Route map[string]string
	Query map[string]string
}

// Locator finds the case a request concerns.
type Locator struct {
	needs  NeedStore
	logger *zap.Logger
}

// NewLocator builds a locator. needs may be nil to disable indirection.
func NewLocator(needs NeedStore, logger *zap.Logger) *Locator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{needs: needs, logger: logger}
}

// Locate returns the case id for the request, or false when none resolves.
// Resolution order: the named route parameter, the named query parameter,
// then the owning case of the record identified by the "id" route argument.
// A present but unparseable route value does not fall through to the query.
func (l *Locator) Locate(ctx context.Context, policy RoutePolicy, params RequestParams) (int64, bool) {
	if name := policy.CaseIDParam; name != "" {
		if raw, ok := params.Route[name]; ok {
			if id, ok := parseID(raw); ok {
				return id, true
			}
		} else if raw, ok := params.Query[name]; ok {
			if id, ok := parseID(raw); ok {
				return id, true
			}
		}
	}

	raw, ok := params.Route[DependentIDParam]
	if !ok || l.needs == nil {
		return 0, false
	}
	needID, ok := parseID(raw)
	if !ok {
		return 0, false
	}
	return l.owningCase(ctx, needID)
}

func (l *Locator) owningCase(ctx context.Context, needID int64) (int64, bool) {
	caseID, err := l.needs.FindOwningCaseID(ctx, needID)
	res := newLookup(caseID, err)
	if res.Status == LookupStoreError {
		l.logger.Warn("need lookup failed; continuing without case scope",
			zap.Int64("need_id", needID), zap.Error(res.Err))
	}
	if !res.Found() {
		return 0, false
	}
	return res.Value, true
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
