package authz

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Enforcer answers access-control checks against an in-memory snapshot
// of the permission table. The snapshot is replaced wholesale on Load,
// so checks never touch the database on the request path.
type Enforcer struct {
	repo   Repository
	logger *zap.Logger

	mu    sync.RWMutex
	rules map[ruleKey]bool
}

type ruleKey struct {
	resource string
	role     string
}

// NewEnforcer creates an enforcer with an empty rule set. Call Load
// before serving traffic.
func NewEnforcer(repo Repository, logger *zap.Logger) *Enforcer {
	return &Enforcer{repo: repo, logger: logger, rules: map[ruleKey]bool{}}
}

// Load replaces the in-memory snapshot with the current table contents.
func (e *Enforcer) Load(ctx context.Context) error {
	perms, err := e.repo.ListPermissions(ctx)
	if err != nil {
		return err
	}
	rules := make(map[ruleKey]bool, len(perms))
	for _, p := range perms {
		rules[ruleKey{resource: p.Resource, role: p.Role}] = p.Allowed
	}
	e.mu.Lock()
	e.rules = rules
	e.mu.Unlock()
	e.logger.Info("permission snapshot reloaded", zap.Int("rules", len(rules)))
	return nil
}

// Allowed reports whether role may access resource. ADMIN always may.
// Resources with no rule for the role are denied.
func (e *Enforcer) Allowed(resource, role string) bool {
	if role == "ADMIN" {
		return true
	}
	e.mu.RLock()
	allowed, ok := e.rules[ruleKey{resource: resource, role: role}]
	e.mu.RUnlock()
	return ok && allowed
}
