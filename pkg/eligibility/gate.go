package eligibility

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/postkit/pkg/persona"
	"github.com/dmitrymomot/postkit/pkg/quota"
	"github.com/dmitrymomot/postkit/pkg/state"
	"github.com/dmitrymomot/postkit/pkg/subscription"
	"github.com/dmitrymomot/postkit/pkg/variety"
)

// DefaultCommitWait bounds how long an ALLOWED request may await its commit
// or rollback callback before the gate rolls it back automatically.
const DefaultCommitWait = 5 * time.Minute

// DefaultRetryAttempts bounds optimistic-concurrency retries during commit.
const DefaultRetryAttempts = 3

// Gate is the request-level orchestrator: it composes the subscription
// registry, quota tracker, variety window, and persona resolver into the
// check/commit/rollback protocol. It is the only component callers interact
// with directly.
type Gate struct {
	store    state.Store
	registry *subscription.Registry
	resolver *persona.Resolver
	limits   subscription.Limits

	tracker *quota.Tracker
	window  *variety.Window
	pending *pendingSet

	attempts   int
	commitWait time.Duration
	log        *slog.Logger
	now        func() time.Time
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithLogger sets the gate's logger. Nil loggers are ignored.
func WithLogger(log *slog.Logger) GateOption {
	return func(g *Gate) {
		if log != nil {
			g.log = log
		}
	}
}

// WithCommitWait overrides the auto-rollback window for abandoned requests.
// Non-positive values are ignored.
func WithCommitWait(d time.Duration) GateOption {
	return func(g *Gate) {
		if d > 0 {
			g.commitWait = d
		}
	}
}

// WithRetryAttempts overrides the commit CAS retry budget. Values below 1
// are ignored.
func WithRetryAttempts(n int) GateOption {
	return func(g *Gate) {
		if n >= 1 {
			g.attempts = n
		}
	}
}

// WithClock injects a clock, used by tests to pin quota boundaries.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGate creates a Gate over the given store and collaborators. The quota
// tracker and variety window are built on the same store so the two-key
// commit observes the versions the check observed. Panics on nil
// dependencies to fail fast during initialization.
func NewGate(store state.Store, registry *subscription.Registry, resolver *persona.Resolver, limits subscription.Limits, opts ...GateOption) *Gate {
	if store == nil {
		panic("eligibility: state.Store is required")
	}
	if registry == nil {
		panic("eligibility: subscription.Registry is required")
	}
	if resolver == nil {
		panic("eligibility: persona.Resolver is required")
	}

	g := &Gate{
		store:      store,
		registry:   registry,
		resolver:   resolver,
		limits:     limits,
		pending:    newPendingSet(),
		attempts:   DefaultRetryAttempts,
		commitWait: DefaultCommitWait,
		log:        slog.Default(),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(g)
	}

	g.tracker = quota.NewTracker(store, quota.WithRetryAttempts(g.attempts))
	g.window = variety.NewWindow(store, variety.WithRetryAttempts(g.attempts))
	return g
}

// CheckEligibility runs the RECEIVED -> CHECKED -> {ALLOWED, DENIED} portion
// of the request lifecycle. Denials are decisions, not errors; the error
// return carries infrastructure failures only.
//
// An unhealthy subscription denies outright without consulting quota, and
// takes precedence over every other reason. Allowed decisions register a
// pending request that must be finished with Commit or Rollback before the
// commit wait elapses.
func (g *Gate) CheckEligibility(ctx context.Context, userID uuid.UUID, personaID string, role persona.Role) (Decision, error) {
	lc := newLifecycle()
	now := g.now()

	sub, err := g.registry.GetStatus(ctx, userID)
	if err != nil {
		return Decision{}, classify(err)
	}
	if err := lc.to(StateChecked); err != nil {
		return Decision{}, err
	}

	if !sub.IsBillingHealthy() {
		return g.deny(ctx, lc, userID, ReasonSubscriptionInactive)
	}

	rec, err := g.tracker.CheckAndReset(ctx, userID, now)
	if err != nil {
		return Decision{}, classify(err)
	}
	if !quota.CanConsume(rec, g.limits.For(sub.Plan)) {
		return g.deny(ctx, lc, userID, ReasonQuotaExceeded)
	}

	p, err := g.resolver.Resolve(ctx, userID, personaID, role)
	if err != nil {
		if errors.Is(err, persona.ErrForbiddenPersona) {
			return g.deny(ctx, lc, userID, ReasonForbiddenPersona)
		}
		return Decision{}, classify(err)
	}

	hooks, err := g.window.Recent(ctx, userID, g.window.Capacity())
	if err != nil {
		return Decision{}, classify(err)
	}

	if err := lc.to(StateAllowed); err != nil {
		return Decision{}, err
	}
	// The caller generates from here on; no lock or transaction is held.
	if err := lc.to(StateGenerating); err != nil {
		return Decision{}, err
	}

	req := &pendingRequest{
		id:        uuid.New(),
		userID:    userID,
		lifecycle: lc,
		createdAt: now,
	}
	req.timer = time.AfterFunc(g.commitWait, func() {
		g.expire(userID, req.id)
	})
	g.pending.add(req)

	g.log.InfoContext(ctx, "generation allowed",
		"user_id", userID,
		"request_id", req.id,
		"plan", sub.Plan,
		"posts_this_month", rec.PostsThisMonth,
		"persona", p.ID,
	)

	return Decision{
		RequestID:       req.id,
		Allowed:         true,
		ProhibitedHooks: hooks,
		Persona:         p,
	}, nil
}

// Commit finishes the user's oldest pending request after a successful
// generation, recording hook and consuming one quota unit in a single
// transactional scope. The reset condition is re-validated at commit time,
// so a request straddling a boundary still resets before incrementing.
func (g *Gate) Commit(ctx context.Context, userID uuid.UUID, hook string) error {
	if hook == "" {
		return variety.ErrEmptyHook
	}

	req := g.pending.claimOldest(userID)
	if req == nil {
		return ErrNoPendingRequest
	}

	newCount, err := g.commitState(ctx, userID, hook)
	if err != nil {
		// Leave the request pending so the caller can retry the commit once;
		// re-arming the expiry timer keeps the retry window bounded.
		g.pending.unclaim(req, g.commitWait)
		return err
	}

	if err := req.lifecycle.to(StateCommitted); err != nil {
		// Unreachable for a claimed generating request; log, never hide.
		g.log.ErrorContext(ctx, "lifecycle violation on commit", "request_id", req.id, "error", err)
	}
	g.pending.remove(req)

	g.log.InfoContext(ctx, "generation committed",
		"user_id", userID,
		"request_id", req.id,
		"posts_this_month", newCount,
	)
	return nil
}

// Rollback finishes the user's oldest pending request after a failed or
// abandoned generation, leaving quota and variety state exactly as observed
// at check time. Calling it after a denial or with nothing pending is a
// no-op.
func (g *Gate) Rollback(ctx context.Context, userID uuid.UUID) error {
	req := g.pending.claimOldest(userID)
	if req == nil {
		return nil
	}

	if err := req.lifecycle.to(StateRolledBack); err != nil {
		g.log.ErrorContext(ctx, "lifecycle violation on rollback", "request_id", req.id, "error", err)
	}
	g.pending.remove(req)

	g.log.InfoContext(ctx, "generation rolled back", "user_id", userID, "request_id", req.id)
	return nil
}

// PendingCount reports how many of the user's requests await commit or
// rollback.
func (g *Gate) PendingCount(userID uuid.UUID) int {
	return g.pending.count(userID)
}

// Usage reports the user's current quota position for dashboards.
func (g *Gate) Usage(ctx context.Context, userID uuid.UUID) (quota.Usage, error) {
	sub, err := g.registry.GetStatus(ctx, userID)
	if err != nil {
		return quota.Usage{}, classify(err)
	}
	usage, err := g.tracker.CurrentUsage(ctx, userID, g.now(), g.limits.For(sub.Plan))
	if err != nil {
		return quota.Usage{}, classify(err)
	}
	return usage, nil
}

// commitState applies the quota increment and hook append atomically through
// the store's two-key commit, retrying version conflicts within the budget.
func (g *Gate) commitState(ctx context.Context, userID uuid.UUID, hook string) (int64, error) {
	now := g.now()

	for range g.attempts {
		qrec, err := g.store.GetQuota(ctx, userID)
		expQuota := int64(0)
		switch {
		case errors.Is(err, state.ErrNotFound):
			qrec = state.QuotaRecord{UserID: userID, ResetAt: now}
		case err != nil:
			return 0, classify(err)
		default:
			expQuota = qrec.Version
			qrec, _ = quota.Advance(qrec, now)
		}
		qrec.PostsThisMonth++

		wrec, err := g.store.GetWindow(ctx, userID)
		expWindow := int64(0)
		switch {
		case errors.Is(err, state.ErrNotFound):
			wrec = state.WindowRecord{UserID: userID}
		case err != nil:
			return 0, classify(err)
		default:
			expWindow = wrec.Version
		}
		wrec.Hooks = variety.AppendTrim(wrec.Hooks, hook, g.window.Capacity())

		err = g.store.CommitGeneration(ctx, qrec, wrec, expQuota, expWindow)
		switch {
		case err == nil:
			return qrec.PostsThisMonth, nil
		case errors.Is(err, state.ErrVersionConflict):
			continue
		default:
			return 0, classify(err)
		}
	}
	return 0, ErrTransientConflict
}

// deny finishes the lifecycle in DENIED and returns the decision.
func (g *Gate) deny(ctx context.Context, lc *lifecycle, userID uuid.UUID, reason Reason) (Decision, error) {
	if err := lc.to(StateDenied); err != nil {
		return Decision{}, err
	}
	g.log.InfoContext(ctx, "generation denied", "user_id", userID, "reason", reason)
	return Decision{Allowed: false, Reason: reason}, nil
}

// expire rolls back a request whose commit wait elapsed. An in-flight
// Commit or Rollback that claimed the request first wins the race.
func (g *Gate) expire(userID, requestID uuid.UUID) {
	req := g.pending.claimByID(userID, requestID)
	if req == nil {
		return
	}

	if err := req.lifecycle.to(StateRolledBack); err != nil {
		g.log.Error("lifecycle violation on expiry", "request_id", req.id, "error", err)
	}
	g.pending.remove(req)

	g.log.Warn("generation request expired without commit",
		"user_id", userID,
		"request_id", requestID,
		"commit_wait", g.commitWait,
	)
}

// classify maps collaborator failures onto the gate's error taxonomy.
func classify(err error) error {
	switch {
	case errors.Is(err, state.ErrUnavailable), errors.Is(err, subscription.ErrSourceUnavailable):
		return errors.Join(ErrStorageUnavailable, err)
	case errors.Is(err, state.ErrVersionConflict),
		errors.Is(err, quota.ErrTransientConflict),
		errors.Is(err, variety.ErrTransientConflict):
		return errors.Join(ErrTransientConflict, err)
	default:
		return err
	}
}
