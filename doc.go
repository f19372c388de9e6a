// Package postkit implements the generation eligibility and content-variety
// engine for a subscription-gated posting platform.
//
// The engine answers one question for every generation attempt: may this
// user generate a post right now, and if so, which recent opening hooks must
// the new post avoid? It tracks monthly quota counters and a sliding window
// of recent hooks per user, both guarded by optimistic concurrency so that
// concurrent attempts never double-count or lose a hook.
//
// Packages:
//
//   - pkg/eligibility: the gate composing billing status, quota, persona
//     access, and the pending-request lifecycle
//   - pkg/quota: calendar-month counters with lazy resets
//   - pkg/variety: the fixed-capacity recent-hook window
//   - pkg/state: quota and window persistence (memory, PostgreSQL, Redis)
//   - pkg/subscription: billing status sources (memory, MongoDB) with
//     caching and a free-plan fallback
//   - pkg/persona: persona catalogs and role-aware resolution
//   - pkg/generation: the content pipeline contract
//   - modules/generation: a mountable HTTP surface over the gate
//
// Ambient packages (config, logger, pg, redis, mongo, requestid) carry the
// service plumbing: environment-driven configuration, structured logging,
// connections, migrations, and health checks.
package postkit
