// Package resolve matches an operator-supplied identifier against records whose identifiers are
// encoded inconsistently, and picks the canonical job and shift for a report.
package resolve

import (
	"firewatch/models"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Match records which branch produced a record.
type Match int

const (
	NoMatch Match = iota
	MatchBare
	MatchWrapped
	MatchTrimmed
	// MatchFallback means no identifier matched and the first valid record was used instead.
	MatchFallback
)

func (m Match) String() string {
	switch m {
	case MatchBare:
		return "bare"
	case MatchWrapped:
		return "wrapped"
	case MatchTrimmed:
		return "trimmed"
	case MatchFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Exact reports whether the record was found by its identifier rather than by the fallback policy.
func (m Match) Exact() bool { return m == MatchBare || m == MatchWrapped || m == MatchTrimmed }

// Resolver looks records up by identifier. It is read-only and only logs diagnostics.
type Resolver struct {
	log logrus.FieldLogger
}

// New returns a Resolver logging to log. A nil logger discards diagnostics.
func New(log logrus.FieldLogger) *Resolver {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Resolver{log: log}
}

// matchBranch compares key with one stored identifier, returning the branch it matched on.
func matchBranch(key string, stored models.Value) Match {
	switch stored.Kind() {
	case models.Raw:
		if stored.String() == key {
			return MatchBare
		}
	case models.Wrapped:
		if stored.String() == key {
			return MatchWrapped
		}
	default:
		return NoMatch
	}
	if stored.Key() == key {
		return MatchTrimmed
	}
	return NoMatch
}

// Matches reports whether stored identifies the same record as key under any branch.
func Matches(key string, stored models.Value) bool {
	return matchBranch(strings.TrimSpace(key), stored) != NoMatch
}

// Find returns the record whose field matches key. Branches are tried in priority order over the whole
// collection: bare exact, wrapped exact, then trimmed. If nothing matches, the first record accepted by
// valid is returned with MatchFallback. ok is false only when no record qualifies at all.
func Find[T any](r *Resolver, key string, records []T, field func(T) models.Value, valid func(T) bool) (rec T, match Match, ok bool) {
	key = strings.TrimSpace(key)
	if key != "" {
		for _, branch := range []Match{MatchBare, MatchWrapped, MatchTrimmed} {
			for _, candidate := range records {
				if matchBranch(key, field(candidate)) == branch {
					r.log.WithFields(logrus.Fields{"key": key, "branch": branch.String()}).Debug("🔎 Record matched")
					return candidate, branch, true
				}
			}
		}
	}

	r.log.WithFields(logrus.Fields{"key": key, "records": len(records)}).Warn("⚠️  No record matched identifier, trying fallback")
	for _, candidate := range records {
		if valid == nil || valid(candidate) {
			r.log.WithField("key", key).Warn("⚠️  Using fallback record")
			return candidate, MatchFallback, true
		}
	}
	var zero T
	return zero, NoMatch, false
}

// ResolveUser finds the officer for userID. The fallback accepts any user with an email or name.
func (r *Resolver) ResolveUser(userID string, users []models.User) (models.User, Match, bool) {
	return Find(r, userID, users,
		func(u models.User) models.Value { return u.ID },
		func(u models.User) bool { return u.Email.Key() != "" || u.Name.Key() != "" },
	)
}

// Logger returns the logger diagnostics are written to.
func (r *Resolver) Logger() logrus.FieldLogger { return r.log }
