package resolve

import (
	"encoding/json"
	"firewatch/models"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ResolverSuite struct {
	suite.Suite
	r *Resolver
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.r = New(nil)
}

func (s *ResolverSuite) users(raw string) []models.User {
	var users []models.User
	s.Require().NoError(json.Unmarshal([]byte(raw), &users))
	return users
}

func (s *ResolverSuite) shifts(raw string) []models.Shift {
	var shifts []models.Shift
	s.Require().NoError(json.Unmarshal([]byte(raw), &shifts))
	return shifts
}

// TestResolveUserAcrossEncodings verifies every identifier encoding resolves to the same logical record.
func (s *ResolverSuite) TestResolveUserAcrossEncodings() {
	encodings := map[string]string{
		"bare":    `"67bdcde27c642e2f9b2dc430"`,
		"wrapped": `{"$oid": "67bdcde27c642e2f9b2dc430"}`,
		"padded":  `"  67bdcde27c642e2f9b2dc430  "`,
	}
	for name, id := range encodings {
		s.Run(name, func() {
			users := s.users(`[
				{"_id": "someone-else", "email": "other@redline.com"},
				{"_id": ` + id + `, "email": "officer@redline.com", "name": "Jane Officer"}
			]`)
			user, match, ok := s.r.ResolveUser("67bdcde27c642e2f9b2dc430", users)
			s.Require().True(ok)
			s.True(match.Exact())
			s.Equal("officer@redline.com", user.Email.String())
		})
	}

	s.Run("query key whitespace is ignored", func() {
		users := s.users(`[{"_id": {"$oid": "abc"}, "email": "a@redline.com"}]`)
		user, match, ok := s.r.ResolveUser("  abc ", users)
		s.Require().True(ok)
		s.Equal(MatchWrapped, match)
		s.Equal("a@redline.com", user.Email.String())
	})
}

// TestMatchPriority verifies stronger branches win over weaker ones regardless of order.
func (s *ResolverSuite) TestMatchPriority() {
	users := s.users(`[
		{"_id": " abc ", "email": "trimmed@redline.com"},
		{"_id": {"$oid": "abc"}, "email": "wrapped@redline.com"},
		{"_id": "abc", "email": "bare@redline.com"}
	]`)
	user, match, ok := s.r.ResolveUser("abc", users)
	s.Require().True(ok)
	s.Equal(MatchBare, match)
	s.Equal("bare@redline.com", user.Email.String())

	user, match, _ = s.r.ResolveUser("abc", users[:2])
	s.Equal(MatchWrapped, match)
	s.Equal("wrapped@redline.com", user.Email.String())

	user, match, _ = s.r.ResolveUser("abc", users[:1])
	s.Equal(MatchTrimmed, match)
	s.Equal("trimmed@redline.com", user.Email.String())
}

// TestResolveUserFallback verifies the first valid record is used when nothing matches.
func (s *ResolverSuite) TestResolveUserFallback() {
	s.Run("skips records without display attributes", func() {
		users := s.users(`[
			{"_id": "x1"},
			{"_id": "x2", "email": ""},
			{"_id": "x3", "email": "first-valid@redline.com"},
			{"_id": "x4", "email": "second-valid@redline.com"}
		]`)
		user, match, ok := s.r.ResolveUser("nobody", users)
		s.Require().True(ok)
		s.Equal(MatchFallback, match)
		s.False(match.Exact())
		s.Equal("x3", user.ID.Key())
	})

	s.Run("absent when no record qualifies", func() {
		_, match, ok := s.r.ResolveUser("nobody", s.users(`[{"_id": "x1"}]`))
		s.False(ok)
		s.Equal(NoMatch, match)

		_, _, ok = s.r.ResolveUser("nobody", nil)
		s.False(ok)
	})

	s.Run("empty key goes straight to fallback", func() {
		users := s.users(`[{"_id": "", "email": "a@redline.com"}]`)
		_, match, ok := s.r.ResolveUser("   ", users)
		s.Require().True(ok)
		s.Equal(MatchFallback, match)
	})
}

// TestSelectShiftPicksMostRecent verifies the maximum normalised start time wins across encodings.
func (s *ResolverSuite) TestSelectShiftPicksMostRecent() {
	shifts := s.shifts(`[
		{"_id": "t1", "userID": "u1", "currentTime": "2025-01-01T08:00:00"},
		{"_id": "t3", "userID": {"$oid": "u1"}, "currentTime": {"$date": "2025-03-01T08:00:00Z"}},
		{"_id": "other", "userID": "u2", "currentTime": {"$date": "2026-01-01T08:00:00Z"}},
		{"_id": "t2", "userID": " u1 ", "currentTime": {"$date": {"$numberLong": "1738396800000"}}},
		{"_id": "bad", "userID": "u1", "currentTime": "not a time"},
		{"_id": "none", "userID": "u1"}
	]`)
	shift, match, ok := s.r.SelectShift("u1", shifts)
	s.Require().True(ok)
	s.True(match.Exact())
	s.Equal("t3", shift.ID.Key())
}

// TestSelectShiftTies verifies equal start times resolve to the first encountered shift.
func (s *ResolverSuite) TestSelectShiftTies() {
	shifts := s.shifts(`[
		{"_id": "first", "userID": "u1", "currentTime": "2025-01-01T08:00:00Z"},
		{"_id": "second", "userID": "u1", "currentTime": {"$date": "2025-01-01T08:00:00Z"}}
	]`)
	shift, _, _ := s.r.SelectShift("u1", shifts)
	s.Equal("first", shift.ID.Key())

	undated := s.shifts(`[{"_id": "a", "userID": "u1"}, {"_id": "b", "userID": "u1", "currentTime": "garbage"}]`)
	shift, _, _ = s.r.SelectShift("u1", undated)
	s.Equal("a", shift.ID.Key())
}

// TestSelectShiftFallback verifies the most recent shift overall is used when the officer owns none.
func (s *ResolverSuite) TestSelectShiftFallback() {
	shifts := s.shifts(`[
		{"_id": "old", "userID": "u2", "currentTime": {"$date": "2024-01-01T08:00:00Z"}},
		{"_id": "new", "userID": "u3", "currentTime": "2025-06-01T08:00:00Z"}
	]`)
	shift, match, ok := s.r.SelectShift("u1", shifts)
	s.Require().True(ok)
	s.Equal(MatchFallback, match)
	s.Equal("new", shift.ID.Key())

	_, match, ok = s.r.SelectShift("u1", nil)
	s.False(ok)
	s.Equal(NoMatch, match)
}

// TestSelectJob verifies job resolution and its fallback chain.
func (s *ResolverSuite) TestSelectJob() {
	var jobs []models.Job
	s.Require().NoError(json.Unmarshal([]byte(`[
		{"_id": {"$oid": "j0"}},
		{"_id": {"$oid": "j1"}, "propertyName": "Harbor Tower"},
		{"_id": "j2", "propertyName": "Riverside Lofts"}
	]`), &jobs))

	shift := models.Shift{JobID: models.RawValue("j2")}
	job, match, ok := s.r.SelectJob(shift, jobs)
	s.Require().True(ok)
	s.Equal(MatchBare, match)
	s.Equal("Riverside Lofts", job.PropertyName.String())

	shift = models.Shift{JobID: models.WrappedValue("j1")}
	job, _, _ = s.r.SelectJob(shift, jobs)
	s.Equal("Harbor Tower", job.PropertyName.String())

	job, match, ok = s.r.SelectJob(models.Shift{JobID: models.RawValue("demo_job")}, jobs)
	s.Require().True(ok)
	s.Equal(MatchFallback, match)
	s.Equal("Harbor Tower", job.PropertyName.String())

	_, _, ok = s.r.SelectJob(models.Shift{}, nil)
	s.False(ok)
}
