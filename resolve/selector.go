package resolve

import (
	"firewatch/models"
	"strings"

	"github.com/sirupsen/logrus"
)

// SelectShift returns the most recent shift owned by userID, by normalised start time with ties going
// to the first one encountered. When the officer owns no shift, the most recent shift of the whole
// collection is used instead and the match is MatchFallback. ok is false only for an empty collection.
func (r *Resolver) SelectShift(userID string, shifts []models.Shift) (models.Shift, Match, bool) {
	var owned []models.Shift
	for _, s := range shifts {
		if Matches(userID, s.UserID) {
			owned = append(owned, s)
		}
	}

	if len(owned) > 0 {
		shift := latest(owned)
		r.log.WithFields(logrus.Fields{"user_id": userID, "candidates": len(owned)}).Info("📋 Selected most recent shift")
		return shift, matchBranch(strings.TrimSpace(userID), shift.UserID), true
	}

	if len(shifts) == 0 {
		r.log.WithField("user_id", userID).Warn("⚠️  No shifts available")
		return models.Shift{}, NoMatch, false
	}

	// Keeps a report possible when the officer has no shift on record; the telemetry may belong to someone else.
	r.log.WithFields(logrus.Fields{"user_id": userID, "shifts": len(shifts)}).Warn("⚠️  No shifts for user, using most recent shift overall")
	return latest(shifts), MatchFallback, true
}

// SelectJob resolves the job the shift was worked at. The fallback accepts any job with a property name.
func (r *Resolver) SelectJob(shift models.Shift, jobs []models.Job) (models.Job, Match, bool) {
	return Find(r, shift.JobID.Key(), jobs,
		func(j models.Job) models.Value { return j.ID },
		func(j models.Job) bool { return j.PropertyName.Key() != "" },
	)
}

func latest(shifts []models.Shift) models.Shift {
	best := shifts[0]
	bestAt := best.CurrentTime.SortTime()
	for _, s := range shifts[1:] {
		if at := s.CurrentTime.SortTime(); at.After(bestAt) {
			best, bestAt = s, at
		}
	}
	return best
}
