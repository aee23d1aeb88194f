package report

import (
	"firewatch/models"
	"firewatch/resolve"
	"time"

	"github.com/sirupsen/logrus"
)

// Provenance records how each record of a report was obtained.
type Provenance struct {
	User  resolve.Match
	Job   resolve.Match
	Shift resolve.Match
}

// Synthetic reports whether no record came from the data sources at all.
func (p Provenance) Synthetic() bool {
	return p.User == resolve.NoMatch && p.Job == resolve.NoMatch && p.Shift == resolve.NoMatch
}

// Assemble resolves userID against the dataset and builds the report model, substituting the demo
// records for anything that cannot be resolved. It never fails.
func Assemble(r *resolve.Resolver, log logrus.FieldLogger, userID string, ds models.Dataset, now time.Time) (Model, Provenance) {
	var prov Provenance

	user, match, ok := r.ResolveUser(userID, ds.Users)
	prov.User = match
	if !ok {
		log.WithField("user_id", userID).Warn("⚠️  User not found, using demo user")
		user = DemoUser(userID)
	}
	log.WithFields(logrus.Fields{"email": user.Email.String(), "match": match.String()}).Info("👤 Generating report for user")

	shift, match, ok := r.SelectShift(userID, ds.Shifts)
	prov.Shift = match
	if !ok {
		log.WithField("user_id", userID).Warn("⚠️  No shifts found, using demo shift")
		shift = DemoShift(userID, now)
	}

	job, match, ok := r.SelectJob(shift, ds.Jobs)
	prov.Job = match
	if !ok {
		log.WithField("job_id", shift.JobID.String()).Warn("⚠️  No job details found, using demo job")
		job = DemoJob()
	}

	return Build(userID, user, job, shift, now), prov
}
