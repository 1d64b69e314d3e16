package rotation

import (
	"time"
)

// KeyStatus classifies a rotation key relative to the expected current name.
type KeyStatus string

const (
	KeyCurrent KeyStatus = "CURRENT"
	KeyOld     KeyStatus = "OLD"
)

// CheckedKey is one matching account annotated for a health check.
type CheckedKey struct {
	Candidate
	Status  KeyStatus
	AgeDays int
}

// CheckReport is the result of a rotation health check for one unit.
type CheckReport struct {
	ExpectedName   string
	Keys           []CheckedKey
	CurrentFound   bool
	Recommendation string
}

// Check inspects the rotation unit without mutating anything. The newest
// matching key is CURRENT when it carries today's expected name; ages are
// computed from the accounts' creation timestamps.
func (e *Engine) Check(cfg Config) (*CheckReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	matching, err := e.fetchCandidates(cfg)
	if err != nil {
		return nil, err
	}

	now := e.now()
	report := &CheckReport{ExpectedName: ExpectedName(cfg.Prefix, cfg.DateFormat, now)}

	for _, c := range matching {
		key := CheckedKey{Candidate: c, Status: KeyOld}
		if c.Name == report.ExpectedName {
			key.Status = KeyCurrent
			report.CurrentFound = true
		}
		if c.CreatedAt > 0 {
			key.AgeDays = int(now.Sub(time.Unix(c.CreatedAt, 0)).Hours() / 24)
		}
		report.Keys = append(report.Keys, key)
	}

	report.Recommendation = recommend(report, now)
	return report, nil
}

func recommend(r *CheckReport, now time.Time) string {
	if len(r.Keys) == 0 {
		return "No rotation keys found; run 'rotation create' to provision one."
	}
	newest := r.Keys[0]
	switch {
	case r.CurrentFound && len(r.Keys) > 1:
		return "Current key present; run 'rotation cleanup' to remove old keys."
	case r.CurrentFound:
		return "Rotation is up to date."
	case newest.AgeDays <= 7:
		return "Newest key is recent; no action needed yet."
	case newest.AgeDays <= 30:
		return "Newest key is aging; plan a rotation soon."
	default:
		return "Newest key is older than 30 days; rotate now with 'rotation execute'."
	}
}
