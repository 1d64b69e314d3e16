package rotation

import (
	"sort"
	"time"

	"orgadm/internal/adminapi"
)

// Candidate is a service account whose name matches prefix-<date>.
// ParsedDate comes from the name and is used only for ordering and display;
// CreatedAt is the authoritative source for age.
type Candidate struct {
	ID         string
	Name       string
	ParsedDate time.Time
	CreatedAt  int64
	Role       string
}

// Resolve returns the accounts matching the naming pattern for prefix,
// sorted by name-derived date descending (newest first). Accounts whose
// names do not match are excluded. Equal dates keep their fetch order.
// Resolve is pure: no I/O, no mutation of its input.
func Resolve(accounts []adminapi.ServiceAccount, prefix string) []Candidate {
	var matching []Candidate
	for _, sa := range accounts {
		date, ok := ParseNameDate(sa.Name, prefix)
		if !ok {
			continue
		}
		matching = append(matching, Candidate{
			ID:         sa.ID,
			Name:       sa.Name,
			ParsedDate: date,
			CreatedAt:  sa.CreatedAt,
			Role:       sa.Role,
		})
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].ParsedDate.After(matching[j].ParsedDate)
	})
	return matching
}
