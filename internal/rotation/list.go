package rotation

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"orgadm/internal/adminapi"
)

var (
	fullSuffixPattern  = regexp.MustCompile(`-(\d{4}-\d{2}-\d{2})$`)
	shortSuffixPattern = regexp.MustCompile(`-(\d{2})-(\d{2})$`)
)

// FindDated scans accounts for any name ending in a date suffix, with no
// prefix constraint. Used by listing when the caller does not know the
// naming prefixes in use.
func FindDated(accounts []adminapi.ServiceAccount) []Candidate {
	var matching []Candidate
	for _, sa := range accounts {
		date, ok := parseSuffixDate(sa.Name)
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

func parseSuffixDate(name string) (time.Time, bool) {
	if m := fullSuffixPattern.FindStringSubmatch(name); m != nil {
		d, err := time.Parse("2006-01-02", m[1])
		if err == nil {
			return d, true
		}
	}
	if m := shortSuffixPattern.FindStringSubmatch(name); m != nil {
		yy, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			return time.Date(2000+yy, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
