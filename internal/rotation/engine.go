package rotation

import (
	"fmt"
	"io"
	"time"

	"orgadm/internal/adminapi"
)

// API is the slice of the admin API the rotation engine consumes.
type API interface {
	ListServiceAccounts(projectID string, limit int) ([]adminapi.ServiceAccount, error)
	CreateServiceAccount(projectID, name string) (*adminapi.CreatedServiceAccount, error)
	DeleteServiceAccount(projectID, serviceAccountID string) error
}

// Placeholders used in dry-run mode for values that would only exist after
// a real create call.
const (
	dryRunAccountID = "sa_dry_run"
	dryRunKeyValue  = "sk-svcacct-dry-run-placeholder"
)

const listLimit = 100

// CreateError marks a failed create call. The rotation unit aborts, but
// callers can distinguish it from configuration and fetch errors, which
// carry a different exit policy.
type CreateError struct {
	Name string
	Err  error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("create service account %q: %v", e.Name, e.Err)
}

func (e *CreateError) Unwrap() error { return e.Err }

// Engine runs rotation units against the admin API. All steps are issued
// sequentially; each operation fetches its own fresh snapshot of the
// project's service accounts.
type Engine struct {
	api API
	out io.Writer
	now func() time.Time
}

// NewEngine creates an engine writing progress output to out.
func NewEngine(api API, out io.Writer) *Engine {
	return &Engine{api: api, out: out, now: time.Now}
}

// CreateResult reports the outcome of a Create step.
type CreateResult struct {
	Name      string
	AccountID string
	KeyValue  string // one-time secret; empty when skipped or not returned
	Skipped   bool   // an account with today's name already existed
	Existing  []Candidate
}

// DeleteOutcome is the per-item result of one delete attempt.
type DeleteOutcome struct {
	Name          string
	ID            string
	Err           error
	AlreadyAbsent bool // 404 on delete: desired end state already reached
}

// CleanupResult reports the outcome of a Cleanup step.
type CleanupResult struct {
	Kept    []Candidate
	Deleted []DeleteOutcome
	NoOp    bool
}

// ExecuteResult reports the outcome of an immediate rotation.
type ExecuteResult struct {
	Create  *CreateResult
	Deleted []DeleteOutcome
}

func (e *Engine) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(e.out, format, args...)
}

// fetchCandidates lists the project's service accounts and resolves the
// matching set. A listing failure is fatal to the rotation unit.
func (e *Engine) fetchCandidates(cfg Config) ([]Candidate, error) {
	e.printf("Fetching service accounts for project %s...\n", cfg.ProjectID)
	accounts, err := e.api.ListServiceAccounts(cfg.ProjectID, listLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch service accounts: %w", err)
	}
	matching := Resolve(accounts, cfg.Prefix)
	e.printf("  total: %d, matching %q: %d\n", len(accounts), cfg.Prefix+"-<date>", len(matching))
	return matching, nil
}

// Create makes a new rotation key for today without deleting anything.
// When an account with today's expected name already exists the step is an
// idempotent no-op reported via Skipped.
func (e *Engine) Create(cfg Config, dryRun bool) (*CreateResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	matching, err := e.fetchCandidates(cfg)
	if err != nil {
		return nil, err
	}

	name := ExpectedName(cfg.Prefix, cfg.DateFormat, e.now())
	res := &CreateResult{Name: name, Existing: matching}

	for _, c := range matching {
		if c.Name == name {
			e.printf("Service account %q already exists, skipping creation\n", name)
			res.Skipped = true
			res.AccountID = c.ID
			return res, nil
		}
	}

	e.printf("Creating service account %q\n", name)
	if dryRun {
		e.printf("  [dry-run] would create service account %q\n", name)
		res.AccountID = dryRunAccountID
		res.KeyValue = dryRunKeyValue
		return res, nil
	}

	created, err := e.api.CreateServiceAccount(cfg.ProjectID, name)
	if err != nil {
		// Without the new account the remaining steps are meaningless.
		return nil, &CreateError{Name: name, Err: err}
	}
	res.AccountID = created.ID
	if created.APIKey != nil {
		res.KeyValue = created.APIKey.Value
	}
	e.printf("  created %s (ID: %s)\n", name, created.ID)
	if res.KeyValue == "" {
		e.printf("  warning: no API key value returned in create response\n")
	}
	return res, nil
}

// Cleanup deletes all matching accounts beyond the keepLatest newest.
// Individual delete failures are reported per item and never abort the
// remaining deletions.
func (e *Engine) Cleanup(cfg Config, keepLatest int, dryRun bool) (*CleanupResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if keepLatest < 1 {
		keepLatest = 1
	}

	matching, err := e.fetchCandidates(cfg)
	if err != nil {
		return nil, err
	}

	if len(matching) <= keepLatest {
		e.printf("Only %d matching key(s), nothing to clean up (keep-latest=%d)\n", len(matching), keepLatest)
		return &CleanupResult{Kept: matching, NoOp: true}, nil
	}

	res := &CleanupResult{Kept: matching[:keepLatest]}
	toDelete := matching[keepLatest:]

	e.printf("Keeping %d, deleting %d old key(s)\n", len(res.Kept), len(toDelete))
	res.Deleted = e.deleteCandidates(cfg.ProjectID, toDelete, dryRun)
	return res, nil
}

// Execute performs an immediate rotation: Create's naming and existence
// logic, then deletion in the same invocation. With two or more
// pre-existing matches only the single newest is kept. A lone match dated
// strictly before today is replaced; a lone match carrying today's
// expected name is kept untouched.
func (e *Engine) Execute(cfg Config, dryRun bool) (*ExecuteResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	matching, err := e.fetchCandidates(cfg)
	if err != nil {
		return nil, err
	}

	today := dateOnly(e.now())

	// More than one match dated today means two naming schemes collided
	// (e.g. the short and full forms both resolving to the same day).
	// Picking one silently would delete a key created today.
	if n := countDatedOn(matching, today); n > 1 {
		return nil, fmt.Errorf("%d matching accounts are dated today; refusing to rotate until the naming conflict is resolved", n)
	}

	name := ExpectedName(cfg.Prefix, cfg.DateFormat, e.now())
	res := &ExecuteResult{Create: &CreateResult{Name: name, Existing: matching}}

	exists := false
	for _, c := range matching {
		if c.Name == name {
			exists = true
			res.Create.Skipped = true
			res.Create.AccountID = c.ID
			break
		}
	}

	if exists {
		e.printf("Service account %q already exists, skipping creation\n", name)
	} else {
		e.printf("Creating service account %q\n", name)
		if dryRun {
			e.printf("  [dry-run] would create service account %q\n", name)
			res.Create.AccountID = dryRunAccountID
			res.Create.KeyValue = dryRunKeyValue
		} else {
			created, err := e.api.CreateServiceAccount(cfg.ProjectID, name)
			if err != nil {
				return nil, &CreateError{Name: name, Err: err}
			}
			res.Create.AccountID = created.ID
			if created.APIKey != nil {
				res.Create.KeyValue = created.APIKey.Value
			}
			e.printf("  created %s (ID: %s)\n", name, created.ID)
		}
	}

	var toDelete []Candidate
	switch {
	case len(matching) >= 2:
		// Keep only the newest pre-existing match.
		toDelete = matching[1:]
	case len(matching) == 1 && matching[0].Name != name && matching[0].ParsedDate.Before(today):
		// The newly created account replaces the lone stale one.
		toDelete = matching
	}

	if len(toDelete) == 0 {
		e.printf("No old service accounts to delete\n")
		return res, nil
	}

	e.printf("Deleting %d old service account(s)\n", len(toDelete))
	res.Deleted = e.deleteCandidates(cfg.ProjectID, toDelete, dryRun)
	return res, nil
}

// deleteCandidates removes each candidate independently. A 404 is treated
// as benign success; any other failure is recorded on the item and the
// loop continues.
func (e *Engine) deleteCandidates(projectID string, cands []Candidate, dryRun bool) []DeleteOutcome {
	outcomes := make([]DeleteOutcome, 0, len(cands))
	for _, c := range cands {
		out := DeleteOutcome{Name: c.Name, ID: c.ID}
		if dryRun {
			e.printf("  [dry-run] would delete %q (ID: %s)\n", c.Name, c.ID)
			outcomes = append(outcomes, out)
			continue
		}
		err := e.api.DeleteServiceAccount(projectID, c.ID)
		switch {
		case err == nil:
			e.printf("  deleted %q (ID: %s)\n", c.Name, c.ID)
		case adminapi.IsNotFound(err):
			out.AlreadyAbsent = true
			e.printf("  %q already absent (ID: %s)\n", c.Name, c.ID)
		default:
			out.Err = err
			e.printf("  failed to delete %q: %v\n", c.Name, err)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func countDatedOn(cands []Candidate, day time.Time) int {
	n := 0
	for _, c := range cands {
		if c.ParsedDate.Equal(day) {
			n++
		}
	}
	return n
}
