package rotation

import (
	"fmt"
)

// BatchAction selects which engine step a batch run performs per key.
type BatchAction string

const (
	ActionCreate  BatchAction = "create"
	ActionCleanup BatchAction = "cleanup"
)

// BatchItemResult is the outcome of one key within a batch run.
type BatchItemResult struct {
	ProjectName string
	ProjectID   string
	KeyName     string
	Status      BatchStatus
	Err         error
	Create      *CreateResult
	Cleanup     *CleanupResult
}

// BatchStatus classifies a batch item outcome.
type BatchStatus string

const (
	StatusSuccess BatchStatus = "success"
	StatusFailed  BatchStatus = "failed"
	StatusSkipped BatchStatus = "skipped"
)

// BatchSummary tallies a whole batch run.
type BatchSummary struct {
	Items   []BatchItemResult
	Success int
	Failed  int
	Skipped int
}

// OnResult is invoked for each batch item that warrants a delivery: a
// successful non-skipped create hands off the one-time secret, a failed
// item reports its error. Dry runs never invoke it, since their
// placeholder secrets must not leave the process. A nil callback is
// allowed.
type OnResult func(item BatchItemResult)

// RunBatch walks every key of every project group and applies action with
// keepLatest used for cleanup. Items are isolated: a failure in one never
// stops the rest. Projects without a project_id fail every listed key;
// projects without keys are recorded as skipped.
func (e *Engine) RunBatch(cfg *BatchConfig, action BatchAction, keepLatest int, dryRun bool, onResult OnResult) *BatchSummary {
	summary := &BatchSummary{}

	for _, proj := range cfg.Rotations {
		if len(proj.Keys) == 0 {
			e.printf("Skipping project %q: no keys configured\n", proj.ProjectName)
			summary.add(BatchItemResult{
				ProjectName: proj.ProjectName,
				ProjectID:   proj.ProjectID,
				Status:      StatusSkipped,
			})
			continue
		}

		for _, key := range proj.Keys {
			item := BatchItemResult{
				ProjectName: proj.ProjectName,
				ProjectID:   proj.ProjectID,
				KeyName:     key.Name,
			}

			switch {
			case proj.ProjectID == "":
				item.Status = StatusFailed
				item.Err = fmt.Errorf("project %q has no project_id", proj.ProjectName)
			case key.Name == "":
				item.Status = StatusFailed
				item.Err = fmt.Errorf("project %q has a key entry with no name", proj.ProjectName)
			default:
				e.printf("\n=== %s / %s ===\n", proj.ProjectName, key.Name)
				item = e.runBatchItem(item, key, action, keepLatest, dryRun)
			}

			if item.Err != nil {
				e.printf("  error: %v\n", item.Err)
			}
			if onResult != nil && !dryRun {
				created := item.Status == StatusSuccess && action == ActionCreate &&
					item.Create != nil && !item.Create.Skipped
				if created || item.Status == StatusFailed {
					onResult(item)
				}
			}
			summary.add(item)
		}
	}

	e.printf("\nBatch complete: %d succeeded, %d failed, %d skipped\n",
		summary.Success, summary.Failed, summary.Skipped)
	return summary
}

func (e *Engine) runBatchItem(item BatchItemResult, key BatchKey, action BatchAction, keepLatest int, dryRun bool) BatchItemResult {
	cfg := Config{
		ProjectID:  item.ProjectID,
		Prefix:     key.Name,
		DateFormat: key.DateFormat,
		NotifyUser: key.NotifyUser,
	}

	switch action {
	case ActionCleanup:
		res, err := e.Cleanup(cfg, keepLatest, dryRun)
		if err != nil {
			item.Status = StatusFailed
			item.Err = err
			return item
		}
		item.Cleanup = res
		if res.NoOp {
			item.Status = StatusSkipped
		} else {
			item.Status = StatusSuccess
		}
	default:
		res, err := e.Create(cfg, dryRun)
		if err != nil {
			item.Status = StatusFailed
			item.Err = err
			return item
		}
		item.Create = res
		if res.Skipped {
			item.Status = StatusSkipped
		} else {
			item.Status = StatusSuccess
		}
	}
	return item
}

func (s *BatchSummary) add(item BatchItemResult) {
	s.Items = append(s.Items, item)
	switch item.Status {
	case StatusSuccess:
		s.Success++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	}
}
