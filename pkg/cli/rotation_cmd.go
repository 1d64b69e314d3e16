package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"orgadm/internal/adminapi"
	"orgadm/internal/notify"
	"orgadm/internal/rotation"
)

func newRotationCmd(client *adminapi.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rotation",
		Short: "Rotate service account API keys on a naming-date scheme",
		Long: `Rotate project service account keys named <prefix>-<date>.

A rotation creates a new dated service account and retires the old ones.
The date embedded in the name (YY-MM or YYYY-MM-DD) decides which key is
newest; creation timestamps are informational only.`,
	}

	cmd.AddCommand(newRotationCreateCmd(client))
	cmd.AddCommand(newRotationCleanupCmd(client))
	cmd.AddCommand(newRotationExecuteCmd(client))
	cmd.AddCommand(newRotationListCmd(client))
	cmd.AddCommand(newRotationCheckCmd(client))
	cmd.AddCommand(newRotationBatchCmd(client))
	cmd.AddCommand(newRotationScheduleCmd(client))

	return cmd
}

// rotationFlags are the unit-selection flags shared by the single-unit
// rotation subcommands.
type rotationFlags struct {
	projectID  string
	prefix     string
	dateFormat string
	configFile string
}

func (f *rotationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.projectID, "project-id", "", "Project ID")
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "Service account naming prefix")
	cmd.Flags().StringVar(&f.dateFormat, "date-format", "", "Date encoding: YY-MM or YYYY-MM-DD (default YY-MM)")
	cmd.Flags().StringVar(&f.configFile, "config", "", "Rotation config file (flags override its values)")
}

// resolve merges the config file (when given) with flag overrides.
func (f *rotationFlags) resolve() (rotation.Config, error) {
	cfg := rotation.Config{}
	if f.configFile != "" {
		loaded, err := rotation.LoadConfig(f.configFile)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}
	if f.projectID != "" {
		cfg.ProjectID = f.projectID
	}
	if f.prefix != "" {
		cfg.Prefix = f.prefix
	}
	if f.dateFormat != "" {
		cfg.DateFormat = rotation.DateFormat(f.dateFormat)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// rotationNotifyTarget resolves the notify flag pair, falling back to the
// config file's notify_user (over Mattermost) when no flag pair is set.
// Flags keep precedence over the file, matching the rest of the unit
// selection.
func rotationNotifyTarget(cmd *cobra.Command, cmdUser, cmdChannel string, cfg rotation.Config) (*notify.Target, error) {
	target, err := resolveNotifyTarget(cmd, cmdUser, cmdChannel)
	if err != nil || target != nil {
		return target, err
	}
	if cfg.NotifyUser != "" {
		return &notify.Target{User: cfg.NotifyUser, Channel: notify.ChannelMattermost}, nil
	}
	return nil, nil
}

func newRotationCreateCmd(client *adminapi.Client) *cobra.Command {
	var (
		flags         rotationFlags
		dryRun        bool
		notifyUser    string
		notifyChannel string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create today's rotation key without deleting anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.resolve()
			if err != nil {
				return err
			}
			target, err := rotationNotifyTarget(cmd, notifyUser, notifyChannel, cfg)
			if err != nil {
				return err
			}
			err = runNotifiedTarget(target, "rotation create "+cfg.Prefix, func(out io.Writer) error {
				res, err := rotation.NewEngine(client, out).Create(cfg, dryRun)
				if err != nil {
					return err
				}
				printCreateResult(out, res)
				return nil
			})
			return unitExitErr(err)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would happen without calling mutating endpoints")
	cmd.Flags().StringVar(&notifyUser, "notify-user", "", "Deliver the result to this directory user")
	cmd.Flags().StringVar(&notifyChannel, "notify-channel", "", "Notification channel (mattermost, email)")

	return cmd
}

func newRotationCleanupCmd(client *adminapi.Client) *cobra.Command {
	var (
		flags         rotationFlags
		keepLatest    int
		dryRun        bool
		force         bool
		notifyUser    string
		notifyChannel string
	)

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete old rotation keys, keeping the newest N",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.resolve()
			if err != nil {
				return err
			}
			target, err := rotationNotifyTarget(cmd, notifyUser, notifyChannel, cfg)
			if err != nil {
				return err
			}
			if err := confirmDeletes(force, dryRun); err != nil {
				return err
			}
			return runNotifiedTarget(target, "rotation cleanup "+cfg.Prefix, func(out io.Writer) error {
				res, err := rotation.NewEngine(client, out).Cleanup(cfg, keepLatest, dryRun)
				if err != nil {
					return err
				}
				printDeleteWarnings(out, res.Deleted)
				return nil
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&keepLatest, "keep-latest", 1, "How many of the newest keys to keep")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would happen without calling mutating endpoints")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the interactive confirmation prompt")
	cmd.Flags().StringVar(&notifyUser, "notify-user", "", "Deliver the result to this directory user")
	cmd.Flags().StringVar(&notifyChannel, "notify-channel", "", "Notification channel (mattermost, email)")

	return cmd
}

func newRotationExecuteCmd(client *adminapi.Client) *cobra.Command {
	var (
		flags         rotationFlags
		dryRun        bool
		force         bool
		notifyUser    string
		notifyChannel string
	)

	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Rotate now: create today's key and retire the old ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.resolve()
			if err != nil {
				return err
			}
			target, err := rotationNotifyTarget(cmd, notifyUser, notifyChannel, cfg)
			if err != nil {
				return err
			}
			if err := confirmDeletes(force, dryRun); err != nil {
				return err
			}
			err = runNotifiedTarget(target, "rotation execute "+cfg.Prefix, func(out io.Writer) error {
				res, err := rotation.NewEngine(client, out).Execute(cfg, dryRun)
				if err != nil {
					return err
				}
				printCreateResult(out, res.Create)
				printDeleteWarnings(out, res.Deleted)
				return nil
			})
			return unitExitErr(err)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would happen without calling mutating endpoints")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the interactive confirmation prompt")
	cmd.Flags().StringVar(&notifyUser, "notify-user", "", "Deliver the result to this directory user")
	cmd.Flags().StringVar(&notifyChannel, "notify-channel", "", "Notification channel (mattermost, email)")

	return cmd
}

func printCreateResult(out io.Writer, res *rotation.CreateResult) {
	if res.Skipped {
		return
	}
	if res.KeyValue != "" {
		fmt.Fprintf(out, "\nNew API key for %s: %s\n", res.Name, res.KeyValue)
		fmt.Fprintln(out, "Store this key now; it cannot be retrieved again.")
	}
}

// printDeleteWarnings summarizes per-item delete failures. They are
// reported inline and never change the exit status; the unit completed.
func printDeleteWarnings(out io.Writer, outcomes []rotation.DeleteOutcome) {
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		fmt.Fprintf(out, "warning: %d of %d deletions failed\n", failed, len(outcomes))
	}
}

// unitExitErr maps a rotation unit's error to the command's exit policy:
// a failed create call is reported on stderr but exits zero, since the
// failure happened after the unit started mutating. Configuration and
// fetch errors pass through and fail the command.
func unitExitErr(err error) error {
	var ce *rotation.CreateError
	if errors.As(err, &ce) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", ce)
		return nil
	}
	return err
}

// confirmDeletes gates the deletion phase when a person is at the
// terminal. Automation without a TTY proceeds, since scheduled rotations
// cannot answer prompts.
func confirmDeletes(force, dryRun bool) error {
	if force || dryRun || !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	return confirm("This rotation may delete old service accounts. Continue?", false)
}

func newRotationListCmd(client *adminapi.Client) *cobra.Command {
	var (
		projectID string
		prefix    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dated rotation keys in a project",
		Long:  "List a project's service accounts that follow the dated naming scheme. Without --prefix, any name ending in a date counts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNotified(cmd, "", "", "rotation list", func(out io.Writer) error {
				accounts, err := client.ListServiceAccounts(projectID, 0)
				if err != nil {
					return err
				}

				var matching []rotation.Candidate
				if prefix != "" {
					matching = rotation.Resolve(accounts, prefix)
				} else {
					matching = rotation.FindDated(accounts)
				}

				if getOutputFormat(cmd) == "json" {
					return printJSON(out, matching)
				}
				rows := make([][]string, 0, len(matching))
				for _, c := range matching {
					rows = append(rows, []string{
						c.ID,
						c.Name,
						c.ParsedDate.Format("2006-01-02"),
						formatTimestamp(c.CreatedAt),
					})
				}
				printTable(out, []string{"id", "name", "name date", "created at"}, rows)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&projectID, "project-id", "", "Project ID (required)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Only names matching <prefix>-<date>")
	_ = cmd.MarkFlagRequired("project-id")

	return cmd
}

func newRotationCheckCmd(client *adminapi.Client) *cobra.Command {
	var flags rotationFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report rotation health for one unit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.resolve()
			if err != nil {
				return err
			}
			return runNotified(cmd, "", "", "rotation check "+cfg.Prefix, func(out io.Writer) error {
				report, err := rotation.NewEngine(client, io.Discard).Check(cfg)
				if err != nil {
					return err
				}

				if getOutputFormat(cmd) == "json" {
					return printJSON(out, report)
				}

				fmt.Fprintf(out, "Expected current key: %s\n\n", report.ExpectedName)
				rows := make([][]string, 0, len(report.Keys))
				for _, k := range report.Keys {
					rows = append(rows, []string{
						k.Name,
						string(k.Status),
						fmt.Sprintf("%d", k.AgeDays),
						formatTimestamp(k.CreatedAt),
					})
				}
				printTable(out, []string{"name", "status", "age (days)", "created at"}, rows)
				fmt.Fprintf(out, "\n%s\n", report.Recommendation)
				return nil
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newRotationBatchCmd(client *adminapi.Client) *cobra.Command {
	var (
		configFile string
		action     string
		keepLatest int
		dryRun     bool
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Rotate many keys across projects from a batch config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if action != string(rotation.ActionCreate) && action != string(rotation.ActionCleanup) {
				return fmt.Errorf("invalid action %q: use 'create' or 'cleanup'", action)
			}
			cfg, err := rotation.LoadBatchConfig(configFile)
			if err != nil {
				return err
			}
			if action == string(rotation.ActionCleanup) {
				if err := confirmDeletes(force, dryRun); err != nil {
					return err
				}
			}

			// The manager is only needed when some key asks for delivery;
			// its absence must not block unnotified rotations.
			var mgr *notify.Manager
			if batchWantsNotify(cfg) {
				mgr, err = notify.NewManagerFromEnv(usersFilePath())
				if err != nil {
					fmt.Fprintf(os.Stderr, "warning: notifications disabled: %v\n", err)
					mgr = nil
				}
			}

			engine := rotation.NewEngine(client, os.Stdout)
			summary := engine.RunBatch(cfg, rotation.BatchAction(action), keepLatest, dryRun,
				func(item rotation.BatchItemResult) {
					deliverBatchResult(cfg, mgr, item)
				})

			// Per-item failures are tallied and reported inline; the batch
			// itself completed, so the exit status stays zero.
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, map[string]int{
					"success": summary.Success,
					"failed":  summary.Failed,
					"skipped": summary.Skipped,
				})
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Batch rotation config file (required)")
	cmd.Flags().StringVar(&action, "action", string(rotation.ActionCreate), "Batch action: create or cleanup")
	cmd.Flags().IntVar(&keepLatest, "keep-latest", 1, "How many of the newest keys to keep on cleanup")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would happen without calling mutating endpoints")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the interactive confirmation prompt")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func batchWantsNotify(cfg *rotation.BatchConfig) bool {
	for _, proj := range cfg.Rotations {
		for _, key := range proj.Keys {
			if key.NotifyUser != "" {
				return true
			}
		}
	}
	return false
}

// deliverBatchResult sends the created-key secret, or the failure report,
// to the key's own notify target, when both the target and the manager
// exist.
func deliverBatchResult(cfg *rotation.BatchConfig, mgr *notify.Manager, item rotation.BatchItemResult) {
	if mgr == nil {
		return
	}
	var key *rotation.BatchKey
	for _, proj := range cfg.Rotations {
		if proj.ProjectID != item.ProjectID {
			continue
		}
		for i := range proj.Keys {
			if proj.Keys[i].Name == item.KeyName {
				key = &proj.Keys[i]
			}
		}
	}
	if key == nil || key.NotifyUser == "" {
		return
	}
	channel := key.NotifyChannel
	if channel == "" {
		channel = notify.ChannelMattermost
	}
	var msg notify.Message
	switch {
	case item.Err != nil:
		msg = notify.KeyFailedMessage(item.ProjectName, item.KeyName, item.Err)
	case item.Create != nil:
		msg = notify.KeyCreatedMessage(item.ProjectName, item.Create.Name, item.Create.AccountID, item.Create.KeyValue)
	default:
		return
	}
	if err := mgr.Send(channel, key.NotifyUser, msg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not deliver notification for %s: %v\n", item.KeyName, err)
	}
}

func newRotationScheduleCmd(client *adminapi.Client) *cobra.Command {
	var (
		flags    rotationFlags
		cronSpec string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run rotation execute on a cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.resolve()
			if err != nil {
				return err
			}

			c := cron.New()
			_, err = c.AddFunc(cronSpec, func() {
				if _, err := rotation.NewEngine(client, os.Stdout).Execute(cfg, dryRun); err != nil {
					fmt.Fprintf(os.Stderr, "scheduled rotation failed: %v\n", err)
				}
			})
			if err != nil {
				return fmt.Errorf("invalid cron expression %q: %w", cronSpec, err)
			}

			fmt.Fprintf(os.Stdout, "Scheduling rotation of %q in project %s (%s); press Ctrl-C to stop\n",
				cfg.Prefix, cfg.ProjectID, cronSpec)
			c.Start()
			defer c.Stop()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig
			fmt.Fprintln(os.Stdout, "Stopping scheduler")
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&cronSpec, "cron", "0 6 1 * *", "Cron expression for when to rotate")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would happen without calling mutating endpoints")

	return cmd
}
