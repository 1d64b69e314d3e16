package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"orgadm/internal/adminapi"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			errObj := map[string]interface{}{
				"error": err.Error(),
			}
			var apiErr *adminapi.APIError
			if errors.As(err, &apiErr) {
				errObj["http_status"] = apiErr.HTTPStatus
				errObj["code"] = apiErr.Code
			}
			_ = printJSON(os.Stdout, errObj)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		host          string
		adminKey      string
		output        string
		profile       string
		debug         bool
		notifyUser    string
		notifyChannel string
	)

	rootCmd := &cobra.Command{
		Use:           "orgadm",
		Short:         "Organization administration CLI",
		Long:          "Command-line interface for the organization management API: users, projects, API keys, service accounts, rate limits, usage and audit logs, with automated key rotation.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Load config from profile if flags/env not set
			cfg, err := LoadUserConfig()
			if err != nil {
				// Config file is optional
				cfg = &UserConfig{
					CurrentProfile: "default",
					Profiles:       map[string]Profile{},
				}
			}

			p := cfg.ActiveProfile(profile)

			// Apply precedence: flag > env > profile > default
			if !cmd.Flags().Changed("host") {
				if v := os.Getenv("ORGADM_HOST"); v != "" {
					host = v
				} else if p.Host != "" {
					host = p.Host
				}
			}
			if !cmd.Flags().Changed("admin-key") {
				if v := os.Getenv("ORGADM_ADMIN_KEY"); v != "" {
					adminKey = v
				} else if p.AdminKey != "" {
					adminKey = p.AdminKey
				}
			}
			if !cmd.Flags().Changed("output") {
				if v := os.Getenv("ORGADM_OUTPUT"); v != "" {
					output = v
				} else if p.Output != "" {
					output = p.Output
				}
			}

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&host, "host", adminapi.DefaultBaseURL, "Admin API base URL")
	rootCmd.PersistentFlags().StringVar(&adminKey, "admin-key", "", "Admin API key for authentication")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Config profile to use")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log requests and responses to orgadm.log")
	rootCmd.PersistentFlags().StringVar(&notifyUser, "notify-user", "", "Deliver command output to this directory user")
	rootCmd.PersistentFlags().StringVar(&notifyChannel, "notify-channel", "", "Notification channel (mattermost, email)")

	client := adminapi.NewClient(host, adminKey)

	// Wire PersistentPreRun to update client after config resolution
	originalPreRun := rootCmd.PersistentPreRunE
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if originalPreRun != nil {
			if err := originalPreRun(cmd, args); err != nil {
				return err
			}
		}
		// Validate output format
		if output != "" && output != "table" && output != "json" {
			return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", output)
		}
		// Update client with resolved values
		client.BaseURL = host
		client.AdminKey = adminKey
		if debug {
			logger, err := openDebugLogger()
			if err != nil {
				return err
			}
			client.Logger = logger
		}
		return nil
	}

	// Resource commands
	rootCmd.AddCommand(newUsersCmd(client))
	rootCmd.AddCommand(newProjectsCmd(client))
	rootCmd.AddCommand(newServiceAccountsCmd(client))
	rootCmd.AddCommand(newKeysCmd(client))
	rootCmd.AddCommand(newRateLimitsCmd(client))
	rootCmd.AddCommand(newUsageCmd(client))
	rootCmd.AddCommand(newCostsCmd(client))
	rootCmd.AddCommand(newAuditCmd(client))

	// Rotation and notification commands
	rootCmd.AddCommand(newRotationCmd(client))
	rootCmd.AddCommand(newNotifyCmd())

	// Local commands
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())

	// Shell completions
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// openDebugLogger appends structured request logs to orgadm.log in the
// working directory.
func openDebugLogger() (*slog.Logger, error) {
	f, err := os.OpenFile("orgadm.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})), nil
}

// usersFilePath locates the notification user directory: explicit env
// override, then the file next to the profile config.
func usersFilePath() string {
	if v := os.Getenv("ORGADM_USERS_FILE"); v != "" {
		return v
	}
	return filepath.Join(ConfigDir(), "users.json")
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
	return cmd
}
