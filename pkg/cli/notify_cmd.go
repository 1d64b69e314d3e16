package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"orgadm/internal/notify"
)

func newNotifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Inspect and test the notification setup",
	}

	cmd.AddCommand(newNotifyTestCmd())
	cmd.AddCommand(newNotifyListUsersCmd())
	cmd.AddCommand(newNotifyStatusCmd())

	return cmd
}

func newNotifyTestCmd() *cobra.Command {
	var (
		user    string
		channel string
		message string
	)

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Send a test message to one user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := notify.NewManagerFromEnv(usersFilePath())
			if err != nil {
				return err
			}
			msg := notify.Message{Subject: "orgadm test notification", Body: message}
			if err := mgr.Send(channel, user, msg); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Test message delivered to %s via %s\n", user, channel)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Directory user ID (required)")
	cmd.Flags().StringVar(&channel, "channel", notify.ChannelMattermost, "Channel: mattermost or email")
	cmd.Flags().StringVar(&message, "message", "If you can read this, notifications work.", "Message body")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newNotifyListUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-users",
		Short: "List the notification user directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := notify.LoadDirectory(usersFilePath())
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, dir)
			}
			rows := make([][]string, 0, len(dir.Users))
			for _, id := range dir.IDs() {
				u := dir.Users[id]
				mattermost := "no"
				if u.MattermostChannelID != "" {
					mattermost = "yes"
				}
				email := "no"
				if u.Email != "" {
					email = "yes"
				}
				rows = append(rows, []string{id, u.Name, mattermost, email})
			}
			printTable(os.Stdout, []string{"id", "name", "mattermost", "email"}, rows)
			return nil
		},
	}
}

func newNotifyStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which notification channels are configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status := map[string]interface{}{
				"users_file": usersFilePath(),
			}
			mgr, err := notify.NewManagerFromEnv(usersFilePath())
			if err != nil {
				status["users_file_error"] = err.Error()
				status["channels"] = []string{}
			} else {
				status["channels"] = mgr.Channels()
				status["users"] = len(mgr.Directory().Users)
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, status)
			}
			printDetail(os.Stdout, status)
			return nil
		},
	}
}
