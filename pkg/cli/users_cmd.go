package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"orgadm/internal/adminapi"
)

func newUsersCmd(client *adminapi.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage organization users",
	}

	cmd.AddCommand(newUsersListCmd(client))
	cmd.AddCommand(newUsersGetCmd(client))
	cmd.AddCommand(newUsersSetRoleCmd(client))
	cmd.AddCommand(newUsersDeleteCmd(client))

	return cmd
}

func newUsersListCmd(client *adminapi.Client) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List organization users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNotified(cmd, "", "", "users list", func(out io.Writer) error {
				users, err := client.ListUsers(limit)
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(out, users)
				}
				rows := make([][]string, 0, len(users))
				for _, u := range users {
					rows = append(rows, []string{u.ID, u.Name, u.Email, u.Role, formatTimestamp(u.AddedAt)})
				}
				printTable(out, []string{"id", "name", "email", "role", "added at"}, rows)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of users to return (0 = all)")

	return cmd
}

func newUsersGetCmd(client *adminapi.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "get <user-id>",
		Short: "Show one organization user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := client.GetUser(args[0])
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, user)
			}
			printDetail(os.Stdout, map[string]interface{}{
				"id":       user.ID,
				"name":     user.Name,
				"email":    user.Email,
				"role":     user.Role,
				"added_at": formatTimestamp(user.AddedAt),
			})
			return nil
		},
	}
}

func newUsersSetRoleCmd(client *adminapi.Client) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "set-role <user-id>",
		Short: "Change an organization user's role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != "owner" && role != "reader" {
				return fmt.Errorf("invalid role %q: use 'owner' or 'reader'", role)
			}
			user, err := client.UpdateUserRole(args[0], role)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, user)
			}
			fmt.Fprintf(os.Stdout, "User %s role set to %q\n", user.ID, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "New role: owner or reader (required)")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

func newUsersDeleteCmd(client *adminapi.Client) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Remove a user from the organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirm(fmt.Sprintf("Remove user %s from the organization?", args[0]), force); err != nil {
				return err
			}
			if err := client.DeleteUser(args[0]); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, map[string]interface{}{"deleted": true, "id": args[0]})
			}
			fmt.Fprintf(os.Stdout, "User %s removed\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")

	return cmd
}
