package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"orgadm/internal/adminapi"
)

func newServiceAccountsCmd(client *adminapi.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "service-accounts",
		Aliases: []string{"sa"},
		Short:   "Manage project service accounts",
	}

	cmd.AddCommand(newServiceAccountsListCmd(client))
	cmd.AddCommand(newServiceAccountsGetCmd(client))
	cmd.AddCommand(newServiceAccountsCreateCmd(client))
	cmd.AddCommand(newServiceAccountsDeleteCmd(client))

	return cmd
}

func newServiceAccountsListCmd(client *adminapi.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-id>",
		Short: "List a project's service accounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := client.ListServiceAccounts(args[0], 0)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, accounts)
			}
			rows := make([][]string, 0, len(accounts))
			for _, sa := range accounts {
				rows = append(rows, []string{sa.ID, sa.Name, sa.Role, formatTimestamp(sa.CreatedAt)})
			}
			printTable(os.Stdout, []string{"id", "name", "role", "created at"}, rows)
			return nil
		},
	}
}

func newServiceAccountsGetCmd(client *adminapi.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "get <project-id> <service-account-id>",
		Short: "Show one service account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sa, err := client.GetServiceAccount(args[0], args[1])
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, sa)
			}
			printDetail(os.Stdout, map[string]interface{}{
				"id":         sa.ID,
				"name":       sa.Name,
				"role":       sa.Role,
				"created_at": formatTimestamp(sa.CreatedAt),
			})
			return nil
		},
	}
}

func newServiceAccountsCreateCmd(client *adminapi.Client) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create <project-id>",
		Short: "Create a service account and print its one-time API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := client.CreateServiceAccount(args[0], name)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, created)
			}
			fmt.Fprintf(os.Stdout, "Service account %q created (ID: %s)\n", created.Name, created.ID)
			if created.APIKey != nil && created.APIKey.Value != "" {
				fmt.Fprintf(os.Stdout, "API key: %s\n", created.APIKey.Value)
				fmt.Fprintln(os.Stdout, "Store this key now; it cannot be retrieved again.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Service account name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newServiceAccountsDeleteCmd(client *adminapi.Client) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <project-id> <service-account-id>",
		Short: "Delete a service account and revoke its key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirm(fmt.Sprintf("Delete service account %s? Its API key stops working immediately.", args[1]), force); err != nil {
				return err
			}
			if err := client.DeleteServiceAccount(args[0], args[1]); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, map[string]interface{}{"deleted": true, "id": args[1]})
			}
			fmt.Fprintf(os.Stdout, "Service account %s deleted\n", args[1])
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")

	return cmd
}
