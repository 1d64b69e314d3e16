package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"orgadm/internal/adminapi"
)

func newKeysCmd(client *adminapi.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Inspect and revoke API keys",
	}

	cmd.AddCommand(newKeysListAdminCmd(client))
	cmd.AddCommand(newKeysListCmd(client))
	cmd.AddCommand(newKeysGetCmd(client))
	cmd.AddCommand(newKeysDeleteCmd(client))

	return cmd
}

func keyOwnerLabel(k adminapi.APIKey) string {
	if k.Owner == nil {
		return ""
	}
	if k.Owner.Name != "" {
		return fmt.Sprintf("%s (%s)", k.Owner.Name, k.Owner.Type)
	}
	return k.Owner.Type
}

func keyRows(keys []adminapi.APIKey) [][]string {
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{
			k.ID,
			k.Name,
			compactRedacted(k.RedactedValue),
			keyOwnerLabel(k),
			formatTimestamp(k.CreatedAt),
			formatTimestamp(k.LastUsedAt),
		})
	}
	return rows
}

var keyColumns = []string{"id", "name", "key", "owner", "created at", "last used"}

func newKeysListAdminCmd(client *adminapi.Client) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list-admin",
		Short: "List organization admin API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys, err := client.ListAdminKeys(limit)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, keys)
			}
			printTable(os.Stdout, keyColumns, keyRows(keys))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of keys to return (0 = all)")

	return cmd
}

func newKeysListCmd(client *adminapi.Client) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List a project's API keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := client.ListProjectKeys(args[0], limit)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, keys)
			}
			printTable(os.Stdout, keyColumns, keyRows(keys))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of keys to return (0 = all)")

	return cmd
}

func newKeysGetCmd(client *adminapi.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "get <project-id> <key-id>",
		Short: "Show one project API key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := client.GetProjectKey(args[0], args[1])
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, k)
			}
			printDetail(os.Stdout, map[string]interface{}{
				"id":         k.ID,
				"name":       k.Name,
				"key":        compactRedacted(k.RedactedValue),
				"owner":      keyOwnerLabel(*k),
				"created_at": formatTimestamp(k.CreatedAt),
				"last_used":  formatTimestamp(k.LastUsedAt),
			})
			return nil
		},
	}
}

func newKeysDeleteCmd(client *adminapi.Client) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <project-id> <key-id>",
		Short: "Revoke a project API key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirm(fmt.Sprintf("Revoke API key %s? Clients using it will stop working immediately.", args[1]), force); err != nil {
				return err
			}
			if err := client.DeleteProjectKey(args[0], args[1]); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, map[string]interface{}{"deleted": true, "id": args[1]})
			}
			fmt.Fprintf(os.Stdout, "API key %s revoked\n", args[1])
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")

	return cmd
}
