package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"orgadm/internal/adminapi"
)

func newProjectsCmd(client *adminapi.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage organization projects",
	}

	cmd.AddCommand(newProjectsListCmd(client))
	cmd.AddCommand(newProjectsGetCmd(client))
	cmd.AddCommand(newProjectsCreateCmd(client))
	cmd.AddCommand(newProjectsArchiveCmd(client))
	cmd.AddCommand(newProjectUsersCmd(client))

	return cmd
}

func newProjectsListCmd(client *adminapi.Client) *cobra.Command {
	var (
		includeArchived bool
		limit           int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projects, err := client.ListProjects(includeArchived, limit)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, projects)
			}
			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				rows = append(rows, []string{p.ID, p.Name, p.Status, formatTimestamp(p.CreatedAt)})
			}
			printTable(os.Stdout, []string{"id", "name", "status", "created at"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeArchived, "include-archived", false, "Include archived projects")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of projects to return (0 = all)")

	return cmd
}

func newProjectsGetCmd(client *adminapi.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "get <project-id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := client.GetProject(args[0])
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, p)
			}
			fields := map[string]interface{}{
				"id":         p.ID,
				"name":       p.Name,
				"status":     p.Status,
				"created_at": formatTimestamp(p.CreatedAt),
			}
			if p.ArchivedAt > 0 {
				fields["archived_at"] = formatTimestamp(p.ArchivedAt)
			}
			printDetail(os.Stdout, fields)
			return nil
		},
	}
}

func newProjectsCreateCmd(client *adminapi.Client) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := client.CreateProject(name)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, p)
			}
			fmt.Fprintf(os.Stdout, "Project %q created (ID: %s)\n", p.Name, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectsArchiveCmd(client *adminapi.Client) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "archive <project-id>",
		Short: "Archive a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirm(fmt.Sprintf("Archive project %s?", args[0]), force); err != nil {
				return err
			}
			p, err := client.ArchiveProject(args[0])
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, p)
			}
			fmt.Fprintf(os.Stdout, "Project %s archived\n", p.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")

	return cmd
}

func newProjectUsersCmd(client *adminapi.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage project membership",
	}

	listCmd := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List project members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := client.ListProjectUsers(args[0], 0)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, members)
			}
			rows := make([][]string, 0, len(members))
			for _, m := range members {
				rows = append(rows, []string{m.ID, m.Name, m.Email, m.Role, formatTimestamp(m.AddedAt)})
			}
			printTable(os.Stdout, []string{"id", "name", "email", "role", "added at"}, rows)
			return nil
		},
	}

	var addRole string
	addCmd := &cobra.Command{
		Use:   "add <project-id> <user-id>",
		Short: "Add a user to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addRole != "owner" && addRole != "member" {
				return fmt.Errorf("invalid role %q: use 'owner' or 'member'", addRole)
			}
			m, err := client.AddProjectUser(args[0], args[1], addRole)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, m)
			}
			fmt.Fprintf(os.Stdout, "User %s added to project %s as %q\n", m.ID, args[0], m.Role)
			return nil
		},
	}
	addCmd.Flags().StringVar(&addRole, "role", "member", "Project role: owner or member")

	var removeForce bool
	removeCmd := &cobra.Command{
		Use:   "remove <project-id> <user-id>",
		Short: "Remove a user from a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirm(fmt.Sprintf("Remove user %s from project %s?", args[1], args[0]), removeForce); err != nil {
				return err
			}
			if err := client.DeleteProjectUser(args[0], args[1]); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, map[string]interface{}{"deleted": true, "id": args[1]})
			}
			fmt.Fprintf(os.Stdout, "User %s removed from project %s\n", args[1], args[0])
			return nil
		},
	}
	removeCmd.Flags().BoolVar(&removeForce, "force", false, "Skip the confirmation prompt")

	cmd.AddCommand(listCmd, addCmd, removeCmd)
	return cmd
}
