package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"orgadm/internal/adminapi"
)

func newAuditCmd(client *adminapi.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Query the organization audit log",
	}

	cmd.AddCommand(newAuditListCmd(client))

	return cmd
}

func newAuditListCmd(client *adminapi.Client) *cobra.Command {
	var (
		limit       int
		after       string
		before      string
		sinceDate   string
		untilDate   string
		eventTypes  []string
		actorIDs    []string
		actorEmails []string
		projectIDs  []string
		resourceIDs []string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit log events, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			since, err := parseDateFlag(sinceDate)
			if err != nil {
				return err
			}
			until, err := parseDateFlag(untilDate)
			if err != nil {
				return err
			}

			filter := adminapi.AuditLogFilter{
				Limit:          limit,
				After:          after,
				Before:         before,
				EffectiveAtGTE: since,
				EffectiveAtLT:  until,
				EventTypes:     eventTypes,
				ActorIDs:       actorIDs,
				ActorEmails:    actorEmails,
				ProjectIDs:     projectIDs,
				ResourceIDs:    resourceIDs,
			}

			events, next, err := client.ListAuditLogs(filter)
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, map[string]interface{}{
					"data":        events,
					"next_cursor": next,
				})
			}

			rows := make([][]string, 0, len(events))
			for _, ev := range events {
				project := ""
				if ev.Project != nil {
					project = ev.Project.Name
					if project == "" {
						project = ev.Project.ID
					}
				}
				rows = append(rows, []string{ev.ID, ev.Type, actorLabel(ev.Actor), project, formatTimestamp(ev.EffectiveAt)})
			}
			printTable(os.Stdout, []string{"id", "type", "actor", "project", "effective at"}, rows)
			if next != "" {
				fmt.Fprintf(os.Stdout, "\nMore events available: --after %s\n", next)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of events to return")
	cmd.Flags().StringVar(&after, "after", "", "Cursor: return events after this event ID")
	cmd.Flags().StringVar(&before, "before", "", "Cursor: return events before this event ID")
	cmd.Flags().StringVar(&sinceDate, "since", "", "Only events on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&untilDate, "until", "", "Only events before this date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&eventTypes, "event-types", nil, "Restrict to these event types")
	cmd.Flags().StringSliceVar(&actorIDs, "actor-ids", nil, "Restrict to these actor IDs")
	cmd.Flags().StringSliceVar(&actorEmails, "actor-emails", nil, "Restrict to these actor emails")
	cmd.Flags().StringSliceVar(&projectIDs, "project-ids", nil, "Restrict to these project IDs")
	cmd.Flags().StringSliceVar(&resourceIDs, "resource-ids", nil, "Restrict to these resource IDs")

	return cmd
}

// actorLabel extracts a readable identity from the untyped actor object.
func actorLabel(actor map[string]interface{}) string {
	if actor == nil {
		return ""
	}
	if session, ok := actor["session"].(map[string]interface{}); ok {
		if user, ok := session["user"].(map[string]interface{}); ok {
			if email, ok := user["email"].(string); ok && email != "" {
				return email
			}
		}
	}
	if apiKey, ok := actor["api_key"].(map[string]interface{}); ok {
		if id, ok := apiKey["id"].(string); ok && id != "" {
			return "key:" + id
		}
	}
	if t, ok := actor["type"].(string); ok {
		return t
	}
	return ""
}
