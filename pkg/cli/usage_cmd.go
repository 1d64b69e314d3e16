package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"orgadm/internal/adminapi"
)

// usageFlags are the shared time-range flags of usage and costs.
type usageFlags struct {
	start      string
	end        string
	groupBy    []string
	limit      int
	projectIDs []string
	models     []string
}

func (f *usageFlags) register(cmd *cobra.Command, withModels bool) {
	cmd.Flags().StringVar(&f.start, "start", "", "Range start date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&f.end, "end", "", "Range end date YYYY-MM-DD (default: now)")
	cmd.Flags().StringSliceVar(&f.groupBy, "group-by", nil, "Group results by fields (e.g. project_id, model)")
	cmd.Flags().IntVar(&f.limit, "limit", 7, "Number of time buckets to return")
	cmd.Flags().StringSliceVar(&f.projectIDs, "project-ids", nil, "Restrict to these project IDs")
	if withModels {
		cmd.Flags().StringSliceVar(&f.models, "models", nil, "Restrict to these models")
	}
	_ = cmd.MarkFlagRequired("start")
}

func (f *usageFlags) query() (adminapi.UsageQuery, error) {
	start, err := parseDateFlag(f.start)
	if err != nil {
		return adminapi.UsageQuery{}, err
	}
	end, err := parseDateFlag(f.end)
	if err != nil {
		return adminapi.UsageQuery{}, err
	}
	return adminapi.UsageQuery{
		StartTime:  start,
		EndTime:    end,
		GroupBy:    f.groupBy,
		Limit:      f.limit,
		ProjectIDs: f.projectIDs,
		Models:     f.models,
	}, nil
}

func newUsageCmd(client *adminapi.Client) *cobra.Command {
	var flags usageFlags

	categories := []string{
		adminapi.UsageCompletions,
		adminapi.UsageEmbeddings,
		adminapi.UsageImages,
		adminapi.UsageAudioSpeeches,
		adminapi.UsageAudioTranscriptions,
	}

	cmd := &cobra.Command{
		Use:       "usage <category>",
		Short:     "Show usage buckets for one category",
		Long:      "Show usage data bucketed by time. Categories: " + strings.Join(categories, ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: categories,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.query()
			if err != nil {
				return err
			}
			buckets, err := client.GetUsage(args[0], q)
			if err != nil {
				return err
			}
			return renderBuckets(cmd, buckets)
		},
	}

	flags.register(cmd, true)
	return cmd
}

func newCostsCmd(client *adminapi.Client) *cobra.Command {
	var flags usageFlags

	cmd := &cobra.Command{
		Use:   "costs",
		Short: "Show cost buckets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := flags.query()
			if err != nil {
				return err
			}
			buckets, err := client.GetCosts(q)
			if err != nil {
				return err
			}
			return renderBuckets(cmd, buckets)
		},
	}

	flags.register(cmd, false)
	return cmd
}

func renderBuckets(cmd *cobra.Command, buckets []adminapi.UsageBucket) error {
	if getOutputFormat(cmd) == "json" {
		return printJSON(os.Stdout, buckets)
	}
	for _, b := range buckets {
		fmt.Fprintf(os.Stdout, "%s .. %s\n", formatTimestamp(b.StartTime), formatTimestamp(b.EndTime))
		if len(b.Results) == 0 {
			fmt.Fprintln(os.Stdout, "  (no data)")
			continue
		}
		for _, r := range b.Results {
			fmt.Fprintf(os.Stdout, "  %s\n", summarizeResult(r))
		}
	}
	return nil
}

// summarizeResult flattens one result object into "key=value" pairs with
// the grouping keys first.
func summarizeResult(r map[string]interface{}) string {
	ordered := []string{"project_id", "model", "line_item"}
	var parts []string
	seen := map[string]bool{"object": true}
	for _, k := range ordered {
		if v, ok := r[k]; ok && v != nil {
			parts = append(parts, fmt.Sprintf("%s=%v", k, v))
			seen[k] = true
		}
	}
	rest := make([]string, 0, len(r))
	for k, v := range r {
		if seen[k] || v == nil {
			continue
		}
		rest = append(rest, k)
	}
	sort.Strings(rest)
	for _, k := range rest {
		parts = append(parts, fmt.Sprintf("%s=%s", k, detailValue(r[k])))
	}
	return strings.Join(parts, " ")
}
