package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"orgadm/internal/adminapi"
)

func newRateLimitsCmd(client *adminapi.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate-limits",
		Short: "Inspect and adjust per-model project rate limits",
	}

	cmd.AddCommand(newRateLimitsListCmd(client))
	cmd.AddCommand(newRateLimitsSetCmd(client))

	return cmd
}

func newRateLimitsListCmd(client *adminapi.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-id>",
		Short: "List a project's rate limits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limits, err := client.ListRateLimits(args[0], 0)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, limits)
			}
			rows := make([][]string, 0, len(limits))
			for _, rl := range limits {
				rows = append(rows, []string{
					rl.ID,
					rl.Model,
					strconv.FormatInt(rl.MaxRequestsPer1Minute, 10),
					strconv.FormatInt(rl.MaxTokensPer1Minute, 10),
				})
			}
			printTable(os.Stdout, []string{"id", "model", "req/min", "tokens/min"}, rows)
			return nil
		},
	}
}

func newRateLimitsSetCmd(client *adminapi.Client) *cobra.Command {
	var (
		maxRequestsPerMinute int64
		maxTokensPerMinute   int64
		maxImagesPerMinute   int64
		maxAudioMBPerMinute  int64
		maxRequestsPerDay    int64
		batchMaxInputTokens  int64
	)

	cmd := &cobra.Command{
		Use:   "set <project-id> <rate-limit-id>",
		Short: "Update a project rate limit",
		Long:  "Update one per-model rate limit. Only the flags you pass are changed; the rest keep their current values.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update adminapi.RateLimitUpdate
			changed := false
			// Only flags the caller passed make it into the update body, so
			// untouched limits keep their server-side values.
			cmd.Flags().Visit(func(f *pflag.Flag) {
				switch f.Name {
				case "max-requests-per-minute":
					update.MaxRequestsPer1Minute = &maxRequestsPerMinute
				case "max-tokens-per-minute":
					update.MaxTokensPer1Minute = &maxTokensPerMinute
				case "max-images-per-minute":
					update.MaxImagesPer1Minute = &maxImagesPerMinute
				case "max-audio-mb-per-minute":
					update.MaxAudioMegabytesPer1Minute = &maxAudioMBPerMinute
				case "max-requests-per-day":
					update.MaxRequestsPer1Day = &maxRequestsPerDay
				case "batch-max-input-tokens":
					update.Batch1DayMaxInputTokens = &batchMaxInputTokens
				default:
					return
				}
				changed = true
			})

			if !changed {
				return fmt.Errorf("nothing to update: pass at least one limit flag")
			}

			rl, err := client.UpdateRateLimit(args[0], args[1], update)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, rl)
			}
			fmt.Fprintf(os.Stdout, "Rate limit %s (%s) updated: %d req/min, %d tokens/min\n",
				rl.ID, rl.Model, rl.MaxRequestsPer1Minute, rl.MaxTokensPer1Minute)
			return nil
		},
	}

	cmd.Flags().Int64Var(&maxRequestsPerMinute, "max-requests-per-minute", 0, "Maximum requests per minute")
	cmd.Flags().Int64Var(&maxTokensPerMinute, "max-tokens-per-minute", 0, "Maximum tokens per minute")
	cmd.Flags().Int64Var(&maxImagesPerMinute, "max-images-per-minute", 0, "Maximum images per minute")
	cmd.Flags().Int64Var(&maxAudioMBPerMinute, "max-audio-mb-per-minute", 0, "Maximum audio megabytes per minute")
	cmd.Flags().Int64Var(&maxRequestsPerDay, "max-requests-per-day", 0, "Maximum requests per day")
	cmd.Flags().Int64Var(&batchMaxInputTokens, "batch-max-input-tokens", 0, "Maximum batch input tokens per day")

	return cmd
}
