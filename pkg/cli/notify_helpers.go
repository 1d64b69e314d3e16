package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"orgadm/internal/notify"
)

// resolveNotifyTarget merges the command's own notify flags with the
// root-level pair. Commands without local notify flags contribute empty
// values and inherit the root pair.
func resolveNotifyTarget(cmd *cobra.Command, cmdUser, cmdChannel string) (*notify.Target, error) {
	rootFlags := cmd.Root().PersistentFlags()
	globalUser, _ := rootFlags.GetString("notify-user")
	globalChannel, _ := rootFlags.GetString("notify-channel")
	return notify.ResolveTarget(cmdUser, cmdChannel, globalUser, globalChannel)
}

// runNotified executes fn, forwarding its console output to the resolved
// notification target when one is configured.
func runNotified(cmd *cobra.Command, cmdUser, cmdChannel, label string, fn func(out io.Writer) error) error {
	target, err := resolveNotifyTarget(cmd, cmdUser, cmdChannel)
	if err != nil {
		return err
	}
	return runNotifiedTarget(target, label, fn)
}

// runNotifiedTarget executes fn against an already-resolved target. The
// notification stack is only constructed when a target is actually in
// play.
func runNotifiedTarget(target *notify.Target, label string, fn func(out io.Writer) error) error {
	if target == nil {
		return fn(os.Stdout)
	}

	mgr, err := notify.NewManagerFromEnv(usersFilePath())
	if err != nil {
		return err
	}
	return notify.NewWrapper(mgr).Run(target, label, os.Stdout, fn)
}
