package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EthanGF7/SkillsTracker/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "skillstracker", version.Current())

		client, _ := cmd.Flags().GetString("check")
		if client == "" {
			return nil
		}
		ok, err := version.Compatible(version.Current(), client)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintf(cmd.OutOrStdout(), "client %s is compatible\n", client)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "client %s is NOT compatible\n", client)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().String("check", "", "Check whether a client version (e.g. v1.2.0) is compatible with this build")
}
