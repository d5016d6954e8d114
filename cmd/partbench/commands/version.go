package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/optiview/partbench/display"
	"github.com/optiview/partbench/version"
)

// VersionCmd shows version and build information
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show partbench version information",
	Long:  `Display version, build time, commit hash, and platform information for the partbench binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()

		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(info)
		}

		fmt.Println(info.String())
		return nil
	},
}
