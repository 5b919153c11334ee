package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X github.com/themeswitch/themeswitch/cmd/themeswitch/cmd.version=...".
var (
	version = "0.1.0"
	commit  = "unknown"
)

var versionJSON bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionJSON {
			data, err := json.Marshal(map[string]string{
				"version": version,
				"commit":  commit,
				"go":      runtime.Version(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		fmt.Fprintf(out, "themeswitch %s (%s, %s)\n", version, commit, runtime.Version())
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "output version information as JSON")
	rootCmd.AddCommand(versionCmd)
}
