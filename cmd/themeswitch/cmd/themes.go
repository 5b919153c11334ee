package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/themeswitch/themeswitch/internal/settings"
)

var themesIcons bool

var themesCmd = &cobra.Command{
	Use:   "themes [query]",
	Short: "List installed color or icon themes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(true)
		if err != nil {
			return err
		}
		defer e.Close()

		svc, closeState, err := e.openService()
		if err != nil {
			return err
		}
		defer closeState()

		sel, err := svc.Current(cmd.Context())
		if err != nil {
			return err
		}
		kind, live := settings.KindTheme, sel.Theme
		if themesIcons {
			kind, live = settings.KindIconTheme, sel.IconTheme
		}

		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		out := cmd.OutOrStdout()
		for _, ref := range svc.Catalog().Search(kind, query) {
			marker := " "
			if ref.ID == live {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-20s %s\n", marker, ref.ID, ref.Label)
		}
		return nil
	},
}

func init() {
	themesCmd.Flags().BoolVar(&themesIcons, "icons", false, "list icon themes instead of color themes")
	rootCmd.AddCommand(themesCmd)
}
