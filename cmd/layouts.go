package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/hederw/nfs-extrator/internal/model"
)

var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "Manage extraction layouts",
	Long:  "Layouts hold the per-format hints appended to the extraction prompt, one per invoice issuer format.",
}

var layoutsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved layouts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		layouts, err := st.ListLayouts(ctx)
		if err != nil {
			return eris.Wrap(err, "layouts list")
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNOME\tPROMPT")
		for _, l := range layouts {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", l.ID, l.Name, l.Prompt)
		}
		return tw.Flush()
	},
}

var layoutsAddCmd = &cobra.Command{
	Use:   "add <name> <prompt>",
	Short: "Add an extraction layout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		l := model.NewLayout(args[0], args[1])
		if err := st.SaveLayout(ctx, l); err != nil {
			return eris.Wrapf(err, "save layout %q", args[0])
		}
		fmt.Fprintf(os.Stderr, "Layout %q criado (%s).\n", l.Name, l.ID)
		return nil
	},
}

var layoutsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a layout by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.DeleteLayout(ctx, args[0]); err != nil {
			return eris.Wrapf(err, "delete layout %s", args[0])
		}
		fmt.Fprintln(os.Stderr, "Layout removido.")
		return nil
	},
}

func init() {
	layoutsCmd.AddCommand(layoutsListCmd)
	layoutsCmd.AddCommand(layoutsAddCmd)
	layoutsCmd.AddCommand(layoutsDeleteCmd)
	rootCmd.AddCommand(layoutsCmd)
}
