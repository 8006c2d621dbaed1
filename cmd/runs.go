package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/hederw/nfs-extrator/internal/export"
	"github.com/hederw/nfs-extrator/internal/model"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect saved extraction batches",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved batches, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		batches, err := st.ListBatches(ctx)
		if err != nil {
			return eris.Wrap(err, "runs list")
		}
		if len(batches) == 0 {
			fmt.Fprintln(os.Stderr, "Nenhum lote salvo.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNOME\tCRIADO EM\tREGISTROS\tSUCESSOS\tTOTAL")
		for i := range batches {
			b := &batches[i]
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.2f\n",
				b.ID, b.Name, b.CreatedAt.Local().Format("02/01/2006 15:04"),
				len(b.Records), len(b.SuccessRecords()), b.TotalLiquid())
		}
		return tw.Flush()
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <batch-id>",
	Short: "Show a batch's full records as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		batch, err := st.GetBatch(ctx, args[0])
		if err != nil {
			return eris.Wrapf(err, "runs show %s", args[0])
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(batch)
	},
}

var runsExportCmd = &cobra.Command{
	Use:   "export <batch-id> <output.xlsx>",
	Short: "Re-export a saved batch as an XLSX report",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		batch, err := st.GetBatch(ctx, args[0])
		if err != nil {
			return eris.Wrapf(err, "runs export %s", args[0])
		}

		data, err := exportBatch(batch)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[1], data, 0644); err != nil {
			return eris.Wrapf(err, "write %s", args[1])
		}
		fmt.Fprintf(os.Stderr, "Relatório gravado em %s\n", args[1])
		return nil
	},
}

// exportBatch picks the detailed workbook when the batch carries detailed
// records, the basic one otherwise.
func exportBatch(b *model.Batch) ([]byte, error) {
	for _, r := range b.SuccessRecords() {
		if r.DetailedData != nil {
			return export.Detailed(b)
		}
	}
	return export.Results(b)
}

func init() {
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsExportCmd)
	rootCmd.AddCommand(runsCmd)
}
