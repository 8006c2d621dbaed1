package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/hederw/nfs-extrator/internal/groundtruth"
	"github.com/hederw/nfs-extrator/internal/model"
)

var validateTruths []string

var validateCmd = &cobra.Command{
	Use:   "validate <batch-id>",
	Short: "Validate a saved batch against ground-truth spreadsheets",
	Long: "Checks each successful extraction against one or more authoritative spreadsheets. " +
		"Spreadsheets are consulted in the order given; the first one with a vendor-name match decides the verdict.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if len(validateTruths) == 0 {
			return eris.New("at least one --truth spreadsheet is required")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		batch, err := st.GetBatch(ctx, args[0])
		if err != nil {
			return eris.Wrapf(err, "batch %s", args[0])
		}

		var sets []*model.GroundTruthSet
		for _, spec := range validateTruths {
			path, mapping, err := parseTruthFlag(spec)
			if err != nil {
				return err
			}
			set := groundtruth.Load(path, filepath.Base(path), mapping)
			if set.Status == model.GroundTruthError {
				fmt.Fprintf(os.Stderr, "%s: %s\n", set.Label, set.Message)
			}
			sets = append(sets, set)
		}

		verdicts := groundtruth.Validate(batch.Records, sets)
		printVerdicts(os.Stdout, batch, verdicts)
		return nil
	},
}

// parseTruthFlag splits "file.xlsx:VendorColumn:AmountColumn" into its parts.
// The column names are taken from the end so the path may contain colons.
func parseTruthFlag(spec string) (string, model.ColumnMapping, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 3 {
		return "", model.ColumnMapping{}, eris.Errorf(
			"invalid --truth value %q, expected <file.xlsx>:<vendor column>:<amount column>", spec)
	}

	vendor := parts[len(parts)-2]
	amount := parts[len(parts)-1]
	path := strings.Join(parts[:len(parts)-2], ":")
	if path == "" || vendor == "" || amount == "" {
		return "", model.ColumnMapping{}, eris.Errorf(
			"invalid --truth value %q, expected <file.xlsx>:<vendor column>:<amount column>", spec)
	}
	return path, model.ColumnMapping{VendorColumn: vendor, AmountColumn: amount}, nil
}

func printVerdicts(w io.Writer, b *model.Batch, verdicts map[string]model.Verdict) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ARQUIVO\tPRESTADOR\tVALOR\tVEREDITO\tFONTE\tESPERADO")
	for _, r := range b.Records {
		v, ok := verdicts[r.ID]
		if !ok {
			continue
		}
		expected := ""
		if v.Status == model.VerdictDivergent {
			expected = fmt.Sprintf("%.2f", v.Expected)
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%s\t%s\n",
			r.FileName, r.Data.Prestador, r.Data.ValorLiquido, v.Status, v.Source, expected)
	}
	tw.Flush() //nolint:errcheck
}

func init() {
	validateCmd.Flags().StringArrayVar(&validateTruths, "truth", nil,
		"ground-truth spreadsheet as <file.xlsx>:<vendor column>:<amount column>; repeat in priority order")
	rootCmd.AddCommand(validateCmd)
}
