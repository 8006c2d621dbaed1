package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hederw/nfs-extrator/internal/export"
	"github.com/hederw/nfs-extrator/internal/extract"
	"github.com/hederw/nfs-extrator/internal/model"
	"github.com/hederw/nfs-extrator/internal/pdf"
	"github.com/hederw/nfs-extrator/internal/quota"
	"github.com/hederw/nfs-extrator/pkg/gemini"
)

var (
	extractAllPages bool
	extractDetailed bool
	extractLayout   string
	extractOutput   string
)

var extractCmd = &cobra.Command{
	Use:   "extract <folder>",
	Short: "Extract invoice data from every PDF in a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		folder := args[0]

		paths, err := listPDFs(folder)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Fprintln(os.Stderr, "Nenhum PDF encontrado na pasta.")
			return nil
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		layoutPrompt := ""
		if !extractDetailed {
			layout, err := st.GetLayout(ctx, extractLayout)
			if err != nil {
				return eris.Wrapf(err, "layout %q", extractLayout)
			}
			layoutPrompt = layout.Prompt
		}

		client, err := gemini.NewClient(cfg.Gemini.Key, gemini.Options{
			BaseURL: cfg.Gemini.BaseURL,
			Model:   cfg.Gemini.Model,
			Timeout: time.Duration(cfg.Gemini.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return err
		}

		tracker := quota.NewTracker(st, cfg.Quota.DailyLimit)
		renderer := pdf.NewRenderer(pdf.NewPdfcpuOpener(), cfg.Render.Scale)

		remaining, err := tracker.Remaining(ctx)
		if err != nil {
			return eris.Wrap(err, "read daily quota")
		}
		if remaining == 0 {
			return eris.Errorf("Limite diário de %d extrações atingido. Tente novamente amanhã.",
				tracker.Limit())
		}

		mode := model.FirstPageOnly
		if extractAllPages {
			mode = model.AllPages
		}
		tasks := extract.NewPlanner(renderer).Plan(ctx, paths, mode)

		toRun, skipped := extract.Partition(tasks, remaining)
		if len(skipped) > 0 {
			fmt.Fprintf(os.Stderr, "Limite diário: %d de %d tarefas serão processadas.\n",
				len(toRun), len(tasks))
		}

		zap.L().Info("extraction starting",
			zap.String("folder", folder),
			zap.Int("files", len(paths)),
			zap.Int("tasks", len(toRun)),
			zap.Bool("detailed", extractDetailed),
		)

		runner := extract.NewRunner(renderer, client, tracker, cfg.Extract.RequestsPerMinute)
		total := len(toRun)
		done := 0
		records := runner.Run(ctx, toRun, extract.RunOptions{
			Detailed:     extractDetailed,
			LayoutPrompt: layoutPrompt,
			OnProgress: func(r *model.ExtractionRecord) {
				done++
				fmt.Fprintf(os.Stderr, "[%d/%d] %s p.%d: %s\n",
					done, total, r.FileName, r.Page, progressLabel(r))
			},
		})
		records = append(records, skipped...)

		batch := model.NewBatch(filepath.Base(folder))
		batch.Records = records

		printResults(os.Stdout, batch)

		if batch.HasSuccess() {
			if err := st.SaveBatch(ctx, batch); err != nil {
				zap.L().Warn("batch save failed", zap.Error(err))
			} else {
				fmt.Fprintf(os.Stderr, "Lote salvo: %s\n", batch.ID)
			}
		}

		return writeWorkbook(batch, folder)
	},
}

// listPDFs returns the folder's PDF files, non-recursive, in name order.
func listPDFs(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, eris.Wrapf(err, "read folder %s", folder)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(folder, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func progressLabel(r *model.ExtractionRecord) string {
	if r.Status == model.StatusSuccess {
		return "ok"
	}
	return r.Error
}

func printResults(w io.Writer, b *model.Batch) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ARQUIVO\tPÁGINA\tSTATUS\tPRESTADOR\tNº NOTA\tVALOR\tERRO")
	for _, r := range b.Records {
		vendor, nota, valor := "", "", ""
		if r.Data != nil {
			vendor = r.Data.Prestador
			nota = r.Data.NumeroNota
			valor = fmt.Sprintf("%.2f", r.Data.ValorLiquido)
		}
		status := "Falha"
		if r.Status == model.StatusSuccess {
			status = "Sucesso"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			r.FileName, r.Page, status, vendor, nota, valor, r.Error)
	}
	fmt.Fprintf(tw, "\t\t\t\t\tTotal: %.2f\t\n", b.TotalLiquid())
	tw.Flush() //nolint:errcheck
}

func writeWorkbook(b *model.Batch, folder string) error {
	var (
		data []byte
		err  error
	)
	if extractDetailed {
		data, err = export.Detailed(b)
	} else {
		data, err = export.Results(b)
	}
	if err != nil {
		return err
	}

	out := extractOutput
	if out == "" {
		out = fmt.Sprintf("Extracao_%s.xlsx", filepath.Base(folder))
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return eris.Wrapf(err, "write %s", out)
	}
	fmt.Fprintf(os.Stderr, "Relatório gravado em %s\n", out)
	return nil
}

func init() {
	extractCmd.Flags().BoolVar(&extractAllPages, "all-pages", false, "extract every page of each PDF instead of only the first")
	extractCmd.Flags().BoolVar(&extractDetailed, "detailed", false, "extract the full thirteen-field NFS-e breakdown")
	extractCmd.Flags().StringVar(&extractLayout, "layout", "Layout Padrão", "layout name with the extraction hints for this invoice format")
	extractCmd.Flags().StringVar(&extractOutput, "output", "", "output XLSX path (default Extracao_<folder>.xlsx)")
	rootCmd.AddCommand(extractCmd)
}
