package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf2deck/internal/convert"
	"github.com/pdiddy/pdf2deck/internal/history"
	"github.com/pdiddy/pdf2deck/internal/pdfsource"
	"github.com/pdiddy/pdf2deck/internal/secrets"
	"github.com/pdiddy/pdf2deck/internal/server"
	"github.com/pdiddy/pdf2deck/internal/widgets"
	"github.com/pdiddy/pdf2deck/pkg/types"
)

const remoteTimeout = 5 * time.Minute

var convertCmd = &cobra.Command{
	Use:   "convert [pdfs...]",
	Short: "Convert PDF files into PPTX decks",
	Long: `Convert turns each page of a PDF into one slide. With a single input the
deck is written to --output (default: the input path with a .pptx
extension). With several inputs the decks go next to their sources, or into
--out-dir, and files are converted in parallel.

Use --server to upload the files to a running pdf2deck service instead of
converting locally.`,
	RunE: runConvert,
}

func init() {
	d := types.DefaultConversionConfig()
	convertCmd.Flags().StringP("output", "o", "", "output path for a single input")
	convertCmd.Flags().String("out-dir", "", "directory for output decks")
	convertCmd.Flags().String("widgets", "", "YAML widget table")
	convertCmd.Flags().Bool("demo-widgets", false, "use the built-in demonstration widget table")
	convertCmd.Flags().Bool("strict", false, "clamp colors to 0-255 and progress to 0-100")
	convertCmd.Flags().String("title-marker", d.TitleMarker, "text marking the title block (empty disables)")
	convertCmd.Flags().String("font", d.DefaultFont, "font for spans with no font name")
	convertCmd.Flags().Bool("no-shapes", false, "do not draw vector shapes")
	convertCmd.Flags().Bool("no-validate", false, "skip the structural PDF check")
	convertCmd.Flags().Int("jobs", d.Jobs, "files converted in parallel")
	convertCmd.Flags().Bool("history", false, "record jobs in the history database")
	convertCmd.Flags().String("server", "", "base URL of a pdf2deck service to convert on")

	viper.BindPFlag("widgets_file", convertCmd.Flags().Lookup("widgets"))
	viper.BindPFlag("strict", convertCmd.Flags().Lookup("strict"))
	viper.BindPFlag("title_marker", convertCmd.Flags().Lookup("title-marker"))
	viper.BindPFlag("default_font", convertCmd.Flags().Lookup("font"))
	viper.BindPFlag("jobs", convertCmd.Flags().Lookup("jobs"))
	viper.BindPFlag("history.enabled", convertCmd.Flags().Lookup("history"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more PDF files")
	}
	output, _ := cmd.Flags().GetString("output")
	outDir, _ := cmd.Flags().GetString("out-dir")
	if output != "" && len(args) > 1 {
		return fmt.Errorf("--output takes a single input; use --out-dir for several")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if serverURL, _ := cmd.Flags().GetString("server"); serverURL != "" {
		return convertRemote(ctx, serverURL, args, output, outDir)
	}

	cfg := conversionConfig()
	if noShapes, _ := cmd.Flags().GetBool("no-shapes"); noShapes {
		cfg.RenderShapes = false
	}
	if noValidate, _ := cmd.Flags().GetBool("no-validate"); noValidate {
		cfg.Validate = false
	}

	table, err := widgetTable(cmd, cfg)
	if err != nil {
		return err
	}

	conv := &convert.Converter{
		Opener:  convert.NewPDFOpener(pdfsource.Options{Validate: cfg.Validate, Logger: slog.Default()}),
		Config:  cfg,
		Widgets: table,
		Logger:  slog.Default(),
	}

	if hc := historyConfig(); hc.Enabled {
		store, err := history.NewStore(hc)
		if err != nil {
			return err
		}
		defer store.Close()
		conv.Recorder = store
	}

	if len(args) == 1 {
		out := output
		if out == "" {
			out = convert.OutputPath(args[0], outDir)
		}
		res, err := conv.Convert(ctx, args[0], out)
		if err != nil {
			return err
		}
		fmt.Printf("converted: %s (%d slides) -> %s\n", filepath.Base(args[0]), res.Slides, res.Output)
		return nil
	}

	result := conv.ConvertBatch(ctx, args, outDir, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}

func widgetTable(cmd *cobra.Command, cfg types.ConversionConfig) (*types.WidgetTable, error) {
	if cfg.WidgetsFile != "" {
		return widgets.Load(cfg.WidgetsFile)
	}
	if demo, _ := cmd.Flags().GetBool("demo-widgets"); demo {
		return widgets.DefaultTable(), nil
	}
	return nil, nil
}

func convertRemote(ctx context.Context, baseURL string, srcs []string, output, outDir string) error {
	token, err := secrets.ServeToken(viper.GetString("secrets_dir"))
	if err != nil {
		return err
	}
	client := &server.Client{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: remoteTimeout},
	}

	outs := convert.OutputPaths(srcs, outDir)
	failed := 0
	for i, src := range srcs {
		out := output
		if out == "" {
			out = outs[i]
		}
		if err := client.Convert(ctx, src, out); err != nil {
			fmt.Printf("failed:  %s (%v)\n", filepath.Base(src), err)
			failed++
			continue
		}
		fmt.Printf("converted: %s -> %s\n", filepath.Base(src), out)
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed conversion", failed)
	}
	return nil
}
