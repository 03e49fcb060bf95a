package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

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

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the PDF upload conversion service",
	Long: `Serve accepts PDF uploads on POST /api/convert (multipart field "file")
and answers with the converted deck as converted.pptx. When a serve-token
secret or serve.token setting exists, uploads must carry it as a bearer
token.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", types.DefaultServeAddr, "listen address")
	serveCmd.Flags().Int64("max-upload", types.DefaultMaxUploadBytes, "maximum upload size in bytes")

	viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("serve.max_upload_bytes", serveCmd.Flags().Lookup("max-upload"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := conversionConfig()

	var table *types.WidgetTable
	if cfg.WidgetsFile != "" {
		t, err := widgets.Load(cfg.WidgetsFile)
		if err != nil {
			return err
		}
		table = t
	}

	token := viper.GetString("serve.token")
	if token == "" {
		t, err := secrets.ServeToken(viper.GetString("secrets_dir"))
		if err != nil {
			return err
		}
		token = t
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

	srv := server.New(conv, server.Options{
		MaxUploadBytes: viper.GetInt64("serve.max_upload_bytes"),
		Token:          token,
		MaxConcurrent:  cfg.Jobs,
		Logger:         slog.Default(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, viper.GetString("serve.addr"))
}
