// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdf2deck CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf2deck/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pdf2deck CLI.
var rootCmd = &cobra.Command{
	Use:   "pdf2deck",
	Short: "Convert PDF documents into editable slide decks",
	Long: `pdf2deck converts each page of a PDF into a slide of an editable PPTX deck.
Text keeps its position, font, size and color; bullet markers become real
bullets; filled rectangles become status cards and progress bars.

Use convert for files on disk, serve to run the upload service, and history
to inspect past conversions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdf2deck.yaml or ~/.config/pdf2deck/pdf2deck.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-json", false, "emit logs as JSON")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory holding secret files")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
	viper.BindPFlag("secrets_dir", rootCmd.PersistentFlags().Lookup("secrets-dir"))

	d := types.DefaultConversionConfig()
	viper.SetDefault("canvas.width_in", d.Canvas.WidthIn)
	viper.SetDefault("canvas.height_in", d.Canvas.HeightIn)
	viper.SetDefault("default_font", d.DefaultFont)
	viper.SetDefault("title_marker", d.TitleMarker)
	viper.SetDefault("render_shapes", d.RenderShapes)
	viper.SetDefault("validate", d.Validate)
	viper.SetDefault("jobs", d.Jobs)
	viper.SetDefault("serve.addr", types.DefaultServeAddr)
	viper.SetDefault("serve.max_upload_bytes", types.DefaultMaxUploadBytes)
	viper.SetDefault("history.db_path", types.DefaultHistoryDB)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdf2deck")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdf2deck"))
		}
	}

	viper.SetEnvPrefix("PDF2DECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setupLogging() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log_level"))); err != nil {
		return fmt.Errorf("log level %q: %w", viper.GetString("log_level"), err)
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if viper.GetBool("log_json") {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
	return nil
}

// conversionConfig reads the engine settings from viper.
func conversionConfig() types.ConversionConfig {
	return types.ConversionConfig{
		Canvas: types.CanvasConfig{
			WidthIn:  viper.GetFloat64("canvas.width_in"),
			HeightIn: viper.GetFloat64("canvas.height_in"),
		},
		DefaultFont:  viper.GetString("default_font"),
		TitleMarker:  viper.GetString("title_marker"),
		Strict:       viper.GetBool("strict"),
		RenderShapes: viper.GetBool("render_shapes"),
		Validate:     viper.GetBool("validate"),
		WidgetsFile:  viper.GetString("widgets_file"),
		Jobs:         viper.GetInt("jobs"),
	}
}

func historyConfig() types.HistoryConfig {
	return types.HistoryConfig{
		Enabled: viper.GetBool("history.enabled"),
		DBPath:  viper.GetString("history.db_path"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
