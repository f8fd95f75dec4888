package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joelsnl/noveldl/pkg/scheduler"
	"github.com/joelsnl/noveldl/pkg/services"
	"github.com/joelsnl/noveldl/pkg/translator"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "noveldl",
	Short: "Download and translate web novels into EPUBs",
	Long:  "Download web novels chapter by chapter, strip site watermarks and ads,\noptionally translate the text, and assemble everything into a clean EPUB.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.noveldl.yaml)")

	pf := rootCmd.PersistentFlags()
	pf.IntP("workers", "w", scheduler.DefaultWorkers, "concurrent translation workers")
	pf.BoolP("translate", "t", false, "translate chapters before assembly")
	pf.String("source-lang", "zh-CN", "translation source language")
	pf.String("target-lang", "en", "translation target language")
	pf.Int("max-chunk-chars", translator.DefaultMaxChunkChars, "maximum characters per translation request")
	pf.Int("max-retries", 5, "attempts per chunk before a chapter fails")
	pf.Int("base-backoff-ms", 2000, "initial retry backoff in milliseconds")
	pf.Int("max-backoff-ms", 60000, "retry backoff cap in milliseconds")
	pf.Bool("allow-partial", false, "keep untranslated source text for chunks that exhaust retries")
	pf.String("skip-failed", "omit", "failed chapter handling: omit or placeholder")
	pf.StringP("output", "o", "", "output directory (default $HOME/Downloads)")
	viper.BindPFlags(pf)

	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(sitesCmd)
	rootCmd.AddCommand(listCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".noveldl")
	}

	viper.SetEnvPrefix("NOVELDL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; flags and env cover everything.
	viper.ReadInConfig()
}

// pipelineConfig maps the resolved flag/env/file settings onto the
// orchestrator configuration.
func pipelineConfig() services.Config {
	cfg := services.Config{
		Workers:          viper.GetInt("workers"),
		TranslateEnabled: viper.GetBool("translate"),
		SourceLang:       viper.GetString("source-lang"),
		TargetLang:       viper.GetString("target-lang"),
		MaxChunkChars:    viper.GetInt("max-chunk-chars"),
		MaxRetries:       viper.GetInt("max-retries"),
		BaseBackoff:      time.Duration(viper.GetInt("base-backoff-ms")) * time.Millisecond,
		MaxBackoff:       time.Duration(viper.GetInt("max-backoff-ms")) * time.Millisecond,
		AllowPartial:     viper.GetBool("allow-partial"),
	}
	if viper.GetString("skip-failed") == "placeholder" {
		cfg.SkipFailed = services.SkipFailedPlaceholder
	}
	return cfg
}

func outputDir() string {
	if dir := viper.GetString("output"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

// libraryPath returns the DuckDB file backing the local library, creating
// its parent directory if needed.
func libraryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".noveldl")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "library.db"), nil
}
