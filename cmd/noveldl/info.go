package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/joelsnl/noveldl/pkg/sources"
)

var infoCmd = &cobra.Command{
	Use:   "info [novel-url]",
	Short: "Show novel metadata without downloading",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		parser, err := sources.ForURL(url)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		novel, err := parser.GetNovelInfo(ctx, url)
		if err != nil {
			return fmt.Errorf("failed to resolve novel: %w", err)
		}
		chapters, err := parser.GetChapterList(ctx, url)
		if err != nil {
			return fmt.Errorf("failed to load chapter list: %w", err)
		}

		fmt.Printf("Title:    %s\n", novel.Title)
		fmt.Printf("Author:   %s\n", novel.Author)
		fmt.Printf("Site:     %s\n", parser.SiteName())
		fmt.Printf("Chapters: %d\n", len(chapters))
		if novel.Language != "" {
			fmt.Printf("Language: %s\n", novel.Language)
		}
		if novel.Description != "" {
			fmt.Printf("\n%s\n", novel.Description)
		}
		return nil
	},
}
