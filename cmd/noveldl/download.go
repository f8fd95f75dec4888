package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joelsnl/noveldl/pkg/app"
	"github.com/joelsnl/noveldl/pkg/data"
	"github.com/joelsnl/noveldl/pkg/integrations"
	"github.com/joelsnl/noveldl/pkg/services"
	"github.com/joelsnl/noveldl/pkg/sources"
)

var downloadCmd = &cobra.Command{
	Use:   "download [novel-url]",
	Short: "Download a novel and build an EPUB",
	Long:  "Fetch every chapter of a novel, clean it, optionally translate it,\nand write the result as an EPUB in the output directory.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		parser, err := sources.ForURL(url)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		fmt.Printf("Resolving novel from %s...\n", parser.SiteName())
		novel, err := parser.GetNovelInfo(ctx, url)
		if err != nil {
			return fmt.Errorf("failed to resolve novel: %w", err)
		}
		novel.Chapters, err = parser.GetChapterList(ctx, url)
		if err != nil {
			return fmt.Errorf("failed to load chapter list: %w", err)
		}

		chaptersFlag, _ := cmd.Flags().GetString("chapters")
		if chaptersFlag != "" {
			if err := sliceChapters(novel, chaptersFlag); err != nil {
				return err
			}
		}
		fmt.Printf("%s by %s: %d chapters\n", novel.Title, novel.Author, len(novel.Chapters))

		builder := integrations.NewEPubBuilder(outputDir())
		orch := services.NewOrchestrator(parser, builder, pipelineConfig())

		if path, err := libraryPath(); err == nil {
			if repo, err := data.NewRepository(path); err == nil {
				defer repo.Close()
				orch.SetRepository(repo)
			}
		}

		type runResult struct {
			report *services.Report
			err    error
		}
		resCh := make(chan runResult, 1)
		go func() {
			report, err := orch.RunNovel(ctx, novel)
			resCh <- runResult{report, err}
		}()

		plain, _ := cmd.Flags().GetBool("plain")
		if plain {
			for p := range orch.Progress() {
				if p.Total > 0 {
					fmt.Printf("\r  %d/%d chapters", p.Done, p.Total)
				}
			}
			fmt.Println()
		} else if err := app.Run(novel.Title, orch.Progress(), cancel); err != nil {
			// The TUI could not start (no TTY); keep draining so the
			// pipeline never blocks on a full channel.
			for range orch.Progress() {
			}
		}

		res := <-resCh
		if res.err != nil {
			return fmt.Errorf("download failed: %w", res.err)
		}

		fmt.Printf("EPUB created: %s\n", res.report.OutputPath)
		fmt.Printf("%d chapters delivered\n", len(res.report.Delivered))
		if len(res.report.Failed) > 0 {
			fmt.Printf("%d chapters failed:\n", len(res.report.Failed))
			for _, f := range res.report.Failed {
				fmt.Printf("  %4d  %s: %v\n", f.Index, f.Title, f.Err)
			}
		}
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringP("chapters", "c", "", "chapter range to download (e.g. 1-50)")
	downloadCmd.Flags().Bool("plain", false, "plain line output instead of the progress UI")
}

// sliceChapters narrows the chapter list to a 1-based inclusive range and
// re-indexes the survivors from zero.
func sliceChapters(novel *data.Novel, spec string) error {
	parts := strings.Split(spec, "-")
	if len(parts) != 2 {
		return fmt.Errorf("invalid chapter range %q, expected start-end (e.g. 1-50)", spec)
	}
	start, err1 := strconv.Atoi(parts[0])
	end, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || start < 1 || end < start {
		return fmt.Errorf("invalid chapter range %q", spec)
	}
	if start > len(novel.Chapters) {
		return fmt.Errorf("chapter range starts past the last chapter (%d)", len(novel.Chapters))
	}
	if end > len(novel.Chapters) {
		end = len(novel.Chapters)
	}
	novel.Chapters = novel.Chapters[start-1 : end]
	for i, ch := range novel.Chapters {
		ch.Index = i
	}
	return nil
}
