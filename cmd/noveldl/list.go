package cmd

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/joelsnl/noveldl/pkg/data"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List novels in your local library",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := libraryPath()
		if err != nil {
			return err
		}
		repo, err := data.NewRepository(path)
		if err != nil {
			return err
		}
		defer repo.Close()

		novels, err := repo.ListNovels()
		if err != nil {
			return err
		}
		if len(novels) == 0 {
			fmt.Println("Library is empty. Use 'noveldl download' to add a novel.")
			return nil
		}

		columns := []table.Column{
			{Title: "Title", Width: 40},
			{Title: "Author", Width: 20},
			{Title: "Lang", Width: 8},
			{Title: "Source", Width: 36},
		}

		rows := []table.Row{}
		for _, novel := range novels {
			rows = append(rows, table.Row{
				truncate(novel.Title, 38),
				truncate(novel.Author, 18),
				novel.Language,
				truncate(novel.SourceURL, 34),
			})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Bold(false)
		t.SetStyles(s)

		fmt.Printf("\nLibrary (%d novels)\n\n", len(novels))
		fmt.Println(t.View())
		return nil
	},
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
