package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/licenseprep/curricula/internal/chunker"
	"github.com/licenseprep/curricula/internal/clients/embedding"
	"github.com/licenseprep/curricula/internal/importer"
	"github.com/licenseprep/curricula/internal/scanner"
	"github.com/licenseprep/curricula/pkg/models"
)

func newImportCommand(a *app) *cobra.Command {
	var (
		dir   string
		clear bool
	)

	cmd := &cobra.Command{
		Use:   "import [document]",
		Short: "Import curriculum documents into the store",
		Long: `Import parses a course document (or every document under --dir) and
builds the full curriculum: outline, content chunks, lesson checkpoints,
microquizzes, question banks, derived practice exams, and term
flashcards. Re-running an import over the same material is safe.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && dir == "" {
				return fmt.Errorf("provide a document path or --dir")
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}

			var emb chunker.Embedder
			if a.cfg.Embedding.URL != "" {
				emb = embedding.NewClient(
					a.cfg.Embedding.URL,
					a.cfg.Embedding.APIKey,
					a.cfg.Embedding.Model,
					a.log,
				)
			}

			imp := importer.New(st, importer.Options{
				ChunkTargetTokens: a.cfg.Import.ChunkTargetTokens,
				Embedder:          emb,
				ClearFirst:        clear,
			}, a.log)

			ctx := cmd.Context()
			var result *models.ImportResult
			if dir != "" {
				docs, stats, err := scanner.New(a.log).ScanDirectory(ctx, dir)
				if err != nil {
					return err
				}
				a.log.Info("directory scan found documents", "count", stats.FileCount)
				result, err = imp.RunDirectory(ctx, docs)
				if err != nil {
					printResult(cmd, result)
					return err
				}
			} else {
				result, err = imp.Run(ctx, args[0])
				if err != nil {
					printResult(cmd, result)
					return err
				}
			}

			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "import every supported document under this directory")
	cmd.Flags().BoolVar(&clear, "clear", false, "delete the existing curriculum before importing (flashcards are kept)")
	return cmd
}

func printResult(cmd *cobra.Command, result *models.ImportResult) {
	if result == nil {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Import summary:")
	fmt.Fprintf(out, "  tracks:     %d\n", result.Tracks)
	fmt.Fprintf(out, "  modules:    %d\n", result.Modules)
	fmt.Fprintf(out, "  lessons:    %d\n", result.Lessons)
	fmt.Fprintf(out, "  chunks:     %d\n", result.Chunks)
	fmt.Fprintf(out, "  banks:      %d\n", result.Banks)
	fmt.Fprintf(out, "  questions:  %d\n", result.Questions)
	fmt.Fprintf(out, "  exams:      %d\n", result.Exams)
	fmt.Fprintf(out, "  flashcards: %d\n", result.Flashcards)

	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "Completed with %d lesson error(s):\n", len(result.Errors))
		for _, le := range result.Errors {
			fmt.Fprintf(out, "  - %s\n", le.Error())
		}
	}
}
