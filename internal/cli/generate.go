package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/licenseprep/curricula/internal/clients/genai"
	"github.com/licenseprep/curricula/internal/srs"
)

func newGenerateCommand(a *app) *cobra.Command {
	var (
		userFlag    string
		lessonsFlag []string
		styleFlag   string
		maxCards    int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate flashcards from lesson content",
		Long: `Generate builds flashcards for a user from the given lessons. With a
text-generation service configured it produces styled cards; without one
it falls back to the deterministic definition-marker templates. Cards
already held (same user, type, front, and source) are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUser(userFlag)
			if err != nil {
				return err
			}
			if len(lessonsFlag) == 0 {
				return fmt.Errorf("--lessons is required")
			}
			style := srs.Style(styleFlag)
			switch style {
			case srs.StyleConcise, srs.StyleExam, srs.StyleMnemonic:
			default:
				return fmt.Errorf("style must be concise, exam, or mnemonic")
			}

			sourceIDs := make([]uuid.UUID, 0, len(lessonsFlag))
			for _, raw := range lessonsFlag {
				id, err := uuid.Parse(strings.TrimSpace(raw))
				if err != nil {
					return fmt.Errorf("invalid lesson id %q: %w", raw, err)
				}
				sourceIDs = append(sourceIDs, id)
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}

			var gen srs.TextGenerator
			if a.cfg.GenAI.URL != "" {
				gen = genai.NewClient(
					a.cfg.GenAI.URL,
					a.cfg.GenAI.APIKey,
					a.cfg.GenAI.Model,
					a.cfg.GenAI.FallbackModel,
					time.Duration(a.cfg.GenAI.TimeoutSeconds)*time.Second,
					a.log,
				)
			}

			result, err := srs.NewGenerator(st, gen, a.log).
				GenerateFromLessons(cmd.Context(), userID, sourceIDs, style, maxCards)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %d card(s), skipped %d duplicate(s)\n",
				result.Created, result.Duplicates)
			return nil
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "user id to own the cards")
	cmd.Flags().StringSliceVar(&lessonsFlag, "lessons", nil, "source lesson ids (comma separated)")
	cmd.Flags().StringVar(&styleFlag, "style", "concise", "card style: concise, exam, or mnemonic")
	cmd.Flags().IntVar(&maxCards, "max", 20, "maximum cards to create in this run")
	return cmd
}
