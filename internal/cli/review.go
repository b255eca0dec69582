package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/licenseprep/curricula/internal/srs"
)

func newReviewCommand(a *app) *cobra.Command {
	var userFlag string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Spaced-repetition flashcard review",
	}
	cmd.PersistentFlags().StringVar(&userFlag, "user", "", "user id owning the cards")

	due := &cobra.Command{
		Use:   "due",
		Short: "List cards due for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUser(userFlag)
			if err != nil {
				return err
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			cards, err := st.DueFlashcards(cmd.Context(), userID, time.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(cards) == 0 {
				fmt.Fprintln(out, "No cards due. Nice work.")
				return nil
			}
			for _, card := range cards {
				front := card.Front
				if card.Prompt != "" {
					front = card.Prompt
				}
				fmt.Fprintf(out, "%s  [%s, interval %dd]  %s\n", card.ID, card.Type, card.Interval, front)
			}
			return nil
		},
	}

	grade := &cobra.Command{
		Use:   "grade <card-id> <grade>",
		Short: "Grade one card (0 again, 1 hard, 2 good, 3 easy)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cardID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid card id %q: %w", args[0], err)
			}
			g, err := strconv.Atoi(args[1])
			if err != nil || g < srs.GradeAgain || g > srs.GradeEasy {
				return fmt.Errorf("grade must be %d-%d", srs.GradeAgain, srs.GradeEasy)
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			result, err := st.ApplyReview(cmd.Context(), cardID, g)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Next review in %d day(s) (%s), ease %.2f\n",
				result.Interval, result.NextReviewDate.Format("2006-01-02"), result.Difficulty)
			return nil
		},
	}

	cmd.AddCommand(due, grade)
	return cmd
}

func parseUser(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, fmt.Errorf("--user is required")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id %q: %w", raw, err)
	}
	return userID, nil
}
