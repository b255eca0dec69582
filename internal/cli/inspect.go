package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newInspectCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect the imported curriculum",
	}
	cmd.AddCommand(newInspectOutlineCommand(a), newInspectLessonCommand(a), newInspectBanksCommand(a))
	return cmd
}

func newInspectOutlineCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "outline",
		Short: "Print the track / module / lesson tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			tracks, err := st.ListTracks(ctx)
			if err != nil {
				return err
			}
			if len(tracks) == 0 {
				fmt.Fprintln(out, "No curriculum imported yet.")
				return nil
			}

			for _, track := range tracks {
				fmt.Fprintf(out, "%s (%s, %.1f CE hours)\n", track.Title, track.Slug, track.CEHours)
				modules, err := st.ListModulesByTrack(ctx, track.ID)
				if err != nil {
					return err
				}
				for _, module := range modules {
					fmt.Fprintf(out, "  %s (%s)\n", module.Title, module.Slug)
					lessons, err := st.ListLessonsByModule(ctx, module.ID)
					if err != nil {
						return err
					}
					for _, lesson := range lessons {
						fmt.Fprintf(out, "    %s (%s, %d min) %s\n",
							lesson.Title, lesson.Slug, lesson.DurationMinutes, lesson.ID)
					}
				}
			}
			return nil
		},
	}
}

func newInspectLessonCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lesson <lesson-id>",
		Short: "Show a lesson's checkpoints and chunks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lessonID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid lesson id %q: %w", args[0], err)
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			lesson, err := st.GetLesson(ctx, lessonID)
			if err != nil {
				return fmt.Errorf("lesson %s: %w", lessonID, err)
			}
			fmt.Fprintf(out, "%s\n", lesson.Title)
			fmt.Fprintf(out, "Objectives:\n")
			for _, obj := range lesson.Objectives {
				fmt.Fprintf(out, "  - %s\n", obj)
			}

			cps, err := st.GetCheckpoints(ctx, lessonID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Checkpoints (%d):\n", len(cps))
			for _, cp := range cps {
				gate := cp.Gate.Data()
				gateNote := ""
				switch {
				case gate.MinTimeMinutes != nil:
					gateNote = fmt.Sprintf(" [min %d min]", *gate.MinTimeMinutes)
				case gate.PassingScore != nil:
					gateNote = fmt.Sprintf(" [pass >= %d]", *gate.PassingScore)
				}
				fmt.Fprintf(out, "  %2d. %-12s %s%s\n", cp.OrderIndex, cp.Type, cp.Title, gateNote)
			}

			chunks, err := st.GetChunks(ctx, lessonID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Chunks (%d):\n", len(chunks))
			for _, chunk := range chunks {
				fmt.Fprintf(out, "  %2d. %d tokens", chunk.Index, chunk.TokenCount)
				if len(chunk.Headings) > 0 {
					fmt.Fprintf(out, "  %v", []string(chunk.Headings))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func newInspectBanksCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List question banks and their sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			banks, err := st.ListBanks(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(banks) == 0 {
				fmt.Fprintln(out, "No question banks imported yet.")
				return nil
			}
			for _, bank := range banks {
				fmt.Fprintf(out, "%-30s %s (%d questions)\n", bank.Key, bank.Title, len(bank.Questions))
			}
			return nil
		},
	}
}
