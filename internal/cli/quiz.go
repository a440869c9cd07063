package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"codego/internal/quiz"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (a *app) quizCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quiz",
		Short: "Take a random quiz",
		Long:  "Answer each question by typing the option number or its text.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session := a.rt.Quiz()
			if err := session.Start(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			in := bufio.NewScanner(cmd.InOrStdin())

			for {
				q, ok := session.Current()
				if !ok {
					break
				}
				fmt.Fprintf(out, "\n%s %s\n", color.New(color.Bold).Sprintf("Question %d of %d:", session.Index()+1, session.Total()), q.QuestionText)
				for i, opt := range q.Options {
					fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
				}
				fmt.Fprint(out, "> ")

				var answer string
				if in.Scan() {
					answer = resolveAnswer(strings.TrimSpace(in.Text()), q.Options)
				}
				if session.SubmitAnswer(answer) {
					fmt.Fprintln(out, color.GreenString("Correct!"))
				} else {
					fmt.Fprintln(out, color.RedString("The answer was %s", q.CorrectAnswer))
				}
			}

			pct := session.Percentage()
			fmt.Fprintf(out, "\n%s %d%% (%d/%d)\n%s\n",
				color.New(color.Bold).Sprint("Quiz completed!"), pct, session.Score(), session.Total(), quiz.Feedback(pct))
			return in.Err()
		},
	}
}

// resolveAnswer maps a 1-based option number onto its text.
func resolveAnswer(input string, options []string) string {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(options) {
		return options[n-1]
	}
	return input
}
