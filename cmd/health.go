package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"smartcampus/health"
	"smartcampus/models"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Campus health summary, anonymous reports and the health assistant",
}

var healthSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the campus health summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := health.NewSummarySource(current.cfg, current.client)
		if err != nil {
			return err
		}
		return showHealthSummary(cmd.Context(), cmd.OutOrStdout(), src)
	},
}

var healthReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Submit an anonymous health report",
	RunE: func(cmd *cobra.Command, args []string) error {
		form, err := formFromFlags(cmd)
		if err != nil {
			return err
		}
		if err := form.Submit(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Thank you. Your report was submitted anonymously.")
		return nil
	},
}

var healthChatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the health assistant",
	Long: `Talk to the health assistant. Each line is sent as a message together
with the report form. Commands:
  /toggle <symptom>   select or clear a symptom
  /severity <level>   Mild, Moderate or Severe
  /type <illness>     Viral, Respiratory, Vector-borne, Gastrointestinal or Other
  /submit             submit the report form
  /quit               leave`,
	RunE: func(cmd *cobra.Command, args []string) error {
		form, err := formFromFlags(cmd)
		if err != nil {
			return err
		}
		return runChat(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), health.NewChat(current.client, form), form)
	},
}

func init() {
	for _, c := range []*cobra.Command{healthReportCmd, healthChatCmd} {
		c.Flags().String("type", string(models.Viral), "illness type")
		c.Flags().String("severity", string(models.Mild), "Mild, Moderate or Severe")
		c.Flags().String("location", "", "where you are staying (optional)")
		c.Flags().StringSlice("symptom", nil, "symptom to select, repeatable")
	}
	healthCmd.AddCommand(healthSummaryCmd, healthReportCmd, healthChatCmd)
	rootCmd.AddCommand(healthCmd)
}

func formFromFlags(cmd *cobra.Command) (*health.Form, error) {
	f := cmd.Flags()
	illness, _ := f.GetString("type")
	severity, _ := f.GetString("severity")
	location, _ := f.GetString("location")
	symptoms, _ := f.GetStringSlice("symptom")

	form := health.NewForm(current.client)
	if err := form.SetIllnessType(models.IllnessType(illness)); err != nil {
		return nil, err
	}
	if err := form.SetSeverity(models.Severity(severity)); err != nil {
		return nil, err
	}
	form.SetLocation(location)
	for _, s := range symptoms {
		if !form.Selected(s) {
			if _, err := form.ToggleSymptom(s); err != nil {
				return nil, fmt.Errorf("unknown symptom %q: %w", s, err)
			}
		}
	}
	return form, nil
}

func showHealthSummary(ctx context.Context, w io.Writer, src health.SummarySource) error {
	s, err := src.Summary(ctx)
	if err != nil {
		return err
	}
	renderHealthSummary(w, s)
	return nil
}

func runChat(ctx context.Context, r io.Reader, w io.Writer, chat *health.Chat, form *health.Form) error {
	fmt.Fprintln(w, "Health assistant. Type /quit to leave.")
	lines := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "> ")
		if !lines.Scan() {
			return lines.Err()
		}
		line := strings.TrimSpace(lines.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			quit, err := chatCommand(ctx, w, form, line)
			if err != nil {
				fmt.Fprintln(w, "!", err)
			}
			if quit {
				return nil
			}
			continue
		}

		// a failed exchange comes back as the apology message
		msg, _ := chat.Send(ctx, line)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintln(w, "bot:", msg.Text)
	}
}

func chatCommand(ctx context.Context, w io.Writer, form *health.Form, line string) (quit bool, err error) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "/quit", "/exit":
		return true, nil
	case "/toggle":
		on, err := form.ToggleSymptom(arg)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(w, "%s %s\n", arg, map[bool]string{true: "selected", false: "cleared"}[on])
	case "/severity":
		return false, form.SetSeverity(models.Severity(arg))
	case "/type":
		return false, form.SetIllnessType(models.IllnessType(arg))
	case "/submit":
		if err := form.Submit(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(w, "Report submitted. The form was reset.")
	default:
		return false, fmt.Errorf("unknown command %s", name)
	}
	return false, nil
}
