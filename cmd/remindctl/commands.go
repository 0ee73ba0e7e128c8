package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"reminder-assistant/config"
	"reminder-assistant/internal/app"
	"reminder-assistant/internal/scheduler"
	"reminder-assistant/pkg/datemath"
	"reminder-assistant/pkg/log"
)

// newRootCommand creates the remindctl command tree.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "remindctl",
		Short: "Operate the reminder assistant",
		Long: `remindctl inspects and drives the reminder assistant outside the bot.

  remindctl parse "dentist 14.11 at 16:30, 2 hours before" --tz Europe/Moscow
  remindctl list --owner 123456
  remindctl tick --stdout
  remindctl calendar-auth --credentials google-credentials.json`,
		SilenceUsage: true,
	}

	root.AddCommand(newParseCommand())
	root.AddCommand(newListCommand())
	root.AddCommand(newTickCommand())
	root.AddCommand(newCalendarAuthCommand())
	return root
}

func newParseCommand() *cobra.Command {
	var (
		tz  string
		now string
	)
	cmd := &cobra.Command{
		Use:   "parse <text>",
		Short: "Show what the date extractor finds in a reminder text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := time.Now()
			if now != "" {
				t, err := time.Parse(time.RFC3339, now)
				if err != nil {
					return fmt.Errorf("invalid --now: %w", err)
				}
				ref = t
			}

			ex, err := datemath.NewExtractor().Extract(strings.Join(args, " "), tz, ref)
			if err != nil {
				return err
			}
			printExtraction(cmd.OutOrStdout(), ex)
			return nil
		},
	}
	cmd.Flags().StringVar(&tz, "tz", "UTC", "IANA timezone of the author")
	cmd.Flags().StringVar(&now, "now", "", "reference time, RFC 3339 (default: current time)")
	return cmd
}

func newListCommand() *cobra.Command {
	var owner int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List an owner's reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				items, err := a.Reminders.ListByOwner(ctx, owner)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tREMIND AT (UTC)\tRECURRENCE\tSCOPE\tTEXT")
				for _, r := range items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						r.ID, r.RemindAt.Format("2006-01-02 15:04"), r.Recurrence, r.Scope, r.Text)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().Int64Var(&owner, "owner", 0, "Telegram user ID")
	cmd.MarkFlagRequired("owner")
	return cmd
}

func newTickCommand() *cobra.Command {
	var stdout bool
	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Run one scheduler tick now",
		Long: `Run one scheduler tick now. Delivered reminders are settled as usual:
one-offs are deleted and recurring ones advanced, also with --stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				var sender scheduler.Sender
				switch {
				case stdout:
					sender = writerSender{w: cmd.OutOrStdout()}
				case a.Bot != nil:
					sender = a.Bot
				default:
					return fmt.Errorf("telegram.bot_token is empty; use --stdout")
				}

				sched, err := a.NewScheduler(sender)
				if err != nil {
					return err
				}
				res := sched.Tick(ctx)
				fmt.Fprintf(cmd.OutOrStdout(), "due=%d birthdays=%d delivered=%d failed=%d deleted=%d advanced=%d\n",
					res.Due, res.Birthdays, res.Delivered, res.Failed, res.Deleted, res.Advanced)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print digests instead of sending them")
	return cmd
}

// withApp loads config, wires the app and runs fn.
func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := log.Init(log.ZapConfig{
		Level:    "warn",
		Mode:     cfg.Logger.Mode,
		Encoding: "console",
	})

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

// writerSender prints digests instead of sending them.
type writerSender struct {
	w io.Writer
}

func (s writerSender) Send(ctx context.Context, chatID int64, text, parseMode string) (int64, error) {
	_, err := fmt.Fprintf(s.w, "── chat %d ──\n%s\n\n", chatID, text)
	return 0, err
}

func printExtraction(w io.Writer, ex *datemath.Extraction) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "body\t%s\n", ex.Body)
	fmt.Fprintf(tw, "matched\t%s\n", ex.MatchedText)
	fmt.Fprintf(tw, "user date\t%s\n", ex.UserDate.Format(time.RFC3339))
	fmt.Fprintf(tw, "server date\t%s\n", ex.ServerDate.Format(time.RFC3339))
	fmt.Fprintf(tw, "recurrence\t%s (explicit: %v)\n", ex.Recurrence, ex.RecurrenceExplicit)
	fmt.Fprintf(tw, "offset\t%d min (explicit: %v)\n", ex.OffsetMinutes, ex.OffsetExplicit)
	fmt.Fprintf(tw, "birthday\t%v\n", ex.IsBirthday)
	fmt.Fprintf(tw, "needs normalization\t%v\n", ex.NeedsNormalization)
	tw.Flush()
}
