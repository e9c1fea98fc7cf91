package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/mail"
	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/model"
	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/normalize"
	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/report"
)

var emailCmd = &cobra.Command{
	Use:   "email",
	Short: "Send DR filing report emails",
}

var emailWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Send the flat weekly filing report",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Credentials are checked before any crawling starts.
		sender, err := newSender()
		if err != nil {
			return err
		}

		if !cmd.Flags().Changed("last") && !cmd.Flags().Changed("from") && !cmd.Flags().Changed("in") {
			_ = cmd.Flags().Set("last", "7d")
		}

		dump, err := loadFilings(ctx, cmd)
		if err != nil {
			return err
		}
		filings, err := applyFilters(cmd, dump)
		if err != nil {
			return err
		}

		from, _ := normalize.ParseThaiDate(dump.From)
		to, _ := normalize.ParseThaiDate(dump.To)
		body, err := report.WeeklyHTML(filings, from, to)
		if err != nil {
			return err
		}

		subject := fmt.Sprintf("DR Filing Weekly Report %s – %s", dump.From, dump.To)
		if err := sender.Send(cfg.Mail.Recipients, subject, body); err != nil {
			return err
		}
		cmd.Printf("sent weekly report (%d filings) to %d recipient(s)\n",
			len(filings), len(cfg.Mail.Recipients))
		return nil
	},
}

var emailMonthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Send the stage-grouped monthly filing report",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sender, err := newSender()
		if err != nil {
			return err
		}

		// Default window: the current calendar month to date.
		if !cmd.Flags().Changed("last") && !cmd.Flags().Changed("from") && !cmd.Flags().Changed("in") {
			now := time.Now().UTC()
			first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
			_ = cmd.Flags().Set("from", normalize.FormatDate(first))
		}

		dump, err := loadFilings(ctx, cmd)
		if err != nil {
			return err
		}
		filings, err := applyFilters(cmd, dump)
		if err != nil {
			return err
		}

		month, _ := normalize.ParseThaiDate(dump.From)
		body, err := report.MonthlyHTML(filings, month)
		if err != nil {
			return err
		}

		subject := fmt.Sprintf("DR Filing Monthly Report — %s", month.Format("January 2006"))
		if err := sender.Send(cfg.Mail.Recipients, subject, body); err != nil {
			return err
		}
		cmd.Printf("sent monthly report (%d filings) to %d recipient(s)\n",
			len(filings), len(cfg.Mail.Recipients))
		return nil
	},
}

func newSender() (mail.Sender, error) {
	if err := cfg.Validate("mail"); err != nil {
		return nil, err
	}
	return mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	})
}

func applyFilters(cmd *cobra.Command, dump *crawlDump) ([]model.Filing, error) {
	fl, err := parseFilter(cmd)
	if err != nil {
		return nil, err
	}
	return fl.Apply(dump.Filings), nil
}

func init() {
	for _, c := range []*cobra.Command{emailWeeklyCmd, emailMonthlyCmd} {
		addRangeFlags(c)
		addFilterFlags(c)
		c.Flags().String("in", "", "replay a fetch --json dump instead of crawling")
	}
	emailCmd.AddCommand(emailWeeklyCmd, emailMonthlyCmd)
	rootCmd.AddCommand(emailCmd)
}
