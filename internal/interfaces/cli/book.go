package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/meeting-intake/internal/application/intake"
	"github.com/example/meeting-intake/internal/domain/booking"
	"github.com/example/meeting-intake/internal/infrastructure/bookingapi"
	"github.com/example/meeting-intake/internal/infrastructure/config"
)

// NewBookCmd runs one submission through the same form pipeline the web API
// uses: field validation, guest commit heuristics and all.
func NewBookCmd() *cobra.Command {
	var (
		date, start, end, timezone, duration        string
		name, email, phone, company, demand, sector string
		guests                                      []string
		params                                      map[string]string
	)

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Submit one booking from the command line",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			logger, err := newLogger(true)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			day, err := time.Parse("2006-01-02", date)
			if err != nil {
				return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
			}
			sctx := booking.SchedulingContext{
				Date:       day,
				SlotStart:  start,
				SlotEnd:    end,
				TimeZone:   timezone,
				DurationID: duration,
			}

			notifier := intake.NewNotifier(cfg.NoticeTTL)
			coord := intake.NewCoordinator(bookingapi.New(cfg.BookingURL, cfg.BookingToken), notifier, nil, logger)
			form := intake.NewForm(sctx, params, coord)

			fields := map[string]string{
				"full_name":    name,
				"email":        email,
				"phone_number": phone,
				"company":      company,
				"demand":       demand,
				"field":        sector,
			}
			for k, v := range fields {
				if err := form.SetField(k, v); err != nil {
					return err
				}
			}
			for _, g := range guests {
				if err := form.SetGuestInput(g); err != nil {
					return err
				}
				if err := form.CommitGuestInput(); err != nil {
					return err
				}
			}

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			raw, fieldErrs, err := form.Submit(ctx)
			if err != nil {
				return err
			}
			if len(fieldErrs) > 0 {
				for f, msg := range fieldErrs {
					fmt.Printf("  %s: %s\n", f, msg)
				}
				return fmt.Errorf("form is invalid")
			}
			if form.Status() == intake.StatusFailed {
				return fmt.Errorf("booking failed: %s", form.FailureReason())
			}
			fmt.Printf("booked: %s\n", string(raw))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "meeting date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&start, "start", "", "slot start, e.g. 09:00")
	cmd.Flags().StringVar(&end, "end", "", "slot end, e.g. 09:30")
	cmd.Flags().StringVar(&timezone, "timezone", "UTC", "IANA time zone of the requester")
	cmd.Flags().StringVar(&duration, "duration", "", "duration identifier")
	cmd.Flags().StringVar(&name, "name", "", "requester full name")
	cmd.Flags().StringVar(&email, "email", "", "requester email")
	cmd.Flags().StringVar(&phone, "phone", "", "requester phone (optional)")
	cmd.Flags().StringVar(&company, "company", "", "requester company (optional)")
	cmd.Flags().StringVar(&demand, "demand", "", "what the consultation is about")
	cmd.Flags().StringVar(&sector, "field", "", "business sector")
	cmd.Flags().StringArrayVar(&guests, "guest", nil, "guest email (repeatable)")
	cmd.Flags().StringToStringVar(&params, "param", nil, "pass-through key=value (repeatable)")

	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	_ = cmd.MarkFlagRequired("duration")

	return cmd
}
