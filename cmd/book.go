package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/wod-booker/internal/booking"
	"github.com/example/wod-booker/internal/gym"
)

func newBookCmd() *cobra.Command {
	var (
		account string
		date    string
		slot    string
		dryRun  bool
	)

	c := &cobra.Command{
		Use:   "book",
		Short: "Run one booking attempt from the command line",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			acct, ok := a.cfg.AccountByName(account)
			if !ok {
				if account != "" || len(a.cfg.Accounts) == 0 {
					return fmt.Errorf("unknown account %q", account)
				}
				acct = a.cfg.Accounts[0]
			}

			day := booking.Today(time.Now())
			if date != "" {
				t, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date (want YYYY-MM-DD)")
				}
				day = booking.Today(t)
			}

			req, err := booking.NewRequest(day, slot, dryRun)
			if err != nil {
				return err
			}

			res := a.machine.Execute(ctx, booking.Account{
				Name:        acct.Name,
				Credentials: gym.Credentials{Email: acct.Email, Password: acct.Password},
			}, req)
			if err := a.history.Record(ctx, acct.Name, req, res); err != nil {
				a.log.Warn("record attempt failed", zap.Error(err))
			}

			if res.Outcome == booking.OutcomeFailed {
				return fmt.Errorf("booking failed (%s): %v", res.Reason, res.Err)
			}
			fmt.Printf("%s\n", res.Outcome)
			return nil
		},
	}

	c.Flags().StringVar(&account, "account", "", "account name from config (default: first)")
	c.Flags().StringVar(&date, "date", "", "booking date YYYY-MM-DD (default: today)")
	c.Flags().StringVar(&slot, "time", "18:00-19:00", "time slot, e.g. 18:00-19:00")
	c.Flags().BoolVar(&dryRun, "dry-run", false, "perform all steps except the confirming click")

	return c
}
