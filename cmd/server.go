package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/wod-booker/internal/scheduler"
	"github.com/example/wod-booker/internal/web"
)

func newServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Run the booking API and the daily scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if a.cfg.ScheduleAt != "" {
				s := &scheduler.Scheduler{
					Machine:  a.machine,
					Accounts: a.cfg.Accounts,
					At:       a.cfg.ScheduleAt,
					Log:      a.log.Named("scheduler"),
				}
				if a.crawler != nil {
					s.Wod = a.crawler
				}
				go func() { _ = s.Run(ctx) }()
			}

			srv := &web.Server{
				Accounts: a.cfg.Accounts,
				Machine:  a.machine,
				Store:    a.store,
				History:  a.history,
				Log:      a.log.Named("web"),
			}
			if a.crawler != nil {
				srv.Wod = a.crawler
			}
			return web.Start(ctx, a.cfg.ListenAddr, srv.Routes(), a.log.Named("web"))
		},
	}
}
