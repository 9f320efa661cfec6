package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/wod-booker/internal/booking"
)

func newWodCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wod",
		Short: "Fetch and print today's workout description",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if a.crawler == nil {
				return fmt.Errorf("no accounts configured")
			}
			content, err := a.crawler.Fetch(ctx, booking.Today(time.Now()))
			if err != nil {
				return err
			}
			fmt.Println(content)
			return nil
		},
	}
}
