package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tillhub/tpos"
	"github.com/tillhub/tpos/internal/launcher"
)

// send: build the request URL and open it in the point-of-sale application.
func sendCmd(app *appContext) *cobra.Command {
	var (
		f      requestFlags
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Open the request URL with the system launcher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.buildRequest(f, cmd.InOrStdin())
			if err != nil {
				return err
			}
			var opener tpos.URLOpener
			if dryRun {
				opener = launcher.Printer{W: app.out}
			}
			d, err := app.dispatcher(opener)
			if err != nil {
				return err
			}
			ok, err := d.CanDeliver(app.cfg.Target, out.req)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no application can open %s:// URLs", app.cfg.Target)
			}
			delivery, err := d.DeliverRequest(cmd.Context(), out.req, app.cfg.Target)
			if err != nil {
				return err
			}
			app.log.Info("request sent",
				zap.String("request_id", delivery.RequestID),
				zap.String("target", app.cfg.Target),
				zap.Time("delivered_at", delivery.DeliveredAt),
			)
			return nil
		},
	}
	addRequestFlags(cmd, &f)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the URL instead of opening it")
	return cmd
}
