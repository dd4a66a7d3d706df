package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tillhub/tpos"
)

// respond <request-url>: build the response URL for a received request.
func respondCmd(app *appContext) *cobra.Command {
	var (
		transactionFile string
		failure         string
		comment         string
		open            bool
	)
	cmd := &cobra.Command{
		Use:   "respond <request-url>",
		Short: "Answer a request URL with a transaction or a failure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (transactionFile == "") == (failure == "") {
				return errors.New("exactly one of --transaction or --error is required")
			}
			u, err := tpos.ParseURL(args[0])
			if err != nil {
				return err
			}
			req, err := app.codec.ParseRequest(u)
			if err != nil {
				return err
			}

			var (
				txn       *tpos.Transaction
				failedErr error
			)
			if failure != "" {
				failedErr = errors.New(failure)
			} else if txn, err = loadTransaction(transactionFile, cmd.InOrStdin()); err != nil {
				return err
			}
			header, err := app.codec.NewResponseHeader(req.Header, failedErr, comment)
			if err != nil {
				return err
			}
			resp, err := tpos.NewResponse(header, txn)
			if err != nil {
				return err
			}

			if !open {
				respURL, err := app.codec.EncodeResponse(resp)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(app.out, respURL.String())
				return err
			}
			d, err := app.dispatcher(nil)
			if err != nil {
				return err
			}
			_, err = d.DeliverResponse(cmd.Context(), resp)
			return err
		},
	}
	cmd.Flags().StringVarP(&transactionFile, "transaction", "t", "", "transaction file (.json, .yaml, or - for JSON on stdin)")
	cmd.Flags().StringVar(&failure, "error", "", "respond with a failure and this localized description")
	cmd.Flags().StringVar(&comment, "comment", "", "free-form response comment")
	cmd.Flags().BoolVar(&open, "open", false, "open the response URL instead of printing it")
	return cmd
}
