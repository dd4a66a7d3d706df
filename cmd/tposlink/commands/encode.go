package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tillhub/tpos"
)

func addRequestFlags(cmd *cobra.Command, f *requestFlags) {
	cmd.Flags().StringVarP(&f.payloadFile, "payload", "f", "", "cart or cart reference file (.json, .yaml, or - for JSON on stdin)")
	cmd.Flags().StringVar(&f.defaultsFile, "defaults", "", "file whose fields fill in what the payload leaves out (.json or .yaml)")
	cmd.Flags().StringVar(&f.payloadType, "type", string(tpos.PayloadTypeCart), "payload type: cart or cart_reference")
	cmd.Flags().StringVar(&f.action, "action", string(tpos.ActionPathCheckout), "action path: load or checkout")
	cmd.Flags().BoolVar(&f.autoReturn, "auto-return", false, "ask the point of sale to return right after the transaction")
	cmd.Flags().StringVar(&f.comment, "comment", "", "free-form header comment")
	_ = cmd.MarkFlagRequired("payload")
}

// encode: print the request URL for a payload file.
func encodeCmd(app *appContext) *cobra.Command {
	var f requestFlags
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the request URL for a cart or cart reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.buildRequest(f, cmd.InOrStdin())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(app.out, out.url.String())
			return err
		},
	}
	addRequestFlags(cmd, &f)
	return cmd
}
