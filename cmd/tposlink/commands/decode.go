package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	jmes "github.com/jmespath/go-jmespath"
	"github.com/spf13/cobra"

	"github.com/tillhub/tpos"
)

// decode: print the envelope of a request or response URL as JSON.
func decodeCmd(app *appContext) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "decode <url>",
		Short: "Print the envelope carried by a request or response URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := tpos.ParseURL(args[0])
			if err != nil {
				return err
			}
			envelope, err := decodeEnvelope(app.codec, u)
			if err != nil {
				return err
			}
			return writeJSON(app.out, envelope, query)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "JMESPath expression applied to the envelope, e.g. payload.items[].productId")
	return cmd
}

// decodeEnvelope picks the request or response decoder by the query items
// present on u. A response wins since callback URLs may carry anything.
func decodeEnvelope(c *tpos.Codec, u *url.URL) (any, error) {
	for _, item := range tpos.QueryItems(u) {
		if item.Name == tpos.ResponseQueryKey {
			return c.DecodeResponse(u)
		}
	}
	return c.ParseRequest(u)
}

func writeJSON(w io.Writer, v any, query string) error {
	if query != "" {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		res, err := jmes.Search(query, doc)
		if err != nil {
			return fmt.Errorf("query %q: %w", query, err)
		}
		v = res
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
