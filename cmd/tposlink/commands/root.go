package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tillhub/tpos"
	"github.com/tillhub/tpos/internal/config"
	"github.com/tillhub/tpos/internal/launcher"
	"github.com/tillhub/tpos/internal/logger"
)

// appContext is built before any subcommand runs.
type appContext struct {
	cfg   *config.Config
	log   *zap.Logger
	codec *tpos.Codec
	out   io.Writer
}

// dispatcher builds a dispatcher that opens URLs with opener, or with the
// configured launcher when opener is nil.
func (a *appContext) dispatcher(opener tpos.URLOpener) (*tpos.Dispatcher, error) {
	if opener == nil {
		opener = launcher.NewCommand(a.cfg.OpenCommand, a.log)
	}
	opts := []tpos.Option{
		tpos.WithLogger(a.log),
		tpos.WithAppMetadata(a.cfg.Metadata()),
	}
	if a.cfg.SelfCheck {
		opts = append(opts, tpos.WithSelfCheck())
	}
	return tpos.NewDispatcher(tpos.DeclaredSchemes(a.cfg.DeclaredSchemes), opener, opts...)
}

// Execute runs the tposlink CLI with the process arguments.
func Execute() error {
	return NewRootCmd(os.Stdout).Execute()
}

// NewRootCmd builds the command tree writing results to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	app := &appContext{out: out}
	var (
		envFile        string
		target         string
		callbackScheme string
		clientID       string
		sdkVersion     string
		selfCheck      bool
	)

	root := &cobra.Command{
		Use:           "tposlink",
		Short:         "Build, open and inspect Tillhub point-of-sale deep links",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("target") {
				cfg.Target = target
			}
			if flags.Changed("callback-scheme") {
				cfg.CallbackScheme = callbackScheme
			}
			if flags.Changed("client-id") {
				cfg.ClientID = clientID
			}
			if flags.Changed("sdk-version") {
				cfg.SDKVersion = sdkVersion
			}
			if flags.Changed("self-check") {
				cfg.SelfCheck = selfCheck
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := logger.New(cfg.Env, cfg.LogLevel)
			if err != nil {
				return err
			}
			codec, err := tpos.NewCodec(cfg.SDKVersion)
			if err != nil {
				return fmt.Errorf("sdk version: %w", err)
			}
			app.cfg, app.log, app.codec = cfg, log, codec
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.log != nil {
				_ = app.log.Sync()
			}
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&envFile, "env-file", "", "read TPOS_* variables from this file (default ./.env if present)")
	pf.StringVar(&target, "target", "", "scheme of the point-of-sale application (TPOS_TARGET)")
	pf.StringVar(&callbackScheme, "callback-scheme", "", "scheme the response is returned to (TPOS_CALLBACK_SCHEME)")
	pf.StringVar(&clientID, "client-id", "", "Tillhub account id (TPOS_CLIENT_ID)")
	pf.StringVar(&sdkVersion, "sdk-version", "", "protocol version to speak (TPOS_SDK_VERSION)")
	pf.BoolVar(&selfCheck, "self-check", false, "decode every URL again before opening it (TPOS_SELF_CHECK)")

	root.AddCommand(encodeCmd(app), sendCmd(app), decodeCmd(app), respondCmd(app))
	return root
}
