package peer

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ValentinKolb/rpclink/cmd/util"
	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/link"
	"github.com/ValentinKolb/rpclink/rpc/metrics"
	"github.com/ValentinKolb/rpclink/rpc/serializer"
	"github.com/ValentinKolb/rpclink/rpc/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var (
	// PeerCmd serves the demo procedures to controllers
	PeerCmd = &cobra.Command{
		Use:   "peer",
		Short: "Serve demo procedures to a controller",
		Long: `Wait for a controller on the endpoint and serve demo procedures to it: add, echo, led_color, procedures and the Adder class (Adder.new, Adder.add, Adder.total).
One controller is served at a time, the peer waits for the next one when a controller disconnects. The configuration can be set via command line flags or environment variables. The format of the environment variables is RPCLINK_<flag> (e.g. RPCLINK_RATE_LIMIT=10)`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return util.BindCommandFlags(cmd)
		},
		RunE: run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	util.SetupLinkFlags(PeerCmd, "0.0.0.0:8080")

	key := "rate-limit"
	PeerCmd.Flags().Float64(key, 0, util.WrapString("Maximum number of procedure invocations per second (0 = unlimited)"))

	key = "rate-burst"
	PeerCmd.Flags().Int(key, 1, util.WrapString("Number of invocations allowed to exceed the rate limit at once"))

	key = "procedure-timeout"
	PeerCmd.Flags().Duration(key, 0, util.WrapString("Abort procedures that run longer than this (0 = no limit)"))

	key = "metrics-endpoint"
	PeerCmd.Flags().String(key, "", util.WrapString("Address to serve prometheus metrics on (e.g. localhost:9090, empty = disabled)"))

	key = "metrics-debug"
	PeerCmd.Flags().Bool(key, false, util.WrapString("Also serve the pprof handlers on the metrics endpoint"))
}

// newRegistry creates the registry with the configured middlewares and the demo procedures
func newRegistry(conf common.LinkConfig) (*server.ProcedureRegistry, error) {
	middlewares := []server.Middleware{server.LoggingMiddleware()}
	if conf.RateLimit > 0 {
		middlewares = append(middlewares, server.RateLimitMiddleware(conf.RateLimit, conf.RateBurst))
	}
	if d := viper.GetDuration("procedure-timeout"); d > 0 {
		middlewares = append(middlewares, server.TimeoutMiddleware(d))
	}

	registry := server.NewProcedureRegistry(server.Chain(middlewares...))
	if err := bindDemoProcedures(registry); err != nil {
		return nil, err
	}
	return registry, nil
}

func run(cmd *cobra.Command, _ []string) error {
	conf := util.GetLinkConfig()
	util.Logger.Infof("Starting peer: %s", conf.String())

	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	registry, err := newRegistry(conf)
	if err != nil {
		return err
	}
	util.Logger.Infof("Serving procedures: %v", registry.Names())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if conf.MetricsEndpoint != "" {
		g.Go(func() error {
			return metrics.ListenAndServe(ctx, conf.MetricsEndpoint, viper.GetBool("metrics-debug"))
		})
	}

	g.Go(func() error {
		for ctx.Err() == nil {
			if err := serveSession(ctx, conf, s, registry); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}

// serveSession waits for one controller and serves it until it disconnects or ctx ends
func serveSession(ctx context.Context, conf common.LinkConfig, s serializer.IRPCSerializer, registry server.IProcedureRegistry) error {
	t, err := util.GetTransport(true)
	if err != nil {
		return err
	}
	// unblocks waiting for a controller
	stopClose := context.AfterFunc(ctx, func() { t.Close() })
	defer stopClose()

	l, err := link.Open(conf, t, s, registry)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer l.Close()

	select {
	case <-l.Done():
		util.Logger.Infof("Controller disconnected: %v", l.Err())
	case <-ctx.Done():
	}
	return nil
}
