package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/onflow/flow-primary/config"
	"github.com/onflow/flow-primary/model/flow"
	"github.com/onflow/flow-primary/module/irrecoverable"
	"github.com/onflow/flow-primary/module/util"
)

var flagConfigFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the primary node",
	Run:   runPrimary,
}

func init() {
	defaults, err := config.DefaultConfig()
	if err != nil {
		// the embedded defaults are part of the binary
		panic(err)
	}
	config.InitializeFlags(runCmd.Flags(), defaults)
	runCmd.Flags().StringVar(&flagConfigFile, "config", "", "path to a yaml config file overriding the defaults")
}

func runPrimary(cmd *cobra.Command, _ []string) {
	conf, err := config.Load(cmd.Flags(), flagConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}

	level, err := zerolog.ParseLevel(conf.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(level)
	nodeLog := log.With().Str("node_role", "primary").Logger()

	workers, err := config.LoadWorkers(conf.WorkersFile)
	if err != nil {
		nodeLog.Fatal().Err(err).Str("file", conf.WorkersFile).Msg("could not load workers")
	}
	nodeLog.Info().Int("workers", workers.Len()).Msg("worker topology loaded")

	node, err := NewPrimaryNode(nodeLog, conf, workers,
		prometheus.DefaultRegisterer,
		prometheus.DefaultGatherer,
		func(header *flow.Header) {
			nodeLog.Debug().Uint64("round", header.Round).Int("payload_size", len(header.Payload)).Msg("header ready")
		},
	)
	if err != nil {
		nodeLog.Fatal().Err(err).Msg("could not create node")
	}

	ctx, cancel := context.WithCancel(context.Background())
	signalerCtx, errChan := irrecoverable.WithSignaler(ctx)
	go node.Start(signalerCtx)

	go func() {
		select {
		case <-node.Ready():
			nodeLog.Info().Str("grpc_address", node.RPC.GRPCAddress().String()).Msg("primary node startup complete")
		case <-ctx.Done():
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// block until a signal is received or a fatal error is encountered
	fatal := util.WaitError(errChan, sigCtx.Done())

	nodeLog.Info().Msg("primary node shutting down")
	cancel()
	<-node.Done()

	var result *multierror.Error
	if fatal != nil {
		result = multierror.Append(result, fatal)
	}
	if err := node.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		nodeLog.Fatal().Err(err).Msg("primary node stopped with errors")
	}
	nodeLog.Info().Msg("primary node shutdown complete")
}
