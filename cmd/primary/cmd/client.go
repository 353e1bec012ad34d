package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/onflow/flow-primary/engine/primary/rpc"
	"github.com/onflow/flow-primary/model/flow"
)

var (
	flagCreatedAt string
	flagTimeout   time.Duration
)

var reportOwnCmd = &cobra.Command{
	Use:   "report-own <digest> <worker-id>",
	Short: "Report a batch created by a worker and wait for its acknowledgment",
	Args:  cobra.ExactArgs(2),
	RunE:  reportOwn,
}

var reportPeerCmd = &cobra.Command{
	Use:   "report-peer <digest> <worker-id>",
	Short: "Report a batch a worker received from a peer",
	Args:  cobra.ExactArgs(2),
	RunE:  reportPeer,
}

var workersCmd = &cobra.Command{
	Use:   "workers",
	Short: "List the workers of a primary",
	Args:  cobra.NoArgs,
	RunE:  listWorkers,
}

func init() {
	for _, c := range []*cobra.Command{reportOwnCmd, reportPeerCmd, workersCmd} {
		c.Flags().StringVar(&flagPrimaryAddr, "primary", "127.0.0.1:9000", "address of the primary")
		c.Flags().UintVar(&flagMaxMsgSize, "max-msg-size", 4<<20, "maximum size of grpc messages in bytes")
		c.Flags().Uint64Var(&flagRetries, "retries", rpc.DefaultRetryAttempts, "retries while the primary is not ready")
		c.Flags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "timeout of the call")
	}
	reportOwnCmd.Flags().StringVar(&flagCreatedAt, "created-at", "", "batch creation time in RFC3339, defaults to now")
}

func reportOwn(_ *cobra.Command, args []string) error {
	digest, workerID, err := parseBatch(args)
	if err != nil {
		return err
	}
	createdAt := time.Now()
	if flagCreatedAt != "" {
		createdAt, err = time.Parse(time.RFC3339, flagCreatedAt)
		if err != nil {
			return fmt.Errorf("invalid creation time: %w", err)
		}
	}

	return withClient(func(ctx context.Context, client *rpc.Client) error {
		err := client.ReportOwnBatch(ctx, digest, workerID, createdAt)
		if err != nil {
			return fmt.Errorf("could not report own batch: %w", err)
		}
		log.Info().Hex("digest", digest[:]).Uint32("worker_id", uint32(workerID)).Msg("own batch acknowledged")
		return nil
	})
}

func reportPeer(_ *cobra.Command, args []string) error {
	digest, workerID, err := parseBatch(args)
	if err != nil {
		return err
	}

	return withClient(func(ctx context.Context, client *rpc.Client) error {
		err := client.ReportOthersBatch(ctx, digest, workerID)
		if err != nil {
			return fmt.Errorf("could not report peer batch: %w", err)
		}
		log.Info().Hex("digest", digest[:]).Uint32("worker_id", uint32(workerID)).Msg("peer batch stored")
		return nil
	})
}

func listWorkers(_ *cobra.Command, _ []string) error {
	return withClient(func(ctx context.Context, client *rpc.Client) error {
		workers, err := client.WorkerInfo(ctx)
		if err != nil {
			return fmt.Errorf("could not get workers: %w", err)
		}
		topology, err := flow.NewWorkerTopology(workers)
		if err != nil {
			return fmt.Errorf("primary returned invalid workers: %w", err)
		}
		for _, id := range topology.IDs() {
			info, _ := topology.ByID(id)
			fmt.Printf("%d\t%s\t%s\t%s\n", id, info.Name, info.Transactions, info.WorkerAddress)
		}
		return nil
	})
}

func withClient(call func(context.Context, *rpc.Client) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), flagTimeout)
	defer cancel()

	client, err := rpc.Dial(ctx, flagPrimaryAddr, flagMaxMsgSize, rpc.WithRetry(rpc.DefaultRetryBase, flagRetries))
	if err != nil {
		return err
	}
	defer client.Close()

	return call(ctx, client)
}

func parseBatch(args []string) (flow.BatchDigest, flow.WorkerID, error) {
	digest, err := flow.HexStringToBatchDigest(args[0])
	if err != nil {
		return flow.ZeroDigest, 0, fmt.Errorf("invalid digest: %w", err)
	}
	id, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return flow.ZeroDigest, 0, fmt.Errorf("invalid worker id: %w", err)
	}
	return digest, flow.WorkerID(id), nil
}
