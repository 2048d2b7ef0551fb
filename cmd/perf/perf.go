package perf

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/rpclink/cmd/util"
	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/link"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	PerfCmd = &cobra.Command{
		Use:   "perf",
		Short: "Performance testing tool for links",
		Long: `Issue many concurrent calls, sends and notifications to the peer and report throughput and latency percentiles.
The peer must have the procedure given by --procedure bound (the demo peer serves echo).`,
		PreRunE: processPerfConfig,
		RunE:    run,
	}
	perfProcedure  = "echo"
	perfArgs       = []any{}
	perfOperations = 10000
	perfNumThreads = 10
	perfSkip       = make([]string, 0)
)

// perfTest is one benchmark, op performs a single operation on the link
type perfTest struct {
	name string
	op   func(ctx context.Context, l *link.Link) error
}

// perfResult holds the measurements of one benchmark
type perfResult struct {
	test    string
	elapsed time.Duration
	errors  int64
	timer   gometrics.Timer
}

var percentiles = []float64{0.5, 0.95, 0.99}

func init() {
	cobra.OnInitialize(util.InitConfig)

	util.SetupLinkFlags(PerfCmd, "localhost:8080")

	key := "procedure"
	PerfCmd.Flags().String(key, "echo", util.WrapString("Procedure to call"))
	key = "args"
	PerfCmd.Flags().String(key, "", util.WrapString("Arguments passed to the procedure (comma separated, parsed like the call command)"))
	key = "operations"
	PerfCmd.Flags().Int(key, 10000, util.WrapString("Number of operations per test"))
	key = "threads"
	PerfCmd.Flags().Int(key, 10, util.WrapString("Number of goroutines issuing operations"))
	key = "skip"
	PerfCmd.Flags().String(key, "", util.WrapString("Tests to skip (comma separated - e.g. send,notify)"))
	key = "csv"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	perfProcedure = viper.GetString("procedure")
	perfOperations = max(viper.GetInt("operations"), 1)
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")
	if args := viper.GetString("args"); args != "" {
		perfArgs = util.ParseArgs(strings.Split(args, ","))
	}
	return nil
}

func run(cmd *cobra.Command, _ []string) error {
	fmt.Println("Performance testing tool for links")

	// Print configuration
	conf := util.GetLinkConfig()
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(conf.String())
	fmt.Printf("Procedure: %s %v\n", perfProcedure, perfArgs)
	fmt.Printf("Threads: %d, Operations: %d\n", perfNumThreads, perfOperations)
	fmt.Println()

	l, err := util.OpenLink(false, nil)
	if err != nil {
		return err
	}
	defer l.Close()

	tests := []perfTest{
		{"call", func(ctx context.Context, l *link.Link) error {
			_, err := l.Call(ctx, perfProcedure, perfArgs...)
			return err
		}},
		{"send", func(ctx context.Context, l *link.Link) error {
			return l.Send(ctx, perfProcedure, perfArgs...)
		}},
		{"notify", func(ctx context.Context, l *link.Link) error {
			return l.Notify(ctx, perfProcedure, perfArgs...)
		}},
	}

	fmt.Println("starting tests...")

	results := make([]perfResult, 0, len(tests))
	for _, test := range tests {
		if slices.Contains(perfSkip, test.name) {
			fmt.Printf("%-10sskipped\n", test.name)
			continue
		}
		result := runTest(cmd.Context(), l, test, perfOperations, perfNumThreads)
		results = append(results, result)
		printResult(result)
	}

	if csvPath := viper.GetString("csv"); csvPath != "" {
		if err := writeResultsToCSV(csvPath, results, conf); err != nil {
			return err
		}
		fmt.Printf("\nresults written to %s\n", csvPath)
	}
	return nil
}

// runTest spreads operations over threads goroutines and times every operation
func runTest(ctx context.Context, l *link.Link, test perfTest, operations, threads int) perfResult {
	result := perfResult{test: test.name, timer: gometrics.NewTimer()}

	var next atomic.Int64
	var failed atomic.Int64
	var wg sync.WaitGroup

	start := time.Now()
	wg.Add(threads)
	for i := 0; i < threads; i++ {
		go func() {
			defer wg.Done()
			for next.Add(1) <= int64(operations) {
				opStart := time.Now()
				if err := test.op(ctx, l); err != nil {
					if failed.Add(1) == 1 {
						util.Logger.Warningf("(%s) - operation failed: %v", test.name, err)
					}
					continue
				}
				result.timer.UpdateSince(opStart)
			}
		}()
	}
	wg.Wait()

	result.elapsed = time.Since(start)
	result.errors = failed.Load()
	result.timer.Stop()
	return result
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func opsPerSec(r perfResult) float64 {
	return float64(r.timer.Count()) / max(r.elapsed.Seconds(), 1e-9)
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(r perfResult) {
	snapshot := r.timer.Snapshot()
	ps := snapshot.Percentiles(percentiles)

	fmt.Printf("%-10s%8d ok %6d failed\t%.0f ops/sec\tmean %s\tp50 %s\tp95 %s\tp99 %s\tmax %s\n",
		r.test,
		snapshot.Count(),
		r.errors,
		opsPerSec(r),
		time.Duration(snapshot.Mean()),
		time.Duration(ps[0]),
		time.Duration(ps[1]),
		time.Duration(ps[2]),
		time.Duration(snapshot.Max()),
	)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []perfResult, conf common.LinkConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Test", "Operations", "Errors", "OpsPerSec", "MeanNs", "P50Ns", "P95Ns", "P99Ns", "MaxNs",
		"Endpoint", "Serializer", "Transport", "Procedure", "Threads",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range results {
		snapshot := r.timer.Snapshot()
		ps := snapshot.Percentiles(percentiles)

		row := []string{
			r.test,
			strconv.FormatInt(snapshot.Count(), 10),
			strconv.FormatInt(r.errors, 10),
			fmt.Sprintf("%.0f", opsPerSec(r)),
			fmt.Sprintf("%.0f", snapshot.Mean()),
			fmt.Sprintf("%.0f", ps[0]),
			fmt.Sprintf("%.0f", ps[1]),
			fmt.Sprintf("%.0f", ps[2]),
			strconv.FormatInt(snapshot.Max(), 10),
			conf.Transport.Endpoint,
			viper.GetString("serializer"),
			viper.GetString("transport"),
			perfProcedure,
			strconv.Itoa(perfNumThreads),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %w", r.test, err)
		}
	}

	return writer.Error()
}
