package main

import (
	"fmt"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/clientpulse/health-cli/internal/customer"
	"github.com/clientpulse/health-cli/internal/health"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score every stored customer",
	Long: `Score all customers in the store concurrently. The engine is pure and
stateless, so calculations run in parallel with bounded concurrency.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().Int("concurrency", 4, "maximum concurrent calculations")
	rootCmd.AddCommand(batchCmd)
}

// batchRow pairs a customer with its calculation outcome.
type batchRow struct {
	Customer customer.Customer
	Result   *health.HealthScoreResult
	Err      error
}

func runBatch(cmd *cobra.Command, _ []string) error {
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency < 1 {
		return eris.Errorf("batch: --concurrency must be >= 1 (got %d)", concurrency)
	}

	app, err := initApp(cfg)
	if err != nil {
		return err
	}

	customers := app.Customers.List()
	if len(customers) == 0 {
		fmt.Println("No customers stored.")
		return nil
	}

	zap.L().Info("batch: scoring customers",
		zap.Int("count", len(customers)),
		zap.Int("concurrency", concurrency),
	)

	rows := make([]batchRow, len(customers))
	var mu sync.Mutex

	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(concurrency)
	for i, c := range customers {
		i, c := i, c
		g.Go(func() error {
			result, err := app.Engine.Calculate(&c.Metrics, c.LastScore)
			mu.Lock()
			rows[i] = batchRow{Customer: c, Result: result, Err: err}
			mu.Unlock()
			// Validation failures are reported per row, not fatally.
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch: scoring")
	}

	printBatchTable(rows)
	return nil
}

func printBatchTable(rows []batchRow) {
	fmt.Printf("%-28s %6s %-9s %6s %-10s\n", "Company", "Score", "Risk", "Conf", "Trend")
	for _, row := range rows {
		if row.Err != nil {
			fmt.Printf("%-28s failed: %v\n", truncate(row.Customer.Company, 28), row.Err)
			continue
		}
		r := row.Result
		fmt.Printf("%-28s %6d %-9s %6.2f %-10s\n",
			truncate(row.Customer.Company, 28), r.OverallScore, r.RiskLevel, r.Confidence, r.Trend)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
