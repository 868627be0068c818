package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clientpulse/health-cli/internal/health"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute a customer health score",
	Long: `Compute a composite health score from payment, engagement, contract,
and support metrics.

Input comes either from a stored customer (--customer) or a metrics JSON
file (--input). Missing metric sections are allowed and scored with
documented defaults at reduced confidence; out-of-range values are rejected.

Examples:
  # Score a stored customer by id
  score --customer 7f8d1c2e-...

  # Score raw metrics from a file
  score --input metrics.json

  # Include a previous score for trend detection
  score --input metrics.json --previous 62

  # JSON output
  score --input metrics.json --format json`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.String("customer", "", "stored customer id to score")
	f.String("input", "", "path to a metrics JSON file")
	f.Int("previous", -1, "previous overall score for trend detection (-1 = none)")
	f.String("format", "table", "output format: table or json")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	customerID, _ := cmd.Flags().GetString("customer")
	inputPath, _ := cmd.Flags().GetString("input")
	previous, _ := cmd.Flags().GetInt("previous")
	format, _ := cmd.Flags().GetString("format")

	if format != "table" && format != "json" {
		return eris.Errorf("score: --format must be table or json (got %q)", format)
	}
	if (customerID == "") == (inputPath == "") {
		return eris.New("score: exactly one of --customer or --input is required")
	}

	app, err := initApp(cfg)
	if err != nil {
		return err
	}

	var input *health.HealthScoreInput
	var prevScore *int
	label := inputPath

	if customerID != "" {
		c, err := app.Customers.Get(customerID)
		if err != nil {
			return eris.Wrapf(err, "score: customer %s", customerID)
		}
		input = &c.Metrics
		prevScore = c.LastScore
		label = c.Company
	} else {
		raw, err := os.ReadFile(inputPath)
		if err != nil {
			return eris.Wrapf(err, "score: read %s", inputPath)
		}
		input = &health.HealthScoreInput{}
		if err := json.Unmarshal(raw, input); err != nil {
			return eris.Wrapf(err, "score: parse %s", inputPath)
		}
	}

	if previous >= 0 {
		prevScore = &previous
	}

	result, err := app.Engine.Calculate(input, prevScore)
	if err != nil {
		return eris.Wrap(err, "score: calculate")
	}

	if customerID != "" {
		if err := app.Customers.SetLastScore(customerID, result.OverallScore); err != nil {
			zap.L().Warn("score: record last score", zap.Error(err))
		}
	}

	zap.L().Info("score: calculation complete",
		zap.String("subject", label),
		zap.Int("overall_score", result.OverallScore),
		zap.String("risk_level", string(result.RiskLevel)),
	)

	switch format {
	case "json":
		return writeResultJSON(os.Stdout, result)
	default:
		printScoreResult(label, result)
		return nil
	}
}

func writeResultJSON(w *os.File, result *health.HealthScoreResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return eris.Wrap(err, "score: encode result")
	}
	return nil
}

func printScoreResult(label string, r *health.HealthScoreResult) {
	fmt.Printf("Subject:      %s\n", label)
	fmt.Printf("Score:        %d / 100\n", r.OverallScore)
	fmt.Printf("Risk Level:   %s\n", r.RiskLevel)
	fmt.Printf("Confidence:   %.2f\n", r.Confidence)
	fmt.Printf("Trend:        %s\n", r.Trend)
	fmt.Printf("Completeness: %.0f%%\n", r.DataQuality.CompletenessScore*100)
	if len(r.DataQuality.MissingFields) > 0 {
		fmt.Printf("Missing:      %s\n", strings.Join(r.DataQuality.MissingFields, ", "))
	}
	fmt.Println("\nFactors:")
	printFactor("payment", r.FactorScores.Payment)
	printFactor("engagement", r.FactorScores.Engagement)
	printFactor("contract", r.FactorScores.Contract)
	printFactor("support", r.FactorScores.Support)
}

func printFactor(name string, f health.FactorScore) {
	fmt.Printf("  %-12s score=%3d  confidence=%.2f  weight=%.2f\n",
		name, f.Score, f.Confidence, f.Weight)
}
