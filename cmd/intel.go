package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clientpulse/health-cli/internal/intel"
)

var intelCmd = &cobra.Command{
	Use:   "intel <company>",
	Short: "Fetch market intelligence for a company",
	Long: `Fetch simulated news sentiment and headlines for a company. Results are
cached for the configured TTL; repeated calls within the window are served
from cache.

Examples:
  intel "TechCorp"
  intel "Johnson & Johnson" --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runIntel,
}

func init() {
	intelCmd.Flags().String("format", "table", "output format: table or json")
	rootCmd.AddCommand(intelCmd)
}

func runIntel(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "json" {
		return eris.Errorf("intel: --format must be table or json (got %q)", format)
	}

	app, err := initApp(cfg)
	if err != nil {
		return err
	}

	data, err := app.Intel.Get(cmd.Context(), args[0])
	if err != nil {
		return eris.Wrapf(err, "intel: %s", args[0])
	}

	zap.L().Info("intel: fetched intelligence",
		zap.String("company", data.Company),
		zap.String("sentiment", string(data.Sentiment.Label)),
	)

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(data), "intel: encode")
	}

	printIntel(data)
	return nil
}

func printIntel(d *intel.MarketIntelligenceData) {
	fmt.Printf("Company:    %s\n", d.Company)
	fmt.Printf("Sentiment:  %s (%.2f, confidence %.2f)\n",
		d.Sentiment.Label, d.Sentiment.Score, d.Sentiment.Confidence)
	fmt.Printf("Articles:   %d\n", d.ArticleCount)
	fmt.Printf("Updated:    %s\n", d.LastUpdated.Format("2006-01-02 15:04:05 MST"))
	fmt.Println("\nHeadlines:")
	for _, h := range d.Headlines {
		fmt.Printf("  [%s] %s (%s)\n",
			h.PublishedAt.Format("Jan 02 15:04"), h.Title, h.Source)
	}
}
