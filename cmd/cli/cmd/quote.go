// Package cmd - quote command
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"greenquote/core/quote"
	"greenquote/core/types"
)

var (
	quoteFormat    string
	quoteClass     string
	quoteFrequency string
	quoteAddOns    []string
	quoteAccount   string
	quoteSave      bool
)

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote [address]",
	Short: "Produce a priced quote for an address",
	Long: `Resolve an address, auto-estimate the service area, and price it.

Examples:
  greenquote quote "123 Main St, Dallas, TX"
  greenquote quote --class commercial "123 Main St, Dallas, TX"
  greenquote quote --frequency weekly --addon edging --save "123 Main St, Dallas, TX"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&quoteFormat, "format", "f", "cli", "output format (cli, json)")
	quoteCmd.Flags().StringVarP(&quoteClass, "class", "c", "residential", "property class (residential, commercial)")
	quoteCmd.Flags().StringVar(&quoteFrequency, "frequency", "biweekly", "service cadence (weekly, biweekly, monthly, one_time)")
	quoteCmd.Flags().StringArrayVar(&quoteAddOns, "addon", nil, "add-on service ID, repeatable")
	quoteCmd.Flags().StringVar(&quoteAccount, "account", "", "account ID recorded on saved quotes")
	quoteCmd.Flags().BoolVar(&quoteSave, "save", false, "persist the quote to storage")
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	address := args[0]

	accountSettings, err := loadSettings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	geocoder, err := loadGeocoder()
	if err != nil {
		return fmt.Errorf("loading place index: %w", err)
	}
	if _, ok := accountSettings.FrequencyMultipliers[types.Frequency(quoteFrequency)]; !ok {
		return fmt.Errorf("unknown frequency: %s", quoteFrequency)
	}

	place, err := geocoder.ResolveAddress(ctx, address)
	if err != nil {
		return fmt.Errorf("resolving address: %w", err)
	}

	o := quote.New(accountSettings)
	o.SetPropertyClass(types.ParsePropertyClass(quoteClass))
	o.SetFrequency(types.Frequency(quoteFrequency))
	for _, id := range quoteAddOns {
		o.SelectAddOn(id, true)
	}
	o.SetPlace(place)

	rec := o.BuildRecord(quoteAccount, address)

	if quoteSave {
		store, err := openStore()
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer store.Close()
		if err := store.Save(ctx, &rec); err != nil {
			return fmt.Errorf("saving quote: %w", err)
		}
	}

	switch quoteFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(&rec)
	case "cli":
		printQuote(&rec, o.CurrentPrice(), quoteSave)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", quoteFormat)
	}
}

func printQuote(rec *quote.Record, price quote.PriceQuote, saved bool) {
	fmt.Printf("Address:    %s\n", rec.AddressText)
	fmt.Printf("Area:       %d sq ft (%s, %d polygon(s))\n", rec.AreaSqFt, rec.AreaSource, len(rec.Polygons))
	fmt.Printf("Pricing:    %s\n", rec.PricingMode)

	if len(price.Breakdown) > 0 {
		fmt.Println("Breakdown:")
		for _, entry := range price.Breakdown {
			fmt.Printf("  %7d sq ft @ %s = $%s\n",
				entry.SqFtInTier, entry.RatePerSqFt, entry.Price.StringFixed(2))
		}
	}
	if price.FloorApplied {
		fmt.Println("Minimum per-visit price applied.")
	}
	if len(rec.AddOns) > 0 {
		var names []string
		for _, a := range rec.AddOns {
			names = append(names, a.ID)
		}
		fmt.Printf("Add-ons:    %s ($%s/visit)\n", strings.Join(names, ", "), price.AddOnTotal.StringFixed(2))
	}

	fmt.Printf("Frequency:  %s\n", rec.Frequency)
	fmt.Printf("Per visit:  $%s\n", rec.PerVisitPrice.StringFixed(2))
	fmt.Printf("Monthly:    $%s\n", rec.MonthlyEstimate.StringFixed(2))
	if saved {
		fmt.Printf("Saved as:   %s\n", rec.ID)
	}
}
