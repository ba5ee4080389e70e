package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vyaparsetu-service/internal/api"
	"vyaparsetu-service/internal/classifier"
	"vyaparsetu-service/internal/config"
	"vyaparsetu-service/internal/pricing"
	"vyaparsetu-service/internal/store"
)

// personaInputs are the three onboarding demo merchants.
var personaInputs = []classifier.Request{
	{Text: "Main peetal ke decorative items banata hoon - flower vase, diya stand, candle holder", Language: "hi", Location: "Moradabad, UP"},
	{Text: "Banarasi silk saree banati hoon, zari work ke saath, shaadi ke liye", Language: "hi", Location: "Varanasi, UP"},
	{Text: "Hum organic kali mirch aur elaichi produce karte hain, export quality, FSSAI certified", Language: "hi", Location: "Kochi, Kerala"},
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func classifyCmd() *cobra.Command {
	var req classifier.Request
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a product description and print the result as JSON",
		Example: `  vyaparsetu classify --text "I make brass decorative items - flower vase, diya stand, candle holder"
  vyaparsetu classify --text "Banarasi silk saree banati hoon" --language hi`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.classifier.Classify(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}
	cmd.Flags().StringVarP(&req.Text, "text", "t", "", "product description")
	cmd.Flags().StringVarP(&req.Language, "language", "l", "", "language of the text (en, hi or auto)")
	cmd.Flags().StringVar(&req.Location, "location", "", "merchant location, used as origin")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func pricingCmd() *cobra.Command {
	var q pricing.Query
	cmd := &cobra.Command{
		Use:   "pricing <category>",
		Short: "Print the pricing benchmark for a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Pricing needs no store or translator.
			q.Category = args[0]
			b, err := pricing.New(zap.NewNop()).Benchmark(q)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), b)
		},
	}
	cmd.Flags().StringVar(&q.YourPrice, "your-price", "", "your selling price in INR")
	cmd.Flags().StringVar(&q.Location, "location", "", "your region, excluded from expansion suggestions")
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the configured store with demo classifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ids, err := seedDemo(cmd.Context(), a)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d records\n", len(ids))
			return nil
		},
	}
}

// seedDemo records the synthetic history first, then classifies the personas
// so they appear as the most recent entries.
func seedDemo(ctx context.Context, a *app) ([]string, error) {
	ids, err := store.Seed(ctx, a.store, store.DemoRecords(time.Now(), a.cfg.Engine.Thresholds()))
	if err != nil {
		return ids, err
	}
	for _, req := range personaInputs {
		rec, err := a.classifier.Classify(ctx, req)
		if err != nil {
			return ids, fmt.Errorf("failed to classify persona %q: %w", req.Text, err)
		}
		ids = append(ids, rec.ID)
	}
	return ids, nil
}

func adminTokenCmd() *cobra.Command {
	var (
		adminID string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "admin-token",
		Short: "Issue an admin bearer token signed with ADMIN_JWT_SECRET",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			token, err := api.SignAdminToken(cfg.Admin.JWTSecret, adminID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&adminID, "admin-id", "admin", "admin id carried in the token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	return cmd
}
