package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"

	config "gtm-blueprint-api/configs"
	"gtm-blueprint-api/pkg/catalog"
	"gtm-blueprint-api/pkg/logger"
	"gtm-blueprint-api/pkg/models"
	"gtm-blueprint-api/pkg/openai"
	"gtm-blueprint-api/pkg/services"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// newCompleter テストで差し替えるための生成サービスのファクトリ
var newCompleter = func(cfg *config.Config, proxyURL string) (services.ChatCompleter, error) {
	client := openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey)
	if proxyURL == "" {
		return client, nil
	}

	proxy, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("無効なプロキシURLです: %w", err)
	}
	logger.Log.WithField("proxy", proxyURL).Info("HTTPクライアントにプロキシを設定しました")
	return client.WithHTTPClient(&http.Client{Transport: &http.Transport{Proxy: http.ProxyURL(proxy)}}), nil
}

// analysisFlags prompt/generate共通のフラグ
type analysisFlags struct {
	product       string
	noCompetitors bool
	noPricing     bool
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.product, "product", "", "product to analyze (default: first catalog entry)")
	cmd.Flags().BoolVar(&f.noCompetitors, "no-competitors", false, "skip competitor mapping")
	cmd.Flags().BoolVar(&f.noPricing, "no-pricing", false, "skip pricing and positioning insights")
}

func (f *analysisFlags) request(c catalog.Catalog) models.AnalysisRequest {
	product := f.product
	if product == "" && len(c) > 0 {
		product = c[0].Name
	}
	return models.AnalysisRequest{
		SelectedProduct:    product,
		IncludeCompetitors: !f.noCompetitors,
		IncludePricing:     !f.noPricing,
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	var seed int64
	var proxyURL string

	rootCmd := &cobra.Command{
		Use:           "blueprint",
		Short:         "AI GTM Blueprint Generator",
		Long:          "Generate a go-to-market blueprint for a trending product launch from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", cfg.CatalogSeed, "catalog sentiment seed (0: clock)")
	rootCmd.PersistentFlags().StringVar(&proxyURL, "proxy", os.Getenv("OPENAI_PROXY_URL"), "HTTP proxy for OpenAI requests")

	provider := func() *catalog.Provider {
		return catalog.NewProvider(seed, false)
	}

	var format, output string
	productsCmd := &cobra.Command{
		Use:   "products",
		Short: "List trending product launches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProducts(cmd.OutOrStdout(), provider().Current(), format, output)
		},
	}
	productsCmd.Flags().StringVar(&format, "format", "table", "output format (table/csv/xlsx)")
	productsCmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	var promptFlags analysisFlags
	promptCmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the prompt that would be sent to the model",
		RunE: func(cmd *cobra.Command, args []string) error {
			current := provider().Current()
			req := promptFlags.request(current)
			product, err := current.Lookup(req.SelectedProduct)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), services.BuildPrompt(product, req.IncludeCompetitors, req.IncludePricing))
			return nil
		},
	}
	promptFlags.register(promptCmd)

	var generateFlags analysisFlags
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a GTM blueprint for one product",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return errors.New(config.ConfigurationMissingMessage)
			}
			completer, err := newCompleter(cfg, proxyURL)
			if err != nil {
				return err
			}

			p := provider()
			svc := services.NewBlueprintService(completer, p, services.BlueprintOptions{Model: cfg.OpenAIModel})
			current := p.Current()
			outcome := svc.ComposeFrom(cmd.Context(), current, generateFlags.request(current))
			if outcome.Kind != services.OutcomeSuccess {
				return errors.New(outcome.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "## %s\n\n%s\n", outcome.Result.Heading, outcome.Result.Markdown)
			return nil
		},
	}
	generateFlags.register(generateCmd)

	rootCmd.AddCommand(productsCmd, promptCmd, generateCmd)
	return rootCmd
}

func runProducts(out io.Writer, c catalog.Catalog, format, output string) error {
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("出力ファイルの作成に失敗: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch strings.ToLower(format) {
	case "csv":
		return services.ExportCatalogCSV(c, out)
	case "xlsx":
		if output == "" {
			return errors.New("xlsx形式には --output が必要です")
		}
		return services.ExportCatalogXLSX(c, out)
	case "table":
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PRODUCT\tLAUNCH DATE\tCATEGORY\tSENTIMENT\tCOMPETITORS")
		for _, p := range c {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.LaunchDate, p.Category, p.Sentiment, p.CompetitorList())
		}
		return tw.Flush()
	}
	return fmt.Errorf("無効な形式です: %s", format)
}

func main() {
	// .envファイルは任意
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	if err := logger.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
