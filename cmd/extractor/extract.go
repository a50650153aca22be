package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/skandermulder/extractor/internal/config"
	"github.com/skandermulder/extractor/internal/extract"
	"github.com/skandermulder/extractor/internal/prompt"
	"github.com/skandermulder/extractor/internal/providers"
	"github.com/skandermulder/extractor/internal/schema"
	"github.com/skandermulder/extractor/internal/validate"
)

var (
	extractSchemaFile  string
	extractFields      []string
	extractProvider    string
	extractModel       string
	extractMaxRetries  int
	extractStrategy    string
	extractTemperature float64
	extractAllowExtras bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract schema-conformant data from a text",
	Long: `Extract runs the self-correcting generation loop against the configured
backend. The source text is read from the given file or stdin. The schema
comes from --schema (a YAML/JSON declarative schema file) or --field
(bare field names with optional :kind hints).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		node, err := loadSchema()
		if err != nil {
			return err
		}

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		registry := providers.NewRegistryFromConfig(cfg.ToRegistryConfig())
		providerName := extractProvider
		if providerName == "" {
			providerName = cfg.Defaults.Provider
		}
		gen, err := registry.Get(providerName)
		if err != nil {
			return fmt.Errorf("%w (enable it in the config file)", err)
		}

		req, err := buildRequest(string(text), node, cfg.Defaults)
		if err != nil {
			return err
		}

		result, err := extract.Run(cmd.Context(), gen, req)
		if err != nil {
			return err
		}
		return printValue(os.Stdout, result.Value)
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractSchemaFile, "schema", "s", "", "declarative schema file (YAML or JSON)")
	extractCmd.Flags().StringArrayVarP(&extractFields, "field", "f", nil, "field name with optional kind hint, e.g. age:integer (repeatable)")
	extractCmd.Flags().StringVarP(&extractProvider, "provider", "p", "", "generation backend name from config")
	extractCmd.Flags().StringVarP(&extractModel, "model", "m", "", "model identifier (backend default if empty)")
	extractCmd.Flags().IntVarP(&extractMaxRetries, "max-retries", "r", 0, "total attempt budget including the first call")
	extractCmd.Flags().StringVar(&extractStrategy, "strategy", "", "correction strategy: reflect, direct or polite")
	extractCmd.Flags().Float64VarP(&extractTemperature, "temperature", "t", -1, "sampling temperature")
	extractCmd.Flags().BoolVar(&extractAllowExtras, "allow-extras", false, "accept object properties the schema does not declare")
}

// loadSchema builds the declarative schema from --schema or --field.
func loadSchema() (schema.Node, error) {
	switch {
	case extractSchemaFile != "" && len(extractFields) > 0:
		return nil, fmt.Errorf("--schema and --field are mutually exclusive")
	case extractSchemaFile != "":
		data, err := os.ReadFile(extractSchemaFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema file: %w", err)
		}
		return schema.ParseYAML(data)
	case len(extractFields) > 0:
		return schema.FromFields(extractFields)
	default:
		return nil, fmt.Errorf("either --schema or --field is required")
	}
}

// buildRequest merges flags over config defaults.
func buildRequest(text string, node schema.Node, defaults config.Defaults) (extract.Request, error) {
	req := extract.Request{
		Text:        text,
		Schema:      node,
		Model:       extractModel,
		MaxRetries:  extractMaxRetries,
		Temperature: extractTemperature,
		AllowExtras: extractAllowExtras || defaults.AllowExtras,
		Observer: func(attempt int, diags []validate.Diagnostic) {
			if diags == nil {
				slog.Info("attempt valid", "attempt", attempt)
				return
			}
			slog.Info("attempt invalid", "attempt", attempt, "diagnostics", len(diags))
			for _, d := range diags {
				slog.Info("diagnostic", "path", d.InstancePath, "message", d.Message)
			}
		},
	}

	if req.Model == "" {
		req.Model = defaults.Model
	}
	if req.MaxRetries == 0 {
		req.MaxRetries = defaults.MaxRetries
	}
	if req.Temperature < 0 {
		req.Temperature = defaults.Temperature
	}

	name := extractStrategy
	if name == "" {
		name = defaults.Strategy
	}
	if name != "" {
		strategy, err := prompt.ParseStrategy(name)
		if err != nil {
			return extract.Request{}, err
		}
		req.Strategy = strategy
	}
	return req, nil
}
