package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skandermulder/extractor/internal/schema"
	"github.com/skandermulder/extractor/internal/validate"
)

var (
	validateSchemaFile  string
	validateAllowExtras bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate an existing JSON document against a schema",
	Long: `Validate checks a JSON document against a declarative schema without
calling any generation backend. Diagnostics are printed one per line;
the exit status is non-zero when the document is invalid.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if validateSchemaFile == "" {
			return fmt.Errorf("--schema is required")
		}
		schemaData, err := os.ReadFile(validateSchemaFile)
		if err != nil {
			return fmt.Errorf("failed to read schema file: %w", err)
		}
		node, err := schema.ParseYAML(schemaData)
		if err != nil {
			return err
		}
		compiled, err := schema.Compile(node)
		if err != nil {
			return err
		}

		doc, err := readInput(args)
		if err != nil {
			return fmt.Errorf("failed to read document: %w", err)
		}

		result, err := validate.Validate(string(doc), compiled, validate.Options{AllowExtras: validateAllowExtras})
		if err != nil {
			return err
		}
		if result.Valid {
			fmt.Println("valid")
			return nil
		}
		for _, d := range result.Diagnostics {
			fmt.Printf("- %s at '%s' (schema: %s)\n", d.Message, d.InstancePath, d.SchemaPath)
		}
		return fmt.Errorf("document has %d validation failure(s)", len(result.Diagnostics))
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateSchemaFile, "schema", "s", "", "declarative schema file (YAML or JSON)")
	validateCmd.Flags().BoolVar(&validateAllowExtras, "allow-extras", false, "accept object properties the schema does not declare")
}
