package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skandermulder/extractor/internal/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect declarative schemas",
}

var schemaCompileCmd = &cobra.Command{
	Use:   "compile <schema-file>",
	Short: "Compile a declarative schema and print its validation form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read schema file: %w", err)
		}
		node, err := schema.ParseYAML(data)
		if err != nil {
			return err
		}
		compiled, err := schema.Compile(node)
		if err != nil {
			return err
		}
		fmt.Println(compiled.String())
		return nil
	},
}

var schemaFieldsCmd = &cobra.Command{
	Use:   "fields <name[:kind]>...",
	Short: "Build and print a schema from bare field names",
	Long: `Fields builds an object schema from bare field names, the same way
extract --field does. A name may carry an explicit kind after a colon
("age:integer"); otherwise the kind is guessed from the name.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		node, err := schema.FromFields(args)
		if err != nil {
			return err
		}
		compiled, err := schema.Compile(node)
		if err != nil {
			return err
		}
		fmt.Println(compiled.String())
		return nil
	},
}

func init() {
	schemaCmd.AddCommand(schemaCompileCmd)
	schemaCmd.AddCommand(schemaFieldsCmd)
}
