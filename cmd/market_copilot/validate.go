package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/market-copilot/internal/schemas"
)

var (
	validateSchema string
	validateJSON   string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON document against a schema",
	Long:  "Validate a JSON document against a JSON Schema. Without --schema the structured insight schema is used.",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Path to the JSON Schema (default: embedded structured insight schema)")
	validateCmd.Flags().StringVar(&validateJSON, "json", "", "Path to the JSON document")
	_ = validateCmd.MarkFlagRequired("json")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	var err error
	if validateSchema == "" {
		var doc []byte
		if doc, err = os.ReadFile(validateJSON); err != nil {
			return fmt.Errorf("failed to read %s: %w", validateJSON, err)
		}
		err = schemas.ValidateStructuredInsight(doc)
	} else {
		schemaPath := validateSchema
		if resolved := schemas.ResolveSchemaPath(validateSchema); resolved != "" {
			schemaPath = resolved
		}
		err = schemas.ValidateJSON(schemaPath, validateJSON)
	}

	var verr *schemas.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(cmd.OutOrStdout(), "Validation failed")
		return verr
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Validation passed")
	return nil
}
