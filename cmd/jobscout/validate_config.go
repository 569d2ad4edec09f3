package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/schemas"
)

var validateConfigCommand = &cobra.Command{
	Use:   "validate-config",
	Short: "Check the config file against the schema and per-source rules",
	Args:  cobra.NoArgs,
	RunE:  runValidateConfig,
}

func init() {
	rootCmd.AddCommand(validateConfigCommand)
}

func runValidateConfig(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	doc, err := config.LoadDocument(configPath)
	if err != nil {
		return err
	}
	if err := schemas.ValidateConfigDocument(doc); err != nil {
		printValidation(cmd, "schema", err)
		return fmt.Errorf("%s does not match the config schema", configPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		printValidation(cmd, "config", err)
		return fmt.Errorf("%s is not a valid config", configPath)
	}

	fmt.Fprintf(out, "%s is valid: %d sources, %d companies\n", configPath, len(cfg.Sources), cfg.CompanyCount()) //nolint:errcheck
	for _, src := range cfg.Sources {
		fmt.Fprintf(out, "  %-16s %-13s %d companies\n", src.Name, src.Strategy, len(src.Companies)) //nolint:errcheck
	}
	return nil
}

func printValidation(cmd *cobra.Command, stage string, err error) {
	out := cmd.ErrOrStderr()
	var ve *schemas.ValidationError
	if !errors.As(err, &ve) {
		fmt.Fprintf(out, "%s: %v\n", stage, err) //nolint:errcheck
		return
	}
	for _, fe := range ve.Errors {
		fmt.Fprintf(out, "%s: %s: %s\n", stage, fe.Field, fe.Message) //nolint:errcheck
	}
}
