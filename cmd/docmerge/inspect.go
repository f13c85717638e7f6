package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docmerge-dev/docmerge/internal/loader"
	"github.com/docmerge-dev/docmerge/internal/template"
	"github.com/docmerge-dev/docmerge/internal/validate"
)

var (
	inspectData     string
	inspectTemplate string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show spreadsheet columns and template placeholders",
	Long: `Print the column names of a spreadsheet, the placeholder names of a
template, or — when both are given — a validation dry-run showing
whether generation could proceed, without writing any file.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runInspect()
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectData, "data", "", "spreadsheet file (.xlsx)")
	inspectCmd.Flags().StringVar(&inspectTemplate, "template", "", "DOCX template")
}

func runInspect() error {
	if inspectData == "" && inspectTemplate == "" {
		return fmt.Errorf("provide --data, --template or both")
	}

	excel := loader.NewExcelLoader()

	if inspectData != "" {
		columns, err := excel.Columns(inspectData)
		if err != nil {
			return err
		}
		fmt.Printf("Columns (%d):\n", len(columns))
		for _, col := range columns {
			fmt.Printf("  %s\n", col)
		}
	}

	var templateVars map[string]struct{}
	if inspectTemplate != "" {
		doc, err := template.NewDocx(inspectTemplate)
		if err != nil {
			return err
		}
		names, err := doc.VariableNames()
		if err != nil {
			return err
		}
		fmt.Printf("Template placeholders (%d):\n", len(names))
		for _, name := range names {
			fmt.Printf("  {{ %s }}\n", name)
		}
		templateVars, err = doc.Variables()
		if err != nil {
			return err
		}
	}

	if inspectData != "" && inspectTemplate != "" {
		records, err := excel.Load(inspectData)
		if err != nil {
			return err
		}

		result := validate.NewDataValidator(settings.MaxRows).Validate(records, templateVars)
		if result.Valid {
			fmt.Printf("Validation: OK (%d rows)\n", len(records))
		} else {
			fmt.Println("Validation: FAILED")
			for _, msg := range result.Errors {
				fmt.Printf("  error: %s\n", msg)
			}
		}
		for _, msg := range result.Warnings {
			fmt.Printf("  warning: %s\n", msg)
		}
	}

	return nil
}
