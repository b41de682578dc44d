package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docx2jats/internal/convert"
	"github.com/pdiddy/docx2jats/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert DOCX manuscripts to JATS XML",
	Long: `Convert runs the pipeline on one or more DOCX files, writing a .xml file
next to each input (or under --out). Journal metadata comes from a YAML
file given with --journal-config; individual flags override its fields.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jm, err := loadJournalMeta(cmd)
		if err != nil {
			return err
		}

		enrich, _ := cmd.Flags().GetBool("enrich")
		email, _ := cmd.Flags().GetString("email")
		outDir, _ := cmd.Flags().GetString("out")

		opts := convert.Options{
			Journal: jm,
			Enrichment: types.EnrichmentConfig{
				Enabled:        enrich,
				Email:          email,
				InterCallDelay: time.Second,
			},
			Progress: os.Stderr,
		}

		result := convert.RunBatch(cmd.Context(), args, outDir, opts, os.Stderr)
		if result.HasFailures() {
			return fmt.Errorf("%d of %d conversions failed", result.Failed, result.Total())
		}
		return nil
	},
}

// loadJournalMeta reads --journal-config YAML and applies flag overrides.
func loadJournalMeta(cmd *cobra.Command) (types.JournalMeta, error) {
	var jm types.JournalMeta

	if path, _ := cmd.Flags().GetString("journal-config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return jm, fmt.Errorf("reading journal config: %w", err)
		}
		if err := yaml.Unmarshal(data, &jm); err != nil {
			return jm, fmt.Errorf("parsing journal config: %w", err)
		}
	}

	overrides := map[string]*string{
		"journal":      &jm.Name,
		"publisher":    &jm.Publisher,
		"doi":          &jm.DOI,
		"volume":       &jm.Volume,
		"issue":        &jm.Issue,
		"year":         &jm.Year,
		"article-type": &jm.ArticleType,
		"license":      &jm.License,
	}
	for flag, dst := range overrides {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			*dst = v
		}
	}
	return jm, nil
}

// printSummary writes a one-line JSON summary; shared with the history
// command's --json mode.
func printSummary(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	convertCmd.Flags().String("out", "", "output directory (default: next to each input)")
	convertCmd.Flags().String("journal-config", "", "YAML file with journal and issue metadata")
	convertCmd.Flags().String("journal", "", "journal name")
	convertCmd.Flags().String("publisher", "", "publisher name")
	convertCmd.Flags().String("doi", "", "article DOI")
	convertCmd.Flags().String("volume", "", "volume number")
	convertCmd.Flags().String("issue", "", "issue number")
	convertCmd.Flags().String("year", "", "publication year")
	convertCmd.Flags().String("article-type", "", "article type (research-article, review-article, ...)")
	convertCmd.Flags().String("license", "", "license key (cc-by-4.0, cc-by-nc-4.0, cc-by-nc-nd-4.0)")
	convertCmd.Flags().Bool("enrich", false, "enrich references against CrossRef and OpenAlex")
	convertCmd.Flags().String("email", "", "contact email for registry polite pools")

	rootCmd.AddCommand(convertCmd)
}
