package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docx2jats/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List logged conversions",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("history-db")
		if dbPath == "" {
			dbPath = viper.GetString("history_db")
		}
		if dbPath == "" {
			return fmt.Errorf("no history database configured (--history-db)")
		}

		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		st, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.List(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if asJSON {
			return printSummary(records)
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tWHEN\tFILE\tREFS\tTABLES\tBYTES")
		for _, rec := range records {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\n",
				rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"), rec.Filename,
				rec.Summary.References, rec.Summary.Tables, rec.Summary.OutputBytes)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().String("history-db", "", "path to sqlite conversion log")
	historyCmd.Flags().Int("limit", 20, "maximum number of records to list")
	historyCmd.Flags().Bool("json", false, "output records as JSON")

	rootCmd.AddCommand(historyCmd)
}
