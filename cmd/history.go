package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved browsing sessions",
	Long:  `Lists the sessions recorded by docnav browse, most recent first. Resume one with docnav browse --session <id>.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, database, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := store.Delete(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted session %s\n", args[0])
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of sessions")
	historyCmd.Flags().Bool("json", false, "output sessions as JSON")
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, database, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	sessions, err := store.List(context.Background(), limit)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	if len(sessions) == 0 {
		fmt.Println("No saved sessions. Start one with `docnav browse <path>`.")
		return nil
	}
	for _, s := range sessions {
		fmt.Printf("%s  %s  %s%s  (%d entries)\n",
			s.UpdatedAt.Local().Format("2006-01-02 15:04"), s.ID, s.BaseURL, s.Current, s.Entries)
	}
	return nil
}
