package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all learner data",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			fmt.Println("Nothing to reset.")
			return nil
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Printf("This deletes all progress in %s. Type 'reset' to confirm: ", dbPath)
			reader := bufio.NewReader(os.Stdin)
			line, _ := reader.ReadString('\n')
			if strings.TrimSpace(line) != "reset" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("remove database: %w", err)
		}
		// WAL sidecar files, if present.
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")

		fmt.Println("Learner data deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("force", false, "Skip the confirmation prompt")
}
