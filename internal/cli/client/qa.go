package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type qaEntry struct {
	ID          int64  `json:"id"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	NeedsAnswer bool   `json:"needs_answer"`
	CreatedAt   string `json:"created_at"`
}

// QACmd creates the qa command group for managing the knowledge store
// over HTTP.
func QACmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qa",
		Short: "Manage the Q&A knowledge store",
		Long:  "Inspect and edit the question/answer pairs via the running server",
	}

	cmd.AddCommand(qaListCmd())
	cmd.AddCommand(qaPendingCmd())
	cmd.AddCommand(qaAddCmd())
	cmd.AddCommand(qaUpdateCmd())

	return cmd
}

func qaListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List Q&A entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runQAFetch(cmd, "/qa", outputJSON)
		},
	}

	return cmd
}

func qaPendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List questions still awaiting an answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runQAFetch(cmd, "/qa/pending", outputJSON)
		},
	}

	return cmd
}

func runQAFetch(cmd *cobra.Command, path string, outputJSON bool) error {
	api := NewAPIClientWithCmd(cmd)

	resp, err := api.Get(path)
	if err != nil {
		return err
	}

	if outputJSON {
		fmt.Println(string(resp.Data))
		return nil
	}

	var entries []qaEntry
	if err := json.Unmarshal(resp.Data, &entries); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return nil
	}
	for _, entry := range entries {
		marker := " "
		if entry.NeedsAnswer {
			marker = "!"
		}
		fmt.Printf("%s [%d] Q: %s\n      A: %s\n", marker, entry.ID, entry.Question, entry.Answer)
	}

	return nil
}

func qaAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <question> <answer>",
		Short: "Add a Q&A entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := NewAPIClientWithCmd(cmd)

			_, err := api.Post("/qa", map[string]string{
				"question": args[0],
				"answer":   args[1],
			})
			if err != nil {
				return err
			}

			fmt.Println("Entry added.")
			return nil
		},
	}

	return cmd
}

func qaUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <question> <answer>",
		Short: "Update the answer for an existing question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := NewAPIClientWithCmd(cmd)

			_, err := api.Put("/qa", map[string]string{
				"question":   args[0],
				"new_answer": args[1],
			})
			if err != nil {
				return err
			}

			fmt.Println("Entry updated.")
			return nil
		},
	}

	return cmd
}
