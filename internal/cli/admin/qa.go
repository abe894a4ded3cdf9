package admin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/shulman33/careerchat/internal/config"
	"github.com/shulman33/careerchat/internal/database"
	"github.com/shulman33/careerchat/internal/domain"
	"github.com/shulman33/careerchat/internal/repository"
)

func QACmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qa",
		Short: "Manage the Q&A knowledge store",
		Long:  "Inspect and edit the question/answer pairs the chatbot draws on",
	}

	cmd.AddCommand(QAListCmd())
	cmd.AddCommand(QAPendingCmd())
	cmd.AddCommand(QAAddCmd())
	cmd.AddCommand(QAUpdateCmd())

	return cmd
}

func QAListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List Q&A entries",
		Long:  "List Q&A entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return runQAList(outputFormat, limit, false)
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results (0 for all)")

	return cmd
}

func QAPendingCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List questions still awaiting an answer",
		Long:  "List recorded visitor questions whose answer has not been filled in yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return runQAList(outputFormat, limit, true)
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results (0 for all)")

	return cmd
}

func runQAList(outputFormat string, limit int, pendingOnly bool) error {
	ctx := context.Background()

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := repository.NewQARepository(pool)

	entries, err := repo.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list Q&A entries: %w", err)
	}

	if pendingOnly {
		var pending []*domain.QAEntry
		for _, entry := range entries {
			if entry.NeedsAnswer() {
				pending = append(pending, entry)
			}
		}
		entries = pending
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	if outputFormat == "json" {
		data := make([]map[string]interface{}, len(entries))
		for i, entry := range entries {
			data[i] = map[string]interface{}{
				"id":           entry.ID,
				"question":     entry.Question,
				"answer":       entry.Answer,
				"needs_answer": entry.NeedsAnswer(),
				"created_at":   entry.CreatedAt,
			}
		}
		jsonBytes, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(jsonBytes))
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return nil
	}
	for _, entry := range entries {
		marker := " "
		if entry.NeedsAnswer() {
			marker = "!"
		}
		fmt.Printf("%s [%d] Q: %s\n      A: %s\n", marker, entry.ID, entry.Question, entry.Answer)
	}

	return nil
}

func QAAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <question> <answer>",
		Short: "Add a Q&A entry",
		Long:  "Append a new question/answer pair to the knowledge store",
		Args:  cobra.ExactArgs(2),
		RunE:  runQAAdd,
	}

	return cmd
}

func runQAAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := repository.NewQARepository(pool)
	if err := repo.Insert(ctx, args[0], args[1]); err != nil {
		return fmt.Errorf("failed to add Q&A entry: %w", err)
	}

	fmt.Println("Entry added.")
	return nil
}

func QAUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <question> <answer>",
		Short: "Update the answer for an existing question",
		Long:  "Replace the answer on the newest entry matching the given question text",
		Args:  cobra.ExactArgs(2),
		RunE:  runQAUpdate,
	}

	return cmd
}

func runQAUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := repository.NewQARepository(pool)
	updated, err := repo.UpdateAnswer(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to update Q&A entry: %w", err)
	}
	if !updated {
		return fmt.Errorf("no entry found for question: %s", args[0])
	}

	fmt.Println("Entry updated.")
	return nil
}

func getDBPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return pool, nil
}
