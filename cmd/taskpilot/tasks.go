package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	taskpilot "github.com/taskpilot/taskpilot-go"
)

func taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(
		taskListCmd(),
		taskCreateCmd(),
		taskUpdateCmd(),
		taskDeleteCmd(),
		taskStatsCmd(),
		taskSearchCmd(),
	)
	return cmd
}

func taskListCmd() *cobra.Command {
	var status, priority, search string
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := authedClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			tasks, err := client.ListTasks(cmd.Context(), taskpilot.TaskFilters{
				Status:   taskpilot.TaskStatus(strings.ToUpper(status)),
				Priority: taskpilot.Priority(strings.ToUpper(priority)),
				Search:   search,
				Limit:    limit,
				Offset:   offset,
			})
			if err != nil {
				return err
			}

			if len(tasks) == 0 {
				fmt.Println("No tasks")
				return nil
			}
			for _, t := range tasks {
				fmt.Printf("%s  [%s/%s]  %s\n", t.ID, t.Status, t.Priority, t.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending, in_progress, completed, cancelled)")
	cmd.Flags().StringVar(&priority, "priority", "", "filter by priority (low, medium, high, urgent)")
	cmd.Flags().StringVar(&search, "search", "", "filter by text search")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results")
	cmd.Flags().IntVar(&offset, "offset", 0, "pagination offset")
	return cmd
}

func taskCreateCmd() *cobra.Command {
	var description, priority string

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := authedClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			task, err := client.CreateTask(cmd.Context(), taskpilot.TaskCreate{
				Title:       args[0],
				Description: description,
				Priority:    taskpilot.Priority(strings.ToUpper(priority)),
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created %s  %s\n", task.ID, task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVar(&priority, "priority", "", "priority (low, medium, high, urgent)")
	return cmd
}

func taskUpdateCmd() *cobra.Command {
	var title, description, priority, status string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := authedClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			update := taskpilot.TaskUpdate{}
			if cmd.Flags().Changed("title") {
				update.Title = &title
			}
			if cmd.Flags().Changed("description") {
				update.Description = &description
			}
			if cmd.Flags().Changed("priority") {
				p := taskpilot.Priority(strings.ToUpper(priority))
				update.Priority = &p
			}
			if cmd.Flags().Changed("status") {
				s := taskpilot.TaskStatus(strings.ToUpper(status))
				update.Status = &s
			}

			task, err := client.UpdateTask(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %s  [%s/%s]  %s\n", task.ID, task.Status, task.Priority, task.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVar(&priority, "priority", "", "new priority")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	return cmd
}

func taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := authedClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
}

func taskStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := authedClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			stats, err := client.TaskStatsOverview(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Total: %d\n", stats.Total)
			printCounts("By status", stats.ByStatus)
			printCounts("By priority", stats.ByPriority)
			return nil
		},
	}
}

func taskSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find similar tasks by semantic search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := authedClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			results, err := client.SearchSimilarTasks(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Println("No similar tasks")
				return nil
			}
			for _, r := range results {
				fmt.Printf("%.2f  %s  %s\n", r.Similarity, r.Task.ID, r.Task.Title)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 5, "maximum results")
	return cmd
}

func printCounts(header string, counts map[string]int) {
	fmt.Printf("%s:\n", header)
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-12s %d\n", k, counts[k])
	}
}
