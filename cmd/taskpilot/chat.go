package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	taskpilot "github.com/taskpilot/taskpilot-go"
)

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the task agent",
	}
	cmd.AddCommand(chatSendCmd(), chatHistoryCmd())
	return cmd
}

func chatSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <message>",
		Short: "Send a message to the agent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := authedClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.SendChatMessage(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Println(resp.Content)
			if resp.Type == taskpilot.ChatTaskCreated && resp.Task != nil {
				fmt.Printf("Created task %s  %s\n", resp.Task.ID, resp.Task.Title)
			}
			return nil
		},
	}
}

func chatHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the conversation history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := authedClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			messages, err := client.ChatHistory(cmd.Context(), limit)
			if err != nil {
				return err
			}

			for _, m := range messages {
				who := "agent"
				if m.IsUser {
					who = "you"
				}
				fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Local().Format("15:04"), who, m.Message)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum entries (default: service limit)")
	return cmd
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <message>",
		Short: "Preview how the AI would structure a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := authedClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			analysis, err := client.AnalyzeMessage(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Printf("Title:      %s\n", analysis.Title)
			fmt.Printf("Summary:    %s\n", analysis.Summary)
			fmt.Printf("Priority:   %s\n", analysis.SuggestedPriority)
			fmt.Printf("Reasoning:  %s\n", analysis.Reasoning)
			fmt.Printf("Confidence: %.2f\n", analysis.Confidence)
			return nil
		},
	}
}
