package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	taskpilot "github.com/taskpilot/taskpilot-go"
	"github.com/taskpilot/taskpilot-go/session"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

var apiURL string

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskpilot",
		Short: "Command-line client for the TaskPilot task manager",
		Long: `taskpilot talks to a TaskPilot server: log in once and the session is
persisted under your user config directory, so subsequent commands
reuse it until logout or expiry.

The server address comes from --api-url or the TASKPILOT_API_URL
environment variable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "TaskPilot server base URL (default: TASKPILOT_API_URL env)")

	rootCmd.AddCommand(
		loginCmd(),
		registerCmd(),
		logoutCmd(),
		whoamiCmd(),
		taskCmd(),
		chatCmd(),
		analyzeCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Printf("taskpilot %s (%s)\n", version, commit)
		},
	}
}

// newClient builds an SDK client backed by the file session store. Every
// command constructs and closes its own client; the durable session is what
// carries state between invocations.
func newClient() (*taskpilot.Client, error) {
	base := apiURL
	if base == "" {
		base = os.Getenv("TASKPILOT_API_URL")
	}
	if base == "" {
		return nil, fmt.Errorf("no server configured: pass --api-url or set TASKPILOT_API_URL")
	}

	path, err := session.DefaultFilePath()
	if err != nil {
		return nil, err
	}
	store, err := session.NewFileStore(path)
	if err != nil {
		return nil, err
	}

	cfg := taskpilot.DefaultConfig()
	cfg.API.BaseURL = base

	return taskpilot.New().
		WithConfig(cfg).
		WithSessionStore(store).
		Build()
}

// authedClient builds a client and rehydrates the persisted session,
// failing fast when no valid session exists.
func authedClient(cmd *cobra.Command) (*taskpilot.Client, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	if !client.CheckAuth(cmd.Context()) {
		client.Close()
		return nil, fmt.Errorf("not logged in: run `taskpilot login` first")
	}
	return client, nil
}
