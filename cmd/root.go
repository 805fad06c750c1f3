package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leadveramedia/Jarvis/internal/logging"
)

var verbose bool

// rootCmd represents the base command for the jarvis application
var rootCmd = &cobra.Command{
	Use:   "jarvis",
	Short: "Turns actionable Gmail messages into Asana tasks",
	Long: `jarvis polls a Gmail inbox for unread messages, asks Gemini whether
each message warrants a task, and creates the task in a shared Asana
project before marking the message read.

It is a single-pass tool intended to be invoked periodically, e.g. by
cron or a CI schedule.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
	},
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "jarvis version %s\n" .Version}}`)

	// If no subcommand is provided, run the process command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "process")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the jarvis version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("jarvis version %s\n", version)
		},
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(newProcessCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}
