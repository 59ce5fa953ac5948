// internal/commands/list_models.go
package ollamabench

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mwiater/ollamabench/internal/ollama"
)

var (
	modelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	loadedModelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

// listCmd groups listing-related CLI commands.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Group commands for listing resources on the Ollama host",
}

// listModelsCmd enumerates all models on the configured host and labels the
// ones currently loaded in memory.
var listModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List all models available on the Ollama host",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		client := ollama.NewClient(cfg.Host(), cfg.RequestTimeout(), cfg.Debug)
		ctx := context.Background()

		models, err := client.ListModels(ctx)
		if err != nil {
			return err
		}
		if len(models) == 0 {
			fmt.Println("\nNo models found with ollama. Pull some models first")
			return nil
		}

		running, err := client.RunningModels(ctx)
		if err != nil {
			return fmt.Errorf("could not get running models: %v", err)
		}

		fmt.Println("\nAvailable models:")
		fmt.Println()
		for i, name := range models {
			line := fmt.Sprintf("%d. %s", i+1, name)
			if _, ok := running[name]; ok {
				fmt.Println(loadedModelStyle.Render(line + " (CURRENTLY LOADED)"))
			} else {
				fmt.Println(modelStyle.Render(line))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listModelsCmd)
}
