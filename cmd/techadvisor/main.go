// Command techadvisor is a conversational notebook shopping assistant.
// The chat subcommand runs a grounded text conversation; the live
// subcommand runs a realtime voice session.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/techadvisor/techadvisor/internal/config"
)

var (
	version = "dev"

	envFile string
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "techadvisor",
	Short: "Assistente de compra de notebooks",
	Long: `TechAdvisor é um assistente conversacional para escolha de notebooks.

Ele pesquisa preços e especificações em tempo real, monta comparativos
e encontra lojas próximas quando você informa sua localização.

Comandos:
  techadvisor chat                     # conversa por texto
  techadvisor chat --lat -23.55 --lng -46.63
  techadvisor live                     # conversa por voz`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		loaded, err := config.Load(envFile)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment variables from this dotenv file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(liveCmd)
}
