package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/techadvisor/techadvisor/pkg/core/chat"
	"github.com/techadvisor/techadvisor/pkg/core/providers/gemini"
	"github.com/techadvisor/techadvisor/pkg/core/types"
)

var (
	chatLat float64
	chatLng float64
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Conversa por texto com o assistente",
	Long: `Abre uma conversa interativa por texto.

Com --lat e --lng o assistente também procura lojas físicas próximas.

Comandos durante a conversa:
  /reset   recomeça a conversa
  /exit    encerra`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var client chat.CompletionClient
		if cfg.APIKey != "" {
			client = gemini.New(cfg.APIKey)
		}

		session := chat.NewSession(client, cfg.Model)
		if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
			session.SetLocation(&types.LatLng{Latitude: chatLat, Longitude: chatLng})
		}

		fmt.Println(headerStyle.Render("TechAdvisor"))
		fmt.Println(hintStyle.Render("Digite sua pergunta, /reset para recomeçar, /exit para sair."))

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(promptStyle.Render("> "))
			if !scanner.Scan() {
				fmt.Println()
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			switch line {
			case "/exit", "/quit":
				return nil
			case "/reset":
				session.Reset()
				fmt.Println(hintStyle.Render("Conversa reiniciada."))
				continue
			}

			reply := session.Send(cmd.Context(), line)
			fmt.Println(renderMessage(reply))
		}
	},
}

func init() {
	chatCmd.Flags().Float64Var(&chatLat, "lat", 0, "Latitude for nearby store search")
	chatCmd.Flags().Float64Var(&chatLng, "lng", 0, "Longitude for nearby store search")
}
