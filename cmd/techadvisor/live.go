package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/techadvisor/techadvisor/pkg/core/live"
)

var recordPath string

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Conversa por voz com o assistente",
	Long: `Abre uma sessão de voz em tempo real: fale no microfone e ouça a
resposta do assistente.

Requer ffmpeg e ffplay no PATH.

Comandos durante a sessão:
  /mute    silencia ou reativa o microfone
  /vol     mostra o nível atual do microfone
  /exit    encerra`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		mic := newFFmpegMicSource(live.DefaultFrameSize)
		speaker, err := newFFplaySpeaker()
		if err != nil {
			return err
		}

		var player live.Player = speaker
		if recordPath != "" {
			player = newRecordingPlayer(speaker, recordPath)
		}

		session := live.NewSession(cfg.APIKey, live.SessionConfig{
			Model: cfg.LiveModel,
			Voice: cfg.Voice,
		}, mic, player)
		defer session.Close()

		if err := session.Connect(cmd.Context()); err != nil {
			return err
		}

		fmt.Println(headerStyle.Render("TechAdvisor (voz)"))
		fmt.Println(hintStyle.Render("Fale no microfone. /mute, /vol, /exit."))

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(promptStyle.Render("(voz)> "))
			if !scanner.Scan() {
				fmt.Println()
				return scanner.Err()
			}

			switch strings.TrimSpace(scanner.Text()) {
			case "":
				continue
			case "/exit", "/quit", "q":
				return nil
			case "/mute", "m":
				if session.ToggleMute() {
					fmt.Println(hintStyle.Render("Microfone silenciado."))
				} else {
					fmt.Println(hintStyle.Render("Microfone ativo."))
				}
			case "/vol", "v":
				fmt.Println(renderVolume(session.Volume()))
			default:
				fmt.Println(hintStyle.Render("Comandos: /mute, /vol, /exit"))
			}

			if session.State() != live.StateConnected {
				fmt.Println(hintStyle.Render("Sessão de voz encerrada."))
				return nil
			}
		}
	},
}

// renderVolume draws a level meter from the RMS of the latest mic frame.
func renderVolume(level float64) string {
	const width = 24
	filled := int(level * width)
	if filled > width {
		filled = width
	}
	return barStyle.Render(strings.Repeat("█", filled)) +
		hintStyle.Render(strings.Repeat("░", width-filled)) +
		fmt.Sprintf(" %.2f", level)
}

func init() {
	liveCmd.Flags().StringVar(&recordPath, "record", "", "Save assistant audio to this WAV file")
}
