package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tunebridge/config"
	"tunebridge/util"
)

func init() {
	cmdRoot.AddCommand(cmdConfigure())
}

func cmdConfigure() *cobra.Command {
	return &cobra.Command{
		Use:          "configure",
		Short:        "Interactively set up the configuration file",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath := util.ErrWrap("")(cmd.Flags().GetString("config"))
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			cfg.MusicDirectory = prompt(reader, "Music directory", cfg.MusicDirectory)
			cfg.PlaylistName = prompt(reader, "Playlist name", cfg.PlaylistName)
			cfg.Spotify.ClientID = prompt(reader, "Spotify client ID", cfg.Spotify.ClientID)
			if secret := prompt(reader, "Spotify client secret", masked(cfg.Spotify.ClientSecret)); secret != masked(cfg.Spotify.ClientSecret) {
				cfg.Spotify.ClientSecret = secret
			}
			cfg.Spotify.RedirectURI = prompt(reader, "OAuth redirect URI", cfg.Spotify.RedirectURI)

			path, err := config.Save(cfg, configPath)
			if err != nil {
				return err
			}
			color.Green("configuration written to %s", path)
			return nil
		},
	}
}

// prompt shows the current value and keeps it when the user just presses
// enter.
func prompt(reader *bufio.Reader, label, current string) string {
	if current != "" {
		fmt.Printf("%s [%s]: ", label, current)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return current
	}
	if line = strings.TrimSpace(line); line != "" {
		return line
	}
	return current
}

// masked leaves only the tail of a secret visible in the prompt.
func masked(secret string) string {
	if len(secret) <= 4 {
		return secret
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}
