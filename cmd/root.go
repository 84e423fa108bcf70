package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tunebridge/spotify"
	"tunebridge/util"
)

var (
	spotifyClient *spotify.Client
	log           = logrus.New()
	cmdRoot       = &cobra.Command{
		Use:   "tunebridge",
		Short: "Match a local music library against the Spotify catalog and build a playlist",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if util.ErrWrap(false)(cmd.Flags().GetBool("verbose")) {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
)

func init() {
	cmdRoot.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmdRoot.PersistentFlags().StringP("config", "c", "", "Configuration file path (defaults to the XDG location)")
}

func Execute() {
	if err := cmdRoot.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
