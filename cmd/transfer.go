package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"atomicgo.dev/cursor"
	"github.com/arunsworld/nursery"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tunebridge/config"
	"tunebridge/entity"
	"tunebridge/library"
	"tunebridge/metadata"
	"tunebridge/report"
	"tunebridge/resolver"
	"tunebridge/spotify"
	"tunebridge/util"
)

const (
	routineTypeScan int = iota
	routineTypeAuth
	routineTypeResolve
	routineTypeMix
)

var (
	routineSemaphores map[int](chan bool)
	routineQueues     map[int](chan interface{})
	transferReport    *report.Report
)

func init() {
	cmdRoot.AddCommand(cmdTransfer())
}

func cmdTransfer() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "transfer",
		Short:        "Resolve local tracks against the catalog and build a playlist",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				configPath = util.ErrWrap("")(cmd.Flags().GetString("config"))
				input      = util.ErrWrap("")(cmd.Flags().GetString("input"))
				playlist   = util.ErrWrap("")(cmd.Flags().GetString("playlist"))
				annotate   = util.ErrWrap(false)(cmd.Flags().GetBool("annotate"))
				reportDir  = util.ErrWrap(".")(cmd.Flags().GetString("report-dir"))
				limit      = util.ErrWrap(0)(cmd.Flags().GetInt("search-limit"))
			)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg.MusicDirectory = util.First(input, cfg.MusicDirectory)
			cfg.PlaylistName = util.First(playlist, cfg.PlaylistName)
			if limit > 0 {
				cfg.Matching.SearchLimit = limit
			}

			transferReport = report.New(cfg.PlaylistName)

			cursor.Hide()
			defer cursor.Show()

			if err := nursery.RunConcurrently(
				routineScan(cfg.MusicDirectory),
				routineAuth(cfg.Spotify),
				routineResolve(cmd.Context(), cfg, annotate),
				routineMix(cmd.Context(), cfg.PlaylistName),
			); err != nil {
				return err
			}

			printSummary(transferReport)
			path, err := transferReport.Save(reportDir)
			if err != nil {
				return err
			}
			fmt.Printf("report saved to %s\n", path)
			return nil
		},
		PreRun: func(_ *cobra.Command, _ []string) {
			routineSemaphores = map[int](chan bool){
				routineTypeScan: make(chan bool, 1),
				routineTypeAuth: make(chan bool, 1),
			}
			routineQueues = map[int](chan interface{}){
				routineTypeResolve: make(chan interface{}, 10000),
				routineTypeMix:     make(chan interface{}, 10000),
			}
		},
	}
	cmd.Flags().StringP("input", "i", "", "Music library path (defaults to the configured music directory)")
	cmd.Flags().StringP("playlist", "p", "", "Name of the playlist to create")
	cmd.Flags().BoolP("annotate", "a", false, "Write resolved catalog IDs back into MP3 tags and skip files already annotated")
	cmd.Flags().String("report-dir", ".", "Directory the JSON results report is written to")
	cmd.Flags().Int("search-limit", 0, "Catalog results per query (defaults to the configured limit)")
	return cmd
}

// scanner walks the library, extracts tags and weeds out near-duplicates
// before resolution starts.
func routineScan(dir string) func(context.Context, chan error) {
	return func(_ context.Context, ch chan error) {
		// remember to signal the resolver and stop feeding it
		defer close(routineSemaphores[routineTypeScan])
		defer close(routineQueues[routineTypeResolve])

		paths, err := library.Scan(dir)
		if err != nil {
			routineSemaphores[routineTypeScan] <- false
			ch <- err
			return
		}
		transferReport.Summary.TotalFiles = len(paths)
		color.White("found %d audio files in %s", len(paths), dir)

		var (
			extractor metadata.Extractor
			tracks    []entity.LocalTrack
		)
		for _, path := range paths {
			track, err := extractor.Extract(path)
			if err != nil {
				transferReport.AddError(entity.LocalTrack{Path: path}, err)
				continue
			}
			tracks = append(tracks, track)
		}

		kept, dropped := library.Dedupe(tracks, library.DefaultMaxEditDistance)
		transferReport.Summary.Duplicates = len(dropped)
		for _, track := range dropped {
			log.WithField("path", track.Path).Debug("skipping duplicate")
		}

		for _, track := range kept {
			routineQueues[routineTypeResolve] <- track
		}
		routineSemaphores[routineTypeScan] <- true
	}
}

func routineAuth(creds config.Spotify) func(context.Context, chan error) {
	return func(ctx context.Context, ch chan error) {
		// remember to signal the resolver
		defer close(routineSemaphores[routineTypeAuth])

		client, err := spotify.Authenticate(ctx, spotify.Credentials{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURI:  creds.RedirectURI,
		}, func(authURL string) {
			color.Yellow("open the following URL in your browser to authenticate:")
			fmt.Println(authURL)
		}, log)
		if err != nil {
			routineSemaphores[routineTypeAuth] <- false
			ch <- err
			return
		}
		spotifyClient = client
		color.Green("authenticated")
		routineSemaphores[routineTypeAuth] <- true
	}
}

// resolver drives each scanned track through the staged catalog queries
// and records the outcome.
func routineResolve(ctx context.Context, cfg config.Config, annotate bool) func(context.Context, chan error) {
	return func(_ context.Context, ch chan error) {
		// remember to stop feeding the mixer
		defer close(routineQueues[routineTypeMix])
		// block until scanning and authentication are done
		if !<-routineSemaphores[routineTypeScan] {
			return
		}
		if !<-routineSemaphores[routineTypeAuth] {
			return
		}

		engine := resolver.New(spotifyClient, cfg.Matching.ResolverConfig(), log)
		for event := range routineQueues[routineTypeResolve] {
			track := event.(entity.LocalTrack)
			progress("resolving %s by %s", track.Title, track.Artist)

			if annotate && isMP3(track.Path) {
				if id := metadata.MP3CatalogID(track.Path); id != "" {
					transferReport.AddAlreadyTagged(track, id)
					routineQueues[routineTypeMix] <- id
					continue
				}
			}

			match, err := engine.Resolve(ctx, track)
			if err != nil {
				// a catalog hiccup on one track must not sink the batch
				transferReport.AddError(track, err)
				continue
			}
			if match == nil {
				transferReport.AddNotFound(track)
				continue
			}

			transferReport.AddMatch(track, match)
			if annotate && isMP3(track.Path) {
				if err := metadata.AnnotateMP3(track.Path, match.CatalogID); err != nil {
					log.WithField("path", track.Path).WithError(err).Warn("annotation failed")
				}
			}
			routineQueues[routineTypeMix] <- match.CatalogID
		}
		progressDone()
	}
}

// mixer creates the playlist lazily on the first resolved ID and flushes
// additions in API-sized batches.
func routineMix(ctx context.Context, name string) func(context.Context, chan error) {
	return func(_ context.Context, ch chan error) {
		var (
			playlistID string
			pending    []string
		)
		flush := func() error {
			if len(pending) == 0 {
				return nil
			}
			if err := spotifyClient.AddTracks(ctx, playlistID, pending); err != nil {
				return err
			}
			pending = pending[:0]
			return nil
		}

		for event := range routineQueues[routineTypeMix] {
			id := event.(string)
			if playlistID == "" {
				var err error
				playlistID, err = spotifyClient.CreatePlaylist(ctx, name, "Matched from a local music library by tunebridge")
				if err != nil {
					ch <- err
					return
				}
				transferReport.PlaylistID = playlistID
			}
			pending = append(pending, id)
			if len(pending) >= 100 {
				if err := flush(); err != nil {
					ch <- err
					return
				}
			}
		}
		if err := flush(); err != nil {
			ch <- err
		}
	}
}

func printSummary(r *report.Report) {
	fmt.Println()
	color.White("%d files scanned, %d duplicates skipped", r.Summary.TotalFiles, r.Summary.Duplicates)
	color.Green("matched %d tracks (%.1f%%)", r.Summary.Matched(), r.SuccessRate())
	color.White("  exact: %d, fuzzy: %d, title only: %d, artist fallback: %d, already tagged: %d",
		r.Summary.Exact, r.Summary.Fuzzy, r.Summary.TitleOnly, r.Summary.ArtistFallback, r.Summary.AlreadyTagged)
	if r.Summary.NotFound > 0 {
		color.Yellow("not found: %d", r.Summary.NotFound)
	}
	if r.Summary.Errors > 0 {
		color.Red("errors: %d", r.Summary.Errors)
	}
}

func progress(format string, args ...interface{}) {
	cursor.StartOfLine()
	cursor.ClearLine()
	fmt.Printf(format, args...)
}

func progressDone() {
	cursor.StartOfLine()
	cursor.ClearLine()
}

func isMP3(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mp3")
}
