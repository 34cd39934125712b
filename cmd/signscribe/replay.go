package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayusman/signscribe/internal/replay"
	"github.com/ayusman/signscribe/internal/session"
	"github.com/ayusman/signscribe/internal/sign"
)

func newReplayCmd(opts *options) *cobra.Command {
	var (
		asJSON  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "replay <frames.jsonl>",
		Short: "Feed a recorded frame stream through a session and print the transcript",
		Long: `Replay a JSON Lines recording, one frame per line:

  {"timestamp_ms": 1700000000000, "hands": [{"points": [...], "handedness": "Right"}]}

Frames are debounced using their recorded timestamps, so the result matches
what a live session would have committed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			frames, err := replay.ReadFile(args[0])
			if err != nil {
				return err
			}

			classifier, err := sign.NewClassifier(cfg.Classifier.Thresholds)
			if err != nil {
				return err
			}
			sess, err := session.New(session.Config{
				Classifier: classifier,
				Debounce:   cfg.Debounce,
				Logger:     logger,
			})
			if err != nil {
				return err
			}

			summary, err := replay.Run(sess, frames, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}

			if verbose {
				var first int64
				if len(frames) > 0 {
					first = frames[0].TimestampMS
				}
				for _, c := range summary.Commits {
					fmt.Fprintf(out, "%3d  +%6dms  %s\n", c.Seq, c.At.UnixMilli()-first, c.Label)
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, summary.Transcript)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the replay summary as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list each commit before the transcript")
	return cmd
}
