package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/signscribe/internal/landmark"
	"github.com/ayusman/signscribe/internal/sign"
)

type classifyOutput struct {
	Label sign.Label `json:"label"`
	Text  string     `json:"text"`
}

func newClassifyCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify <landmarks.json>",
		Short: "Classify one landmark set",
		Long: `Classify one landmark set stored as JSON:

  {"points": [{"x":0.5,"y":0.7,"z":0}, ... 21 points], "handedness": "Right"}

No debouncing is applied.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var input struct {
				Points     []landmark.Point3D `json:"points"`
				Handedness string             `json:"handedness"`
			}
			if err := json.Unmarshal(data, &input); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			classifier, err := sign.NewClassifier(cfg.Classifier.Thresholds)
			if err != nil {
				return err
			}
			label, err := classifier.ClassifyPoints(input.Points, landmark.Handedness(input.Handedness))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(classifyOutput{Label: label, Text: label.Text()})
			}
			fmt.Fprintln(out, label)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print {label, text} as JSON")
	return cmd
}
