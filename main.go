package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ZacxDev/video-region-editor/internal/config"
	"github.com/ZacxDev/video-region-editor/internal/document"
	"github.com/ZacxDev/video-region-editor/internal/ffmpeg"
	"github.com/ZacxDev/video-region-editor/internal/platform"
	"github.com/ZacxDev/video-region-editor/internal/replay"
)

var (
	rootCmd = &cobra.Command{
		Use:   "region-editor",
		Short: "Interactive crop, focal point and trim editing for video fields",
		Long: `region-editor edits the crop rectangle, focal point and trim interval of the media
fields in a JSON document, then renders the result with ffmpeg.

Examples:
  # Crop the hero field for TikTok, registering its asset first
  region-editor crop -c regions.json -f hero -a hero.mp4 -p tiktok

  # Pick the trim of the hero field, playing for 8 seconds
  region-editor trim -c regions.json -f hero --playback 8

  # Render the edited field
  region-editor render -c regions.json -f hero -o hero_out.mp4`,
	}

	cropCmd = &cobra.Command{
		Use:   "crop",
		Short: "Edit the crop rectangle of a field",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, kindCrop)
		},
	}

	focalCmd = &cobra.Command{
		Use:   "focal",
		Short: "Edit the focal point of a field",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, kindFocal)
		},
	}

	trimCmd = &cobra.Command{
		Use:   "trim",
		Short: "Edit the trim interval of a field on a scrollable timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, kindTrim)
		},
	}

	replayCmd = &cobra.Command{
		Use:   "replay SCRIPT",
		Short: "Run a recorded pointer script against an editor and print every state",
		Long: `Replay feeds mouse and touch events from a JSON script to an editor without a
terminal. Time only advances on "wait" steps, so the output is deterministic.

Example:
  region-editor replay drag.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "failed to read %s", args[0])
			}
			script, err := replay.Parse(data)
			if err != nil {
				return err
			}
			res, err := replay.Play(script)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	renderCmd = &cobra.Command{
		Use:   "render",
		Short: "Render a field with its crop and trim applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := config.RenderOptions{}
			opts.ConfigPath, _ = cmd.Flags().GetString("config")
			opts.Field, _ = cmd.Flags().GetString("field")
			opts.OutputPath, _ = cmd.Flags().GetString("output")
			opts.OutputFormat, _ = cmd.Flags().GetString("format")
			opts.Platform, _ = cmd.Flags().GetString("platform")
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")
			return render(opts)
		},
	}

	platformsCmd = &cobra.Command{
		Use:   "platforms",
		Short: "List the platform presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), formatSupportedPlatforms())
		},
	}
)

func formatSupportedPlatforms() string {
	var sb strings.Builder
	for _, name := range platform.Names() {
		p, _ := platform.Get(name)
		orientation := "landscape"
		if p.Portrait {
			orientation = "portrait"
		}
		limit := "no limit"
		if p.MaxDuration > 0 {
			limit = fmt.Sprintf("max %.0fs", p.MaxDuration)
		}
		sb.WriteString(fmt.Sprintf("- %s: %dx%d %s, %s, %s\n", name, p.Width, p.Height, orientation, limit, p.OutputFormat))
	}
	return sb.String()
}

func render(opts config.RenderOptions) error {
	store, err := document.Load(opts.ConfigPath, opts.Verbose)
	if err != nil {
		return err
	}
	field, err := store.MustField(opts.Field)
	if err != nil {
		return err
	}
	if field.AssetPath == "" {
		return fmt.Errorf("field %s has no asset", opts.Field)
	}

	job := ffmpeg.RenderJob{
		InputPath:    field.AssetPath,
		OutputFormat: opts.OutputFormat,
		Crop:         field.Crop,
		Trim:         field.Trim,
	}

	name := opts.Platform
	if name == "" {
		name = field.Platform
	}
	if name != "" {
		preset, err := platform.Get(name)
		if err != nil {
			return err
		}
		job.Preset = &preset
	}

	ext := ffmpeg.GetCodecSettings(job.OutputFormat).FileExtension
	if job.OutputFormat == "" && job.Preset != nil {
		ext = ffmpeg.GetCodecSettings(job.Preset.OutputFormat).FileExtension
	}
	job.OutputPath = ffmpeg.EnsureExtension(opts.OutputPath, ext)

	if opts.Verbose {
		log.Printf("Rendering field %s (crop=%v trim=%v)", opts.Field, field.Crop != nil, field.Trim != nil)
	}
	return ffmpeg.NewProcessor(opts.Verbose).Render(job)
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "regions.json", "Document holding the field values")
	cmd.Flags().StringP("field", "f", "", "Field to edit")
	cmd.Flags().StringP("asset", "a", "", "Asset to attach to the field (probed with ffprobe)")
	cmd.Flags().StringP("platform", "p", "",
		fmt.Sprintf("Platform preset (%s)", strings.Join(platform.Names(), ", ")))
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.MarkFlagRequired("field")
}

func init() {
	addSessionFlags(cropCmd)
	addSessionFlags(focalCmd)
	addSessionFlags(trimCmd)
	trimCmd.Flags().Float64("playback", 0, "Seconds the field plays for; sets the longest clip")
	trimCmd.Flags().Float64("visible", 0, "Seconds of timeline visible at once (default: whole asset)")
	trimCmd.Flags().Bool("audio-extension", false, "Allow clips 25% longer than the playback duration")

	renderCmd.Flags().StringP("config", "c", "regions.json", "Document holding the field values")
	renderCmd.Flags().StringP("field", "f", "", "Field to render")
	renderCmd.Flags().StringP("output", "o", "", "Output video path")
	renderCmd.Flags().String("format", "", "Output format (mp4 or webm, default from platform)")
	renderCmd.Flags().StringP("platform", "p", "", "Platform preset overriding the field's")
	renderCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")
	renderCmd.MarkFlagRequired("field")
	renderCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(cropCmd, focalCmd, trimCmd, replayCmd, renderCmd, platformsCmd)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := godotenv.Load(); err == nil && config.FromEnv().Verbose {
		log.Println("Loaded environment variables from .env file")
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
