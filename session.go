package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ZacxDev/video-region-editor/internal/config"
	"github.com/ZacxDev/video-region-editor/internal/document"
	"github.com/ZacxDev/video-region-editor/internal/editor"
	"github.com/ZacxDev/video-region-editor/internal/ffmpeg"
	"github.com/ZacxDev/video-region-editor/internal/platform"
	"github.com/ZacxDev/video-region-editor/internal/terminal"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

type editorKind string

const (
	kindCrop  editorKind = "crop"
	kindFocal editorKind = "focal"
	kindTrim  editorKind = "trim"
)

func sessionOptions(cmd *cobra.Command) config.SessionOptions {
	opts := config.SessionOptions{Editor: config.FromEnv()}
	opts.ConfigPath, _ = cmd.Flags().GetString("config")
	opts.Field, _ = cmd.Flags().GetString("field")
	opts.AssetPath, _ = cmd.Flags().GetString("asset")
	opts.Platform, _ = cmd.Flags().GetString("platform")
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		opts.Editor.Verbose = true
	}
	if cmd.Flags().Lookup("playback") != nil {
		opts.PlaybackDuration, _ = cmd.Flags().GetFloat64("playback")
		opts.VisibleSeconds, _ = cmd.Flags().GetFloat64("visible")
		opts.AudioExtension, _ = cmd.Flags().GetBool("audio-extension")
	}
	return opts
}

// prepareField applies the command line to the stored field and probes its asset
// when the metadata is missing.
func prepareField(store *document.Store, opts config.SessionOptions) (document.Field, error) {
	field, _ := store.Field(opts.Field)
	changed := false

	if opts.AssetPath != "" && opts.AssetPath != field.AssetPath {
		field.AssetPath = opts.AssetPath
		field.AssetDuration, field.SourceWidth, field.SourceHeight = 0, 0, 0
		changed = true
	}
	if opts.Platform != "" && opts.Platform != field.Platform {
		field.Platform = opts.Platform
		changed = true
	}
	if opts.PlaybackDuration > 0 && opts.PlaybackDuration != field.PlaybackDuration {
		field.PlaybackDuration = opts.PlaybackDuration
		changed = true
	}
	if opts.AudioExtension && !field.AudioExtension {
		field.AudioExtension = true
		changed = true
	}

	if field.AssetPath != "" && (field.AssetDuration == 0 || field.SourceWidth == 0) {
		meta, err := ffmpeg.NewProcessor(opts.Editor.Verbose).GetVideoMetadata(field.AssetPath)
		if err != nil {
			return field, err
		}
		field.AssetDuration = meta.Duration
		field.SourceWidth = meta.Width
		field.SourceHeight = meta.Height
		changed = true
	}

	if changed {
		store.Put(opts.Field, field)
	}
	return field, nil
}

func runSession(cmd *cobra.Command, kind editorKind) error {
	opts := sessionOptions(cmd)

	store, err := document.Load(opts.ConfigPath, opts.Editor.Verbose)
	if err != nil {
		return err
	}
	field, err := prepareField(store, opts)
	if err != nil {
		return err
	}

	var preset *platform.Preset
	if field.Platform != "" {
		p, err := platform.Get(field.Platform)
		if err != nil {
			return err
		}
		preset = &p
	}

	// the terminal owns stderr while the session runs
	if opts.Editor.Verbose {
		f, err := os.OpenFile(opts.ConfigPath+".log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return errors.Wrap(err, "failed to open log file")
		}
		defer f.Close()
		log.SetOutput(f)
		defer log.SetOutput(os.Stderr)
	}

	screen, err := terminal.NewScreen()
	if err != nil {
		return err
	}

	area := terminal.NewArea()
	view, reset, err := buildView(kind, store, field, preset, area, screen, opts)
	if err != nil {
		screen.Fini()
		return err
	}
	session := terminal.New(screen, view, terminal.Options{
		OnReset:        reset,
		RedrawInterval: opts.Editor.FrameInterval(),
		Verbose:        opts.Editor.Verbose,
	})
	session.Run()
	session.Close()
	screen.Fini()

	if !store.Dirty() {
		return nil
	}
	if err := store.Save(); err != nil {
		return err
	}
	fmt.Printf("Saved %s %s to %s\n", opts.Field, kind, store.Path())
	return nil
}

func buildView(kind editorKind, store *document.Store, field document.Field, preset *platform.Preset,
	area *terminal.Area, screen tcell.Screen, opts config.SessionOptions) (terminal.View, func(), error) {
	name := opts.Field
	verbose := opts.Editor.Verbose

	switch kind {
	case kindCrop:
		eopts := editor.Options[types.NormalizedRegion]{
			Initial:      field.Crop,
			OnChange:     func(r types.NormalizedRegion) { store.SetCrop(name, r) },
			DebounceTime: opts.Editor.DebounceTime,
			Bounds:       area,
			Verbose:      verbose,
		}
		var crop *editor.Cropper
		if preset != nil && field.SourceWidth > 0 && field.SourceHeight > 0 {
			w, h := preset.Aspect()
			crop = editor.NewAspectCropper(w, h, float64(field.SourceWidth), float64(field.SourceHeight), eopts)
		} else {
			crop = editor.NewCropper(eopts)
		}
		reset := func() {
			crop.Reset()
			store.Clear(name, string(kindCrop))
		}
		return terminal.NewCropView(crop, area), reset, nil

	case kindFocal:
		focal := editor.NewFocalPointSelector(editor.Options[types.NormalizedPoint]{
			Initial:      field.FocalPoint,
			OnChange:     func(p types.NormalizedPoint) { store.SetFocalPoint(name, p) },
			DebounceTime: opts.Editor.DebounceTime,
			Bounds:       area,
			Verbose:      verbose,
		})
		reset := func() {
			focal.Reset()
			store.Clear(name, string(kindFocal))
		}
		return terminal.NewFocalView(focal, area), reset, nil

	case kindTrim:
		if field.AssetDuration <= 0 {
			return nil, nil, fmt.Errorf("field %s has no asset duration; attach an asset with --asset", name)
		}
		playback := field.PlaybackDuration
		if preset != nil {
			playback = preset.CapDuration(playback)
		}
		trim := editor.NewTrimScrubber(editor.TrimOptions{
			Options: editor.Options[types.TrimInterval]{
				Initial:      field.Trim,
				OnChange:     func(t types.TrimInterval) { store.SetTrim(name, t) },
				DebounceTime: opts.Editor.DebounceTime,
				Bounds:       area,
				Verbose:      verbose,
			},
			AssetDuration:         field.AssetDuration,
			VisibleSeconds:        opts.VisibleSeconds,
			FieldPlaybackDuration: playback,
			AudioExtension:        field.AudioExtension,
			FrameInterval:         opts.Editor.FrameInterval(),
			Schedule:              func(frame func()) { terminal.Post(screen, frame) },
		})
		reset := func() {
			trim.Reset()
			store.Clear(name, string(kindTrim))
		}
		return terminal.NewTrimView(trim, area), reset, nil
	}
	return nil, nil, fmt.Errorf("unknown editor: %s", kind)
}
