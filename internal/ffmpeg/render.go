package ffmpeg

import (
	"fmt"
	"log"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/ZacxDev/video-region-editor/internal/platform"
	"github.com/ZacxDev/video-region-editor/internal/region"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

// RenderJob applies a field's edits to its asset.
type RenderJob struct {
	InputPath    string
	OutputPath   string
	OutputFormat string
	Crop         *types.NormalizedRegion
	Trim         *types.TrimInterval
	// Preset, when set, picks codecs and bitrates and bounds the output size.
	// Without a crop the preset's centered aspect crop is used.
	Preset *platform.Preset
}

// PixelRect is a crop in source pixels.
type PixelRect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// CropRect converts a normalized region into even pixel coordinates inside a
// width x height frame. Encoders reject odd dimensions for yuv420p.
func CropRect(r types.NormalizedRegion, width, height int) PixelRect {
	r = region.SanitizeRegion(r)
	x, w := evenSpan(r.X, r.Width, width)
	y, h := evenSpan(r.Y, r.Height, height)
	return PixelRect{X: x, Y: y, Width: w, Height: h}
}

func evenSpan(pos, size float64, total int) (int, int) {
	if total < 2 {
		return 0, total
	}
	start := int(pos * float64(total))
	start -= start % 2
	length := int(size * float64(total))
	length -= length % 2
	if length < 2 {
		length = 2
	}
	if start+length > total {
		start = total - length
		start -= start % 2
	}
	return start, length
}

// Filter renders the rect as ffmpeg crop arguments.
func (r PixelRect) Filter() string {
	return fmt.Sprintf("%d:%d:%d:%d", r.Width, r.Height, r.X, r.Y)
}

// TrimArgs returns the input seek arguments for a trim interval. A nil or empty
// interval seeks nothing.
func TrimArgs(t *types.TrimInterval) ffmpeg.KwArgs {
	args := ffmpeg.KwArgs{}
	if t == nil || t.Duration() <= 0 {
		return args
	}
	if t.StartTime > 0 {
		args["ss"] = t.StartTime
	}
	args["t"] = region.Round4(t.Duration())
	return args
}

// OutputArgs returns encoder arguments for job.
func OutputArgs(job RenderJob) ffmpeg.KwArgs {
	format := job.OutputFormat
	if format == "" && job.Preset != nil {
		format = job.Preset.OutputFormat
	}
	codec := GetCodecSettings(format)

	args := ffmpeg.KwArgs{
		"c:v":     codec.VideoCodec,
		"c:a":     codec.AudioCodec,
		"pix_fmt": "yuv420p",
		"threads": GetOptimalThreadCount(),
	}
	if job.Preset != nil && strings.EqualFold(job.Preset.OutputFormat, codec.ContainerFormat) {
		args["c:v"] = job.Preset.VideoCodec
		args["c:a"] = job.Preset.AudioCodec
		args["b:v"] = job.Preset.VideoBitrate
		args["b:a"] = job.Preset.AudioBitrate
	}
	for k, v := range codec.Encoder {
		args[k] = v
	}
	return args
}

// BuildRender assembles the ffmpeg graph for job against a probed source.
func BuildRender(job RenderJob, meta *VideoMetadata) (*ffmpeg.Stream, error) {
	if meta == nil || meta.Width <= 0 || meta.Height <= 0 {
		return nil, fmt.Errorf("source dimensions unknown for %s", job.InputPath)
	}
	if job.OutputPath == "" {
		return nil, fmt.Errorf("no output path")
	}

	input := ffmpeg.Input(job.InputPath, TrimArgs(job.Trim))
	video := input.Video()

	crop := job.Crop
	if crop == nil && job.Preset != nil {
		def := job.Preset.DefaultCrop(meta.Width, meta.Height)
		crop = &def
	}

	width, height := meta.Width, meta.Height
	if crop != nil {
		rect := CropRect(*crop, meta.Width, meta.Height)
		video = video.Filter("crop", ffmpeg.Args{rect.Filter()})
		width, height = rect.Width, rect.Height
	}
	if job.Preset != nil {
		if w, h := job.Preset.OutputSize(width, height); w != width || h != height {
			video = video.Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", w, h)})
		}
	}

	streams := []*ffmpeg.Stream{video}
	if meta.HasAudio {
		streams = append(streams, input.Audio())
	}
	return ffmpeg.Output(streams, job.OutputPath, OutputArgs(job)).OverWriteOutput(), nil
}

// Render probes the source and writes the edited output.
func (p *Processor) Render(job RenderJob) error {
	meta, err := p.GetVideoMetadata(job.InputPath)
	if err != nil {
		return err
	}
	if job.Trim != nil && job.Trim.EndTime > meta.Duration {
		return fmt.Errorf("trim end %.3fs is past the end of %s (%.3fs)", job.Trim.EndTime, job.InputPath, meta.Duration)
	}
	if job.Preset != nil && job.Trim != nil && job.Preset.MaxDuration > 0 && job.Trim.Duration() > job.Preset.MaxDuration {
		log.Printf("Warning: clip is %.1fs, %s accepts at most %.0fs", job.Trim.Duration(), job.Preset.Name, job.Preset.MaxDuration)
	}

	stream, err := BuildRender(job, meta)
	if err != nil {
		return err
	}
	if p.verbose {
		log.Printf("Rendering %s -> %s", job.InputPath, job.OutputPath)
		stream = stream.ErrorToStdOut()
	}

	if err := stream.Run(); err != nil {
		return errors.Wrapf(err, "failed to render %s", job.OutputPath)
	}
	return nil
}
