package ffmpeg

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// CodecSettings are the encoder defaults for one container format.
type CodecSettings struct {
	VideoCodec      string
	AudioCodec      string
	ContainerFormat string
	FileExtension   string
	Encoder         ffmpeg.KwArgs
}

var codecPresets = map[string]CodecSettings{
	"webm": {
		VideoCodec:      "libvpx-vp9",
		AudioCodec:      "libopus",
		ContainerFormat: "webm",
		FileExtension:   ".webm",
		Encoder: ffmpeg.KwArgs{
			"deadline":       "good",
			"cpu-used":       2,
			"row-mt":         1,
			"tile-columns":   2,
			"frame-parallel": 1,
			"auto-alt-ref":   1,
			"lag-in-frames":  25,
		},
	},
	"mp4": {
		VideoCodec:      "libx264",
		AudioCodec:      "aac",
		ContainerFormat: "mp4",
		FileExtension:   ".mp4",
		Encoder: ffmpeg.KwArgs{
			"preset":    "slower",
			"profile:v": "high",
			"level":     "4.0",
			"movflags":  "+faststart",
			"x264opts":  "no-scenecut",
		},
	},
}

// GetCodecSettings returns the settings for outputFormat, falling back to webm.
func GetCodecSettings(outputFormat string) CodecSettings {
	if settings, ok := codecPresets[strings.ToLower(outputFormat)]; ok {
		return settings
	}
	return codecPresets["webm"]
}

// VideoMetadata describes a probed asset.
type VideoMetadata struct {
	Duration float64
	Width    int
	Height   int
	Codec    string
	HasAudio bool
}

// Processor wraps FFmpeg functionality
type Processor struct {
	verbose bool
}

// NewProcessor creates a new FFmpeg processor
func NewProcessor(verbose bool) *Processor {
	return &Processor{
		verbose: verbose,
	}
}

// GetVideoMetadata probes inputPath.
func (p *Processor) GetVideoMetadata(inputPath string) (*VideoMetadata, error) {
	probe, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return nil, fmt.Errorf("error probing video: %v", err)
	}

	meta, err := ParseProbe(probe)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read metadata of %s", inputPath)
	}
	if p.verbose {
		log.Printf("Probed %s: %dx%d %s, %.3fs, audio=%v",
			inputPath, meta.Width, meta.Height, meta.Codec, meta.Duration, meta.HasAudio)
	}
	return meta, nil
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Duration   string `json:"duration"`
	NbFrames   string `json:"nb_frames"`
	RFrameRate string `json:"r_frame_rate"`
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ParseProbe reads ffprobe JSON output. The duration comes from the video stream,
// then the container, then the frame count over the frame rate.
func ParseProbe(probe string) (*VideoMetadata, error) {
	var data probeOutput
	if err := json.Unmarshal([]byte(probe), &data); err != nil {
		return nil, errors.WithStack(err)
	}
	if len(data.Streams) == 0 {
		return nil, fmt.Errorf("no streams found in video")
	}

	var video *probeStream
	hasAudio := false
	for i := range data.Streams {
		switch data.Streams[i].CodecType {
		case "video":
			if video == nil {
				video = &data.Streams[i]
			}
		case "audio":
			hasAudio = true
		}
	}
	if video == nil {
		return nil, fmt.Errorf("no video stream found")
	}

	duration := parseSeconds(video.Duration)
	if duration == 0 {
		duration = parseSeconds(data.Format.Duration)
	}
	if duration == 0 {
		frames := parseSeconds(video.NbFrames)
		if rate := parseFrameRate(video.RFrameRate); frames > 0 && rate > 0 {
			duration = frames / rate
		}
	}
	if duration == 0 {
		return nil, fmt.Errorf("could not determine video duration")
	}

	return &VideoMetadata{
		Duration: duration,
		Width:    video.Width,
		Height:   video.Height,
		Codec:    video.CodecName,
		HasAudio: hasAudio,
	}, nil
}

func parseSeconds(s string) float64 {
	d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(d) || d < 0 {
		return 0
	}
	return d
}

func parseFrameRate(s string) float64 {
	nums := strings.Split(s, "/")
	if len(nums) != 2 {
		return 0
	}
	num, err1 := strconv.ParseFloat(nums[0], 64)
	den, err2 := strconv.ParseFloat(nums[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}

// GetOptimalThreadCount leaves a quarter of the cores free.
func GetOptimalThreadCount() int {
	cpuCount := runtime.NumCPU()
	return int(math.Max(1, float64(cpuCount)*0.75))
}

// EnsureExtension replaces any known video extension on filename.
func EnsureExtension(filename, extension string) string {
	extensions := []string{".mp4", ".webm", ".mkv", ".avi", ".mov"}
	for _, ext := range extensions {
		filename = strings.TrimSuffix(filename, ext)
	}
	return filename + extension
}
