package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZacxDev/video-region-editor/internal/platform"
	"github.com/ZacxDev/video-region-editor/pkg/types"
)

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		duration float64
		audio    bool
		wantErr  bool
	}{
		{
			name: "stream duration",
			output: `{"streams":[{"codec_type":"video","codec_name":"h264","width":1920,"height":1080,"duration":"12.5"},
				{"codec_type":"audio","codec_name":"aac"}],"format":{"duration":"13.0"}}`,
			duration: 12.5,
			audio:    true,
		},
		{
			name:     "format duration",
			output:   `{"streams":[{"codec_type":"video","codec_name":"vp9","width":640,"height":360}],"format":{"duration":" 7.25 "}}`,
			duration: 7.25,
		},
		{
			name:     "frames over rate",
			output:   `{"streams":[{"codec_type":"video","width":640,"height":360,"nb_frames":"300","r_frame_rate":"30/1"}]}`,
			duration: 10,
		},
		{
			name:    "no video",
			output:  `{"streams":[{"codec_type":"audio"}],"format":{"duration":"3"}}`,
			wantErr: true,
		},
		{
			name:    "no duration",
			output:  `{"streams":[{"codec_type":"video","width":640,"height":360,"r_frame_rate":"0/0"}]}`,
			wantErr: true,
		},
		{
			name:    "invalid json",
			output:  `{`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := ParseProbe(tt.output)
			if tt.wantErr {
				assert.Error(t, err, "Expected error, got %+v", meta)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.duration, meta.Duration)
			assert.Equal(t, tt.audio, meta.HasAudio)
		})
	}
}

func TestCropRect(t *testing.T) {
	tests := []struct {
		name   string
		region types.NormalizedRegion
		w, h   int
		want   PixelRect
	}{
		{
			name:   "centered half",
			region: types.NormalizedRegion{X: 0.25, Y: 0.1, Width: 0.5, Height: 0.5},
			w:      1920,
			h:      1080,
			want:   PixelRect{X: 480, Y: 108, Width: 960, Height: 540},
		},
		{
			name:   "odd pixels round down to even",
			region: types.NormalizedRegion{X: 0.3333, Y: 0, Width: 0.3333, Height: 1},
			w:      1001,
			h:      1000,
			want:   PixelRect{X: 332, Y: 0, Width: 332, Height: 1000},
		},
		{
			name:   "tiny corner stays inside",
			region: types.NormalizedRegion{X: 0.99, Y: 0.99, Width: 0.01, Height: 0.01},
			w:      100,
			h:      100,
			want:   PixelRect{X: 98, Y: 98, Width: 2, Height: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CropRect(tt.region, tt.w, tt.h))
		})
	}

	assert.Equal(t, "6:8:2:4", (PixelRect{X: 2, Y: 4, Width: 6, Height: 8}).Filter())
}

func TestTrimArgs(t *testing.T) {
	assert.Empty(t, TrimArgs(nil), "Expected no args for nil trim")

	args := TrimArgs(&types.TrimInterval{StartTime: 2.5, EndTime: 10})
	assert.Equal(t, 2.5, args["ss"])
	assert.Equal(t, 7.5, args["t"])

	args = TrimArgs(&types.TrimInterval{StartTime: 0, EndTime: 4})
	assert.NotContains(t, args, "ss", "Expected no seek from zero")
}

func TestOutputArgs(t *testing.T) {
	args := OutputArgs(RenderJob{OutputFormat: "mp4"})
	assert.Equal(t, "libx264", args["c:v"])
	assert.Equal(t, "yuv420p", args["pix_fmt"])

	preset, err := platform.Get("tiktok")
	require.NoError(t, err)
	args = OutputArgs(RenderJob{Preset: &preset})
	assert.Equal(t, preset.VideoBitrate, args["b:v"], "Expected preset bitrates")
	assert.Equal(t, preset.AudioCodec, args["c:a"])

	args = OutputArgs(RenderJob{OutputFormat: "avi"})
	assert.Equal(t, "libvpx-vp9", args["c:v"], "Expected webm fallback")
}

func TestBuildRenderValidation(t *testing.T) {
	_, err := BuildRender(RenderJob{OutputPath: "out.mp4"}, nil)
	assert.Error(t, err, "Expected an error without metadata")

	meta := &VideoMetadata{Width: 640, Height: 360, Duration: 5}
	_, err = BuildRender(RenderJob{InputPath: "in.mp4"}, meta)
	assert.Error(t, err, "Expected an error without an output path")

	crop := types.NormalizedRegion{X: 0, Y: 0, Width: 0.5, Height: 0.5}
	stream, err := BuildRender(RenderJob{InputPath: "in.mp4", OutputPath: "out.mp4", Crop: &crop}, meta)
	require.NoError(t, err)
	assert.NotNil(t, stream)
}

func TestEnsureExtension(t *testing.T) {
	assert.Equal(t, "clip.mp4", EnsureExtension("clip.mov", ".mp4"))
	assert.Equal(t, "clip.webm", EnsureExtension("clip", ".webm"))
}
