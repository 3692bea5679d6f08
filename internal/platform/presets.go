package platform

const (
	mb = 1024 * 1024
	gb = 1024 * mb
)

func init() {
	for _, p := range []Preset{
		{
			Name: "instagram-reel", Width: 1080, Height: 1920,
			MaxDuration: 90, MaxFileSize: 250 * mb,
			VideoCodec: "libx264", AudioCodec: "aac", VideoBitrate: "2M", AudioBitrate: "128k",
			OutputFormat: "mp4", Portrait: true,
		},
		{
			Name: "tiktok", Width: 1080, Height: 1920,
			MaxDuration: 180, MaxFileSize: 287 * mb,
			VideoCodec: "libx264", AudioCodec: "aac", VideoBitrate: "2M", AudioBitrate: "128k",
			OutputFormat: "mp4", Portrait: true,
		},
		{
			Name: "reddit", Width: 1920, Height: 1080,
			MaxDuration: 300, MaxFileSize: gb,
			VideoCodec: "libx264", AudioCodec: "aac", VideoBitrate: "4M", AudioBitrate: "192k",
			OutputFormat: "mp4",
		},
		{
			Name: "x-twitter", Width: 1920, Height: 1200,
			MaxDuration: 140, MaxFileSize: 5 * mb,
			VideoCodec: "libx264", AudioCodec: "aac", VideoBitrate: "2M", AudioBitrate: "128k",
			OutputFormat: "mp4",
		},
		{
			Name: "square", Width: 1080, Height: 1080,
			MaxDuration: 60, MaxFileSize: 250 * mb,
			VideoCodec: "libx264", AudioCodec: "aac", VideoBitrate: "2M", AudioBitrate: "128k",
			OutputFormat: "mp4",
		},
		{
			Name: "web", Width: 1920, Height: 1080,
			VideoCodec: "libvpx-vp9", AudioCodec: "libopus", VideoBitrate: "2M", AudioBitrate: "128k",
			OutputFormat: "webm",
		},
	} {
		Register(p)
	}
}
