package types

// Handle names a drag target on an interactive region.
type Handle string

const (
	HandleTopLeft     Handle = "topLeft"
	HandleTop         Handle = "top"
	HandleTopRight    Handle = "topRight"
	HandleRight       Handle = "right"
	HandleBottomRight Handle = "bottomRight"
	HandleBottom      Handle = "bottom"
	HandleBottomLeft  Handle = "bottomLeft"
	HandleLeft        Handle = "left"
	HandleAll         Handle = "all"

	// Trim timeline handles
	HandleStart Handle = "start"
	HandleEnd   Handle = "end"
	HandleZone  Handle = "zone"
	HandleTrack Handle = "track"

	// Focal point surface
	HandlePoint Handle = "point"

	HandleNone Handle = ""
)

// CropHandles lists every handle of the crop rectangle, corners first.
var CropHandles = []Handle{
	HandleTopLeft, HandleTopRight, HandleBottomRight, HandleBottomLeft,
	HandleTop, HandleRight, HandleBottom, HandleLeft,
	HandleAll,
}

// NormalizedRegion is a rectangle expressed as fractions of a reference container.
type NormalizedRegion struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NormalizedPoint is a position expressed as fractions of a reference container.
type NormalizedPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TrimInterval is a clip selection in seconds.
type TrimInterval struct {
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
}

// Duration returns the selected length in seconds.
func (t TrimInterval) Duration() float64 {
	return t.EndTime - t.StartTime
}

// Point is a position in client pixels or in percent units depending on context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a bounding box in client pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
