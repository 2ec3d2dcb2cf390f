package entity

type BoundingBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (b BoundingBox) IsZero() bool {
	return b.Width <= 0 || b.Height <= 0
}

func (b BoundingBox) Center() ClickPoint {
	return ClickPoint{
		X: b.X + b.Width/2,
		Y: b.Y + b.Height/2,
	}
}

func (b BoundingBox) Contains(p ClickPoint) bool {
	return p.X >= b.X && p.X <= b.X+b.Width &&
		p.Y >= b.Y && p.Y <= b.Y+b.Height
}

// ClickPoint is a page-level viewport coordinate used for raw pointer
// clicks and recorded for audit.
type ClickPoint struct {
	X float64
	Y float64
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// FrameContent is the extracted content of one frame.
type FrameContent struct {
	Frame     FrameContext
	Text      string
	HTML      string
	Truncated bool
}

// FrameSummary describes how a caller should address a frame directly:
// the most specific CSS selector for its host iframe element and how many
// interactive elements the frame contains.
type FrameSummary struct {
	Frame               FrameContext
	RecommendedSelector string
	InteractiveElements int
}
