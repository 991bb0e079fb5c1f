package model

import "fmt"

// Layout and timeline shapes are the wire contract players interpret; they
// must not change without a version bump of their own.

const (
	OrientationLandscape = "landscape"
	OrientationPortrait  = "portrait"
)

type LayoutCell struct {
	ID      string  `json:"id"`
	SceneID *string `json:"sceneId"`
}

type Layout struct {
	Orientation string       `json:"orientation"`
	Rows        int          `json:"rows"`
	Cols        int          `json:"cols"`
	Cells       []LayoutCell `json:"cells"`
}

// Validate checks the grid invariants: bounded dimensions and row-major
// "r-c" cell ids covering the full grid.
func (l Layout) Validate() error {
	if l.Orientation != OrientationLandscape && l.Orientation != OrientationPortrait {
		return fmt.Errorf("invalid orientation %q", l.Orientation)
	}
	if l.Rows < 1 || l.Rows > 6 {
		return fmt.Errorf("rows must be between 1 and 6, got %d", l.Rows)
	}
	if l.Cols < 1 || l.Cols > 6 {
		return fmt.Errorf("cols must be between 1 and 6, got %d", l.Cols)
	}
	if len(l.Cells) != l.Rows*l.Cols {
		return fmt.Errorf("expected %d cells, got %d", l.Rows*l.Cols, len(l.Cells))
	}
	for i, cell := range l.Cells {
		want := fmt.Sprintf("%d-%d", i/l.Cols, i%l.Cols)
		if cell.ID != want {
			return fmt.Errorf("cell %d: expected id %q, got %q", i, want, cell.ID)
		}
	}
	return nil
}

const (
	TimelineItemVideo = "video"
	TimelineItemImage = "image"
	TimelineItemText  = "text"
)

type TimelineItem struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Label      string  `json:"label"`
	DurationMs int64   `json:"durationMs"`
	Src        *string `json:"src,omitempty"`
}

// SceneData holds a scene's playback timeline. Item order is playback order.
type SceneData struct {
	Timeline []TimelineItem `json:"timeline"`
}

func (d SceneData) Validate() error {
	for i, item := range d.Timeline {
		switch item.Type {
		case TimelineItemVideo, TimelineItemImage, TimelineItemText:
		default:
			return fmt.Errorf("timeline item %d: invalid type %q", i, item.Type)
		}
		if item.DurationMs < 0 {
			return fmt.Errorf("timeline item %d: negative duration", i)
		}
	}
	return nil
}
