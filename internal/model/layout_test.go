package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func grid(rows, cols int) Layout {
	l := Layout{Orientation: OrientationLandscape, Rows: rows, Cols: cols}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			l.Cells = append(l.Cells, LayoutCell{ID: fmt.Sprintf("%d-%d", r, c)})
		}
	}
	return l
}

func TestLayoutValidate(t *testing.T) {
	assert.NoError(t, grid(1, 1).Validate())
	assert.NoError(t, grid(2, 3).Validate())
	assert.NoError(t, grid(6, 6).Validate())

	portrait := grid(1, 2)
	portrait.Orientation = OrientationPortrait
	assert.NoError(t, portrait.Validate())
}

func TestLayoutValidateRejectsBadOrientation(t *testing.T) {
	l := grid(1, 1)
	l.Orientation = "diagonal"
	assert.Error(t, l.Validate())
}

func TestLayoutValidateRejectsBadDimensions(t *testing.T) {
	for _, l := range []Layout{grid(0, 1), grid(7, 1), grid(1, 0), grid(1, 7)} {
		assert.Error(t, l.Validate())
	}
}

func TestLayoutValidateRejectsCellCountMismatch(t *testing.T) {
	l := grid(2, 2)
	l.Cells = l.Cells[:3]
	assert.Error(t, l.Validate())
}

func TestLayoutValidateRejectsWrongCellIDs(t *testing.T) {
	l := grid(2, 2)
	// swap two cells so the row-major order breaks
	l.Cells[1], l.Cells[2] = l.Cells[2], l.Cells[1]
	assert.Error(t, l.Validate())
}

func TestSceneDataValidate(t *testing.T) {
	src := "/uploads/clip.mp4"
	ok := SceneData{Timeline: []TimelineItem{
		{ID: "a", Type: TimelineItemVideo, Label: "Clip", DurationMs: 5000, Src: &src},
		{ID: "b", Type: TimelineItemText, Label: "Welcome", DurationMs: 0},
	}}
	assert.NoError(t, ok.Validate())

	assert.NoError(t, SceneData{}.Validate())

	badType := SceneData{Timeline: []TimelineItem{{ID: "a", Type: "gif", DurationMs: 100}}}
	assert.Error(t, badType.Validate())

	negative := SceneData{Timeline: []TimelineItem{{ID: "a", Type: TimelineItemImage, DurationMs: -1}}}
	assert.Error(t, negative.Validate())
}
