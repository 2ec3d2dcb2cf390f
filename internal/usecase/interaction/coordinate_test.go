package interaction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frame-interactor/internal/domain/entity"
)

func TestCoordinateClick_HitsBoxCenter(t *testing.T) {
	doc := &fakeDocument{}
	el := &fakeElement{box: &entity.BoundingBox{X: 100, Y: 200, Width: 50, Height: 20}}

	res, err := NewCoordinateClicker(doc, nopLogger{}).Click(context.Background(), el)
	require.NoError(t, err)

	assert.Equal(t, entity.ClickPoint{X: 125, Y: 210}, res.Point)
	require.Len(t, doc.rawClicks, 1)
	assert.Equal(t, entity.ClickPoint{X: 125, Y: 210}, doc.rawClicks[0])
	assert.Equal(t, 1, el.scrolls)
}

func TestCoordinateClick_NoBoxMeansNoPointerEvent(t *testing.T) {
	doc := &fakeDocument{}
	el := &fakeElement{}

	_, err := NewCoordinateClicker(doc, nopLogger{}).Click(context.Background(), el)
	require.ErrorIs(t, err, ErrNoBoundingBox)
	assert.Empty(t, doc.rawClicks)
	assert.Zero(t, el.scrolls, "unrendered element must fail before scrolling")
}

func TestCoordinateClick_ZeroSizedBoxRejected(t *testing.T) {
	doc := &fakeDocument{}
	el := &fakeElement{box: &entity.BoundingBox{X: 10, Y: 10}}

	_, err := NewCoordinateClicker(doc, nopLogger{}).Click(context.Background(), el)
	require.ErrorIs(t, err, ErrNoBoundingBox)
	assert.Empty(t, doc.rawClicks)
}

func TestCoordinateClick_UsesBoxRereadAfterScroll(t *testing.T) {
	doc := &fakeDocument{}
	el := &fakeElement{
		box:            &entity.BoundingBox{X: 0, Y: 900, Width: 80, Height: 40},
		boxAfterScroll: &entity.BoundingBox{X: 0, Y: 120, Width: 80, Height: 40},
	}

	res, err := NewCoordinateClicker(doc, nopLogger{}).Click(context.Background(), el)
	require.NoError(t, err)

	// The element moved when scrolled into view; the click must land on
	// the refreshed box, not the stale one.
	assert.Equal(t, entity.ClickPoint{X: 40, Y: 140}, res.Point)
	assert.Equal(t, entity.BoundingBox{X: 0, Y: 120, Width: 80, Height: 40}, res.Box)
	assert.Equal(t, 1, el.scrolls)
}

func TestCoordinateClick_BoxVanishingAfterScrollFails(t *testing.T) {
	doc := &fakeDocument{}
	el := &fakeElement{
		box:            &entity.BoundingBox{X: 10, Y: 10, Width: 30, Height: 30},
		boxAfterScroll: &entity.BoundingBox{},
	}

	_, err := NewCoordinateClicker(doc, nopLogger{}).Click(context.Background(), el)
	require.ErrorIs(t, err, ErrNoBoundingBox)
	assert.Empty(t, doc.rawClicks)
}

func TestCoordinateClick_PointerFailureIsReported(t *testing.T) {
	doc := &fakeDocument{rawClickErr: errors.New("detached page")}
	el := &fakeElement{box: &entity.BoundingBox{X: 0, Y: 0, Width: 10, Height: 10}}

	_, err := NewCoordinateClicker(doc, nopLogger{}).Click(context.Background(), el)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pointer click at (5.0, 5.0)")
	assert.Contains(t, err.Error(), "detached page")
}
