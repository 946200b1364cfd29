package core

import (
	"testing"

	"golang.org/x/image/font/basicfont"
)

// fixtureRenderer avoids font files on disk; the glyph table is handmade.
func fixtureRenderer() *TextRenderer {
	return &TextRenderer{
		Face: basicfont.Face7x13,
		Glyphs: map[rune]Glyph{
			'A': {
				UVMin:  [2]float32{0, 0},
				UVMax:  [2]float32{0.1, 0.1},
				Size:   [2]float32{7, 13},
				Offset: [2]float32{0, -11},
				Adv:    7,
			},
		},
	}
}

func TestBuildVerticesPerGlyph(t *testing.T) {
	tr := fixtureRenderer()
	items := []TextItem{{
		Text:     "AA\nA",
		Position: [2]float32{10, 20},
		Scale:    1,
		Colour:   [4]float32{1, 1, 1, 1},
	}}

	verts := tr.BuildVertices(items, 640, 480)

	if len(verts) != 18 {
		t.Fatalf("3 glyphs should build 18 vertices, got %d", len(verts))
	}
	for i, v := range verts {
		if v.Pos[0] < -1.01 || v.Pos[0] > 1.01 || v.Pos[1] < -1.01 || v.Pos[1] > 1.01 {
			t.Errorf("Vertex %d outside clip space: %v", i, v.Pos)
		}
		if v.Colour != [4]float32{1, 1, 1, 1} {
			t.Errorf("Vertex %d should carry the item colour, got %v", i, v.Colour)
		}
	}

	// Second glyph advances right; the newline drops the third back to the
	// start column and down a line.
	if verts[6].Pos[0] <= verts[0].Pos[0] {
		t.Errorf("Second glyph should start right of the first: %f vs %f", verts[6].Pos[0], verts[0].Pos[0])
	}
	if !closeEnough(verts[12].Pos[0], verts[0].Pos[0], 1e-6) {
		t.Errorf("Glyph after newline should return to the start column: %f vs %f", verts[12].Pos[0], verts[0].Pos[0])
	}
	if verts[12].Pos[1] >= verts[0].Pos[1] {
		t.Errorf("Glyph after newline should sit lower on screen: %f vs %f", verts[12].Pos[1], verts[0].Pos[1])
	}
}

func TestBuildVerticesSkipsUnknownRunes(t *testing.T) {
	tr := fixtureRenderer()
	verts := tr.BuildVertices([]TextItem{{Text: "AéA", Scale: 1}}, 640, 480)
	if len(verts) != 12 {
		t.Errorf("Unknown runes should be skipped, expected 12 vertices, got %d", len(verts))
	}
}

func TestMeasureText(t *testing.T) {
	tr := fixtureRenderer()

	w, h1 := tr.MeasureText("AA", 1)
	if !closeEnough(w, 14, 1e-6) {
		t.Errorf("Two advances of 7 should measure 14 wide, got %f", w)
	}
	if h1 <= 0 {
		t.Errorf("Height should be positive, got %f", h1)
	}

	_, h2 := tr.MeasureText("A\nA", 1)
	if !closeEnough(h2, h1*2, 1e-5) {
		t.Errorf("Two lines should measure twice one line: %f vs %f", h2, h1)
	}

	if lh := tr.LineHeight(2); !closeEnough(lh, h1*2, 1e-5) {
		t.Errorf("Line height at scale 2 should match a doubled line, got %f", lh)
	}
}
