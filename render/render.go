// Package render draws a game view into an image: one block per cell, tiles from
// the skin cache when present and flat colours otherwise.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/shake-in-im/grid"
	"github.com/hoshinonyaruko/shake-in-im/structs"
)

// ErrBadView is returned when a view's cells do not match its dimensions.
var ErrBadView = errors.New("render: cell count does not match board size")

// TileSource supplies tile images by name ("shake", "head", "egg").
type TileSource interface {
	GetTile(name string) (image.Image, bool)
}

type rgb struct{ r, g, b float64 }

var fallback = map[string]rgb{
	"shake": {0.20, 0.65, 0.30},
	"head":  {0.05, 0.40, 0.15},
	"egg":   {0.95, 0.80, 0.20},
}

// Renderer turns views into images.
type Renderer struct {
	BlockSize int
	Tiles     TileSource // 可以为空
}

// Render draws v. A finished game is blurred and captioned.
func (r *Renderer) Render(v structs.View) (image.Image, error) {
	g, err := grid.New(v.Width, v.Height)
	if err != nil {
		return nil, err
	}
	if len(v.Cells) != g.Size() {
		return nil, fmt.Errorf("%w: %d cells for %dx%d", ErrBadView, len(v.Cells), v.Width, v.Height)
	}

	bs := r.BlockSize
	width, height := g.Width*bs, g.Height*bs
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	renderGrid(dc, width, height, bs)

	for i, label := range v.Cells {
		name := tileFor(label, i == v.Head)
		if name == "" {
			continue
		}
		row, col := g.RowCol(i)
		r.drawCell(dc, name, col*bs, row*bs)
	}

	if v.Status != structs.Over {
		return dc.Image(), nil
	}

	// 结束画面：模糊后写字
	blurred := imaging.Blur(dc.Image(), 2.5)
	final := gg.NewContextForImage(blurred)
	caption := "GAME OVER"
	if v.Cleared {
		caption = "CLEARED"
	}
	final.SetRGB(0.8, 0.1, 0.1)
	final.DrawStringAnchored(caption, float64(width)/2, float64(height)/2, 0.5, 0.5)
	final.SetRGB(0, 0, 0)
	final.DrawStringAnchored(fmt.Sprintf("score %d", v.Score), float64(width)/2, float64(height)/2+16, 0.5, 0.5)
	return final.Image(), nil
}

func tileFor(label structs.Label, isHead bool) string {
	switch label {
	case structs.LabelShake:
		if isHead {
			return "head"
		}
		return "shake"
	case structs.LabelEgg:
		return "egg"
	}
	return ""
}

func (r *Renderer) drawCell(dc *gg.Context, name string, x, y int) {
	if r.Tiles != nil {
		if img, found := r.Tiles.GetTile(name); found {
			dc.DrawImage(img, x, y)
			return
		}
		// 没有蛇头贴图就用蛇身
		if name == "head" {
			if img, found := r.Tiles.GetTile("shake"); found {
				dc.DrawImage(img, x, y)
				return
			}
		}
	}
	c := fallback[name]
	dc.SetRGB(c.r, c.g, c.b)
	dc.DrawRectangle(float64(x), float64(y), float64(r.BlockSize), float64(r.BlockSize))
	dc.Fill()
}

func renderGrid(dc *gg.Context, width, height, blockSize int) {
	dc.SetRGB(0.9, 0.9, 0.9)
	for x := 0; x <= width; x += blockSize {
		dc.DrawLine(float64(x), 0, float64(x), float64(height))
		dc.Stroke()
	}
	for y := 0; y <= height; y += blockSize {
		dc.DrawLine(0, float64(y), float64(width), float64(y))
		dc.Stroke()
	}
}

// Encode writes v as PNG.
func (r *Renderer) Encode(w io.Writer, v structs.View) error {
	img, err := r.Render(v)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// SavePNG renders v into the PNG file at path, creating its folder.
func (r *Renderer) SavePNG(v structs.View, path string) error {
	img, err := r.Render(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return gg.SavePNG(path, img)
}
