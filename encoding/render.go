// Package encoding holds what the output encoders share: drawing a game.MetaState as a picture of its text.
package encoding

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/gorgonia/uct/game"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

var regular *truetype.Font

const (
	dpi             = 144.0
	fontsize        = 12.0
	lineheight      = 1.2
	dummyLongString = `Game Number: 10000, Move: 1000`
	extraLines      = 3 // game name, game number and result
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

// Palette is black on white.
var Palette = color.Palette{
	color.Gray{0},
	color.Gray{253},
}

// Renderer draws frames. The size of the frame is fixed by the first meta state it draws.
type Renderer struct {
	H, W int
	font.Drawer

	maxH, maxW  int // maxHeight and maxWidth
	padH, padW  int // padding so everything don't start at the topleft
	initialized bool
}

// NewRenderer creates a renderer whose frames are no larger than h by w.
func NewRenderer(h, w int) *Renderer {
	return &Renderer{
		H:    -1,
		W:    -1,
		maxH: h,
		maxW: w,
		padH: 10,
		padW: 10,

		Drawer: font.Drawer{
			Src: image.Black,
		},
	}
}

// Render draws the board, the name of the game, the game and move numbers, and the result once there is one.
func (r *Renderer) Render(ms game.MetaState) (im *image.Paletted, ended bool) {
	text := strings.Split(strings.TrimRight(ms.Board(), "\n"), "\n")
	dy := int(math.Ceil(fontsize * lineheight * dpi / 72))
	if !r.initialized {
		r.init(text, dy)
	}

	im = image.NewPaletted(image.Rect(0, 0, r.W, r.H), Palette)
	draw.Draw(im, im.Bounds(), image.White, image.Point{}, draw.Src)
	r.Dst = im

	y := r.padH + dy
	line := func(s string) {
		r.Dot = fixed.P(r.padW, y)
		r.DrawString(s)
		y += dy
	}
	for _, s := range text {
		line(s)
	}
	line(ms.Name())
	line(fmt.Sprintf("Game Number: %d, Move: %d", ms.GameNumber(), ms.MoveNumber()))

	var result string
	if ended, result = ms.Result(); ended {
		line(fmt.Sprintf("Result: %s", result))
	}
	return im, ended
}

func (r *Renderer) init(text []string, dy int) {
	r.Drawer.Face = truetype.NewFace(regular, &truetype.Options{
		Size:    fontsize,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})

	maxW := font.MeasureString(r.Face, dummyLongString).Ceil()
	for _, s := range text {
		if w := font.MeasureString(r.Face, s).Ceil(); w > maxW {
			maxW = w
		}
	}
	w := maxW + 2*r.padW
	h := (len(text)+extraLines)*dy + 2*r.padH

	if w >= r.maxW {
		w = r.maxW
		r.padW = 0
	}
	if h >= r.maxH {
		h = r.maxH
		r.padH = 0
	}
	r.H = h
	r.W = w
	r.initialized = true
}
