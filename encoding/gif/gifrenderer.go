// Package gif records games as animated GIFs, one frame per move.
package gif

import (
	"image/gif"
	"io"

	"github.com/gorgonia/uct/encoding"
	"github.com/gorgonia/uct/game"
	"github.com/pkg/errors"
)

// Delay is how long the last frame of a game is shown for, in 100ths of a second.
const Delay = 300

// Encoder is a structure that encodes a game state according to the uct.OutputEncoder interface
type Encoder struct {
	*encoding.Renderer
	io.Writer

	out *gif.GIF
}

// NewGifEncoder with height and width. Set the Writer before calling Flush.
func NewGifEncoder(h, w int) *Encoder {
	return &Encoder{
		Renderer: encoding.NewRenderer(h, w),
		out:      &gif.GIF{LoopCount: -1},
	}
}

// Encode a game
func (enc *Encoder) Encode(ms game.MetaState) error {
	im, ended := enc.Render(ms)
	var delay int
	if ended {
		delay = Delay
	}
	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, delay)
	return nil
}

// Frames returns the number of frames encoded so far.
func (enc *Encoder) Frames() int { return len(enc.out.Image) }

// Flush writes the gif into the writer
func (enc *Encoder) Flush() error {
	if enc.Writer == nil {
		return errors.New("No writer to flush the gif into")
	}
	if len(enc.out.Image) == 0 {
		return nil
	}
	return errors.WithStack(gif.EncodeAll(enc.Writer, enc.out))
}
