// Package mjpeg streams games being played as Motion JPEG over HTTP.
package mjpeg

import (
	"bytes"
	"image/jpeg"
	"net/http"

	"github.com/gorgonia/uct/encoding"
	"github.com/gorgonia/uct/game"
	"github.com/mattn/go-mjpeg"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Encoder is a structure that encodes a game state according to the uct.OutputEncoder interface
type Encoder struct {
	*encoding.Renderer

	stream *mjpeg.Stream
	buf    bytes.Buffer
	last   []byte
}

func (e *Encoder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.stream.ServeHTTP(w, r)
}

// NewEncoder with height and width
func NewEncoder(h, w int) *Encoder {
	return &Encoder{
		Renderer: encoding.NewRenderer(h, w),
		stream:   mjpeg.NewStream(),
	}
}

// Encode a game
func (enc *Encoder) Encode(ms game.MetaState) error {
	im, _ := enc.Render(ms)
	enc.buf.Reset()
	if err := jpeg.Encode(&enc.buf, im, nil); err != nil {
		log.Error().Err(err).Msg("Unable to encode frame")
		return errors.WithStack(err)
	}
	frame := make([]byte, enc.buf.Len())
	copy(frame, enc.buf.Bytes())
	if err := enc.stream.Update(frame); err != nil {
		log.Error().Err(err).Msg("Unable to update stream")
		return errors.WithStack(err)
	}
	enc.last = frame
	return nil
}

// Current returns the last frame encoded, as JPEG. It is nil before the first Encode.
func (enc *Encoder) Current() []byte { return enc.last }

func (enc *Encoder) Flush() error { return nil }

// Close stops the stream.
func (enc *Encoder) Close() error { return enc.stream.Close() }
