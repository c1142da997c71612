package main

import (
	"github.com/gorgonia/uct"
	"github.com/gorgonia/uct/game"
	"github.com/pkg/errors"
)

// encoders sends every meta state to all of its encoders.
type encoders []uct.OutputEncoder

func (es encoders) Encode(ms game.MetaState) error {
	for _, e := range es {
		if err := e.Encode(ms); err != nil {
			return err
		}
	}
	return nil
}

func (es encoders) Flush() error {
	for _, e := range es {
		if err := e.Flush(); err != nil {
			return errors.WithMessage(err, "Unable to flush")
		}
	}
	return nil
}
