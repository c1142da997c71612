package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorgonia/uct/game"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type move struct {
	Game  int    `json:"game"`
	Move  int    `json:"move"`
	Board string `json:"board"`
}

type info struct {
	Game   int    `json:"game"`
	Result string `json:"result"`
}

// Encoder is a structure that encodes a game state according to the uct.OutputEncoder interface.
// Every move is sent to the connected websocket client. Moves made while nobody is listening are dropped.
type Encoder struct {
	move chan move
	info chan info
}

var upgrader = websocket.Upgrader{} // use default options

func (enc *Encoder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("upgrade")
		return
	}
	defer c.Close()
	var b []byte
	for {
		select {
		case m := <-enc.move:
			b, _ = json.Marshal(m)
		case i := <-enc.info:
			b, _ = json.Marshal(i)
		case <-r.Context().Done():
			return
		}
		if err = c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Error().Err(err).Msg("write")
			return
		}
	}
}

// NewEncoder creates a websocket encoder. backlog is how many messages are kept for a slow client.
func NewEncoder(backlog int) *Encoder {
	return &Encoder{
		info: make(chan info, backlog),
		move: make(chan move, backlog),
	}
}

// Encode a game
func (enc *Encoder) Encode(ms game.MetaState) error {
	select {
	case enc.move <- move{Game: ms.GameNumber(), Move: ms.MoveNumber(), Board: ms.Board()}:
	default:
	}
	if ended, result := ms.Result(); ended {
		select {
		case enc.info <- info{Game: ms.GameNumber(), Result: result}:
		default:
		}
	}
	return nil
}

// Flush ...
func (enc *Encoder) Flush() error { return nil }
