package uct

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gorgonia.org/vecf32"
)

// Statistics keeps the running totals of every agent after every game.
type Statistics struct {
	Creation []string // agent names, in the order they were first seen
	Wins     map[string][]float32
	Losses   map[string][]float32
	Draws    map[string][]float32
}

func makeStatistics() Statistics {
	return Statistics{
		Creation: make([]string, 0, 2),
		Wins:     make(map[string][]float32),
		Losses:   make(map[string][]float32),
		Draws:    make(map[string][]float32),
	}
}

func (s *Statistics) record(name string, wins, losses, draws float32) {
	if _, ok := s.Wins[name]; !ok {
		s.Creation = append(s.Creation, name)
	}

	s.Wins[name] = append(s.Wins[name], wins)
	s.Losses[name] = append(s.Losses[name], losses)
	s.Draws[name] = append(s.Draws[name], draws)
}

// WinRates returns the named agent's win rate after each game.
func (s *Statistics) WinRates(name string) []float32 {
	wins := s.Wins[name]
	if len(wins) == 0 {
		return nil
	}
	played := make([]float32, len(wins))
	copy(played, wins)
	vecf32.Add(played, s.Losses[name])
	vecf32.Add(played, s.Draws[name])

	retVal := make([]float32, len(wins))
	copy(retVal, wins)
	vecf32.Div(retVal, played)
	return retVal
}

// Write writes the win rates as CSV: a header of agent names, then one row per game.
func (s *Statistics) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(s.Creation); err != nil {
		return errors.WithStack(err)
	}

	var games int
	rates := make([][]float32, len(s.Creation))
	for i, agent := range s.Creation {
		rates[i] = s.WinRates(agent)
		if len(rates[i]) > games {
			games = len(rates[i])
		}
	}
	records := make([][]string, games)
	for j := range records {
		record := make([]string, len(s.Creation))
		for i := range s.Creation {
			if j < len(rates[i]) {
				record[i] = strconv.FormatFloat(float64(rates[i][j]), 'f', 3, 32)
			}
		}
		records[j] = record
	}
	if err := cw.WriteAll(records); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// Dump writes the statistics into a CSV file.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "Unable to dump statistics to %q", filename)
	}
	defer f.Close()
	return s.Write(f)
}
