// Package uct pits two Monte Carlo tree search agents against one another.
//
// The search itself lives in package mcts. This package gives each tree a name and a per-move budget (an Agent),
// plays whole games between two of them (an Arena), and keeps score (Statistics).
package uct
