// Package uct implements rho-UCT, a Monte Carlo Tree Search variant that
// alternates decision nodes (choose an action) and chance nodes (sample a
// percept from a learned model), using UCB1 over a normalized reward
// range to balance exploration and exploitation.
//
// The search only ever talks to its environment through the Planner
// interface, so it has no dependency on any concrete agent or model
// implementation.
package uct
