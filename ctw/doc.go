// Package ctw implements a Context Tree Weighting predictor over a
// binary alphabet: a Bayesian mixture of all variable-order Markov models
// up to a bounded depth, estimated with a Krichevsky-Trofimov prior at
// each node.
//
// Reference: F.M.J. Willems and Tj. J. Tjalkens, Complexity Reduction of
// the Context-Tree Weighting Algorithm: A Study for KPN Research,
// Technical University of Eindhoven, EIDMA Report RS.97.01.
package ctw
