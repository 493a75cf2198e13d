// Package gpr models gene-reaction rules as an explicit expression tree.
//
// A rule is a Boolean formula over gene identifiers built from AND and OR.
// It is stored as a tagged tree (OpGene leaves, OpAnd/OpOr nodes with child
// lists) and every interpretation of it is a pure recursive fold:
//
//   - Score folds AND→min and OR→max over numeric gene evidence
//     (the standard GPR reduction).
//   - Active folds AND→all and OR→any over gene presence, which is how gene
//     knockouts disable reactions.
//
// Parse reads the textual rule format used by COBRA model files, e.g.
// "b0001 and (b0002 or b0003)". AND binds tighter than OR.
package gpr
