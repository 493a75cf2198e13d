// Package evidence is the gene-reaction evaluator: it reduces per-gene
// evidence (expression levels, or high/low/unknown calls) to per-reaction
// scores by folding each reaction's rule with AND→min and OR→max.
//
// Categorical evidence is resolved to numbers in exactly one place
// (Value.Resolve) so callers never branch on the evidence kind.
//
// Defaults, all configurable through Options:
//   - Levels: High=1, Low=-1, Unknown=0.
//   - Reactions without a rule score Levels.Unknown (neutral), not silently 0.
//   - Genes without evidence score Levels.Unknown under MissingUseDefault;
//     under MissingFail evaluation stops with *MissingGeneError.
package evidence
