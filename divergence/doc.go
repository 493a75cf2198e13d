// Package divergence compares flux distributions reaction by reaction.
//
// Two estimators are provided:
//
//   - EstimatorHistogram bins both samples on common edges spanning the
//     pooled range, adds Pseudocount to every bin of both histograms,
//     normalizes, and applies gonum's stat.KullbackLeibler or
//     stat.JensenShannon. Smoothing keeps every bin positive, so results are
//     always finite. If the pooled sample is constant the divergence is 0.
//   - EstimatorKNN is the k-nearest-neighbour KL estimate of Wang, Kulkarni
//     and Verdú (2009) in one dimension. It is asymptotically unbiased but a
//     sample compared with itself does not give exactly 0.
//
// Discrete and Scores treat values as categorical outcomes.
package divergence
