// Package rankentropy compares how consistently a gene set is ordered in two
// groups of expression samples.
//
// Each sample is one row of expression values over the genes of the set.
// Two statistics are provided:
//
//   - Crane ranks every row (ties share their average rank), takes the
//     column mean of the ranks as the group centroid and scores the group
//     by the mean Euclidean distance of its rows to that centroid. The
//     statistic is the absolute score difference of the two groups.
//   - Dirac reduces every row to its pairwise order vector, one bit per
//     gene pair i<j set when gene j is expressed above gene i. A group's
//     template holds the bits set in more than half of its rows, and the
//     rank conservation index is the mean fraction of bits a row shares
//     with the template. The statistic is the absolute index difference.
//
// DiracClassificationRate and Classifier use the Dirac templates to assign
// samples to the group whose template they match best.
//
// Compare attaches a bootstrap p-value to any of the three statistics.
package rankentropy
