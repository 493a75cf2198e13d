// Package modelio reads and writes the files metflux works with:
//
//   - network models in the COBRA JSON layout, or the same keys in YAML
//     (including cobrapy's !!omap dumps);
//   - gene evidence tables (CSV, one gene per row, one condition per column);
//   - flux sample sets and per-id score tables (CSV).
//
// Readers validate through network.New, so a loaded Model satisfies every
// network invariant.
package modelio
