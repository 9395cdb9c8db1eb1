// Package voting fuses per-detector results into a single verdict.
//
// Decide is a pure function of its inputs: the preset is passed in as a
// value, so callers can score the same results under several presets
// without shared state.
package voting
