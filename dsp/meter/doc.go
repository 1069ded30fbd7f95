// Package meter measures sample levels and loudness and applies peak
// normalization.
//
// Levels follow the usual conventions: dB values are 20·log10 of the
// amplitude and -Inf for silence. Loudness implements the K-weighted,
// gated measurement of ITU-R BS.1770 (EBU R128) in LUFS.
package meter
