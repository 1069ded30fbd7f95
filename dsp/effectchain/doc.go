// Package effectchain runs the mastering processors in their fixed order.
//
// A Chain holds one optional slot per stage. Slots start empty
// (pass-through); the first SetX call constructs the stage, later calls
// reconfigure it without resetting its state. Stages always run in this
// order:
//
//	gate → pitch → deesser → dynamic_eq → eq → parallel | compressor →
//	saturation → transient → imager* → delay → reverb → bass* → clipper →
//	limiter
//
// Stages marked * are stereo only and skipped by ProcessMono. When both
// parallel and serial compression are configured, parallel wins.
//
// Whole chains can be described in YAML (see Config, ParseConfig and
// LoadConfig) and applied with Chain.Apply.
package effectchain
