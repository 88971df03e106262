// Package analysis runs the full decode-and-measure pipeline over one image
// buffer.
//
// Two independent branches run concurrently for each request:
//
//	buffer → sniff → [structure] → decode → statistics
//	buffer → metadata → exposure
//
// A decode failure is reported in the Result (DecodeSucceeded false plus the
// strategy trail) rather than as an error, and the metadata branch still
// completes. Analyze returns an error only for an empty buffer or a
// cancelled context.
//
// Each request owns its buffer, surface and accumulator; an Analyzer holds no
// per-request state and may serve concurrent requests.
package analysis
