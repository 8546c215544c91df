// Package gfx provides the pixel buffers and the accelerated drawing paths of
// the handheld display pipeline.
//
// Buffers hold samples in one of two fixed formats: Indexed8 (packed RGB332 or
// a palette index) and Direct16 (RGB565). Drawing functions are generic over
// the sample type and never allocate.
//
// The rotating, zooming and tile-map blitters generate source addresses with
// an incremental Q16.16 accumulator per axis. Accumulators are masked to the
// power-of-two extents of the source, so addressing wraps instead of running
// past the image:
//
//	index = ((u >> 16) & (w-1)) | ((v >> 16) & (h-1)) << log2(w)
//
// Source images (and tile maps and tiles) used by those paths must therefore
// have power-of-two width and height. This is not checked on the hot path;
// build with -tags gfxdebug to turn violations into panics.
package gfx
