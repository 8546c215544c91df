// Package scanout streams finished frame buffers to the panel.
//
// An Engine owns one transfer channel and the pixel serializer. Present hands
// it a buffer and returns as soon as the first transfer is running; the rest
// of the frame is driven from the channel's completion handler. Optional 2x
// doubling (nearest or linear) happens during scanout, so the application
// renders at half the panel resolution.
//
// At most one frame is in flight. Present waits for the previous frame before
// claiming the pipeline; WaitReady does the same without presenting.
package scanout
