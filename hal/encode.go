package hal

// streamEncoder turns transfer units into the big-endian RGB565 byte stream
// the panel latches, applying the serializer's palette lookup and pixel
// doubling.
type streamEncoder struct {
	unitBits uint8
	byteSwap bool
	double   bool
	palette  [256]uint16
	chunk    []byte
}

func newStreamEncoder(chunkSize int) *streamEncoder {
	if chunkSize < 4 {
		chunkSize = 4
	}
	return &streamEncoder{unitBits: 16, chunk: make([]byte, chunkSize&^3)}
}

// encode converts units units of src and passes the output to emit in
// chunks. The slice given to emit is reused after it returns. The first
// emit error stops the stream and is returned.
func (e *streamEncoder) encode(src []byte, units int, emit func([]byte) error) error {
	reps := 1
	if e.double {
		reps = 2
	}
	var err error
	n := 0
	put := func(hi, lo byte) {
		for r := 0; r < reps; r++ {
			if n+2 > len(e.chunk) {
				if err == nil {
					err = emit(e.chunk[:n])
				}
				n = 0
			}
			e.chunk[n] = hi
			e.chunk[n+1] = lo
			n += 2
		}
	}

	if e.unitBits == 8 {
		if units > len(src) {
			units = len(src)
		}
		for _, b := range src[:units] {
			c := e.palette[b]
			put(byte(c>>8), byte(c))
		}
	} else {
		if units > len(src)/2 {
			units = len(src) / 2
		}
		for i := 0; i < units; i++ {
			lo, hi := src[2*i], src[2*i+1]
			if e.byteSwap {
				put(hi, lo)
			} else {
				put(lo, hi)
			}
		}
	}
	if n > 0 && err == nil {
		err = emit(e.chunk[:n])
	}
	return err
}

// outputBytes is the number of bytes encode produces for units units.
func (e *streamEncoder) outputBytes(units int) int {
	if e.double {
		return units * 4
	}
	return units * 2
}
