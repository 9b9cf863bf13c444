package sensor

import (
	"context"
	"time"
)

// DefaultBufferSize is the default size of a sample stream buffer.
const DefaultBufferSize = 16

// Source produces one sample per call.
type Source interface {
	Read(ctx context.Context) (Sample, error)
}

var _ Source = (*Reader)(nil)

// Stream reads src every interval and sends the samples on the returned
// channel until ctx is done, then closes it. Failed reads are sent as
// invalid samples. When the consumer falls behind, samples are dropped.
func Stream(ctx context.Context, src Source, interval time.Duration, bufSize int) <-chan Sample {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	out := make(chan Sample, bufSize)

	go func() {
		defer close(out)

		for {
			start := time.Now()
			sample, err := src.Read(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				sample = Sample{At: time.Now()}
			}

			select {
			case out <- sample:
			default:
			}

			if wait := interval - time.Since(start); wait > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(wait):
				}
			}
		}
	}()

	return out
}

// Average returns the mean of the valid samples, rounded to the sensor
// resolution and stamped with the last valid sample time. It is invalid if
// no sample is.
func Average(samples []Sample) Sample {
	var sum int64
	var n int64
	var last Sample
	for _, s := range samples {
		if !s.Valid {
			continue
		}
		sum += int64(s.Raw)
		n++
		last = s
	}
	if n == 0 {
		return Sample{}
	}

	// Round half away from zero.
	half := n / 2
	if sum < 0 {
		half = -half
	}
	return Sample{
		Raw:   int16((sum + half) / n),
		Valid: true,
		At:    last.At,
	}
}
