package concurrency_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wheelibin/yadom/internal/concurrency"
)

func Test_ThrottledWorker(t *testing.T) {

	t.Run("should return every result in argument order", func(t *testing.T) {
		// arrange
		w := concurrency.NewThrottledWorker(4, func(_ context.Context, arg string) (string, error) {
			if arg == "b" {
				time.Sleep(10 * time.Millisecond)
			}
			return arg + arg, nil
		})

		// act
		results := w.Run(context.Background(), []string{"a", "b", "c"})

		// assert
		assert.Len(t, results, 3)
		assert.Equal(t, "aa", results[0].Value)
		assert.Equal(t, "bb", results[1].Value)
		assert.Equal(t, "cc", results[2].Value)
	})

	t.Run("should never run more jobs than the limit at once", func(t *testing.T) {
		var running, peak int32
		w := concurrency.NewThrottledWorker(2, func(_ context.Context, arg string) (int, error) {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return 0, nil
		})

		w.Run(context.Background(), []string{"1", "2", "3", "4", "5", "6"})

		assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	})

	t.Run("should keep errors per job", func(t *testing.T) {
		boom := errors.New("boom")
		w := concurrency.NewThrottledWorker(2, func(_ context.Context, arg string) (int, error) {
			if arg == "bad" {
				return 0, boom
			}
			return 1, nil
		})

		results := w.Run(context.Background(), []string{"good", "bad"})

		assert.NoError(t, results[0].Err)
		assert.ErrorIs(t, results[1].Err, boom)
	})

	t.Run("should return immediately with no arguments", func(t *testing.T) {
		w := concurrency.NewThrottledWorker(1, func(_ context.Context, arg string) (int, error) { return 0, nil })

		assert.Empty(t, w.Run(context.Background(), nil))
	})

}
