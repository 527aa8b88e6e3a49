package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/segment"
)

func TestNewPool_Workers(t *testing.T) {
	p := newPipeline(t, DefaultConfig())

	assert.Equal(t, 1, NewPool(p, 0).Workers())
	assert.Equal(t, 1, NewPool(p, -3).Workers())
	assert.Equal(t, 4, NewPool(p, 4).Workers())
}

func TestPool_ProcessAll_PreservesOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	p := newPipeline(t, smallBlurConfig())
	pool := NewPool(p, 3)

	frames := make([]gocv.Mat, 0, 6)
	for fingers := 5; fingers >= 1; fingers-- {
		frames = append(frames, handFrame(t, fingers))
	}
	frames = append(frames, gocv.NewMat())
	defer func() {
		for _, f := range frames {
			f.Close()
		}
	}()

	results, errs := pool.ProcessAll(frames)
	require.Len(t, results, len(frames))
	require.Len(t, errs, len(frames))

	for i := 0; i < 5; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, 5-i, results[i].FingerCount, "frame %d", i)
		results[i].Close()
	}

	assert.ErrorIs(t, errs[5], segment.ErrInvalidFrame)
	assert.Nil(t, results[5])
}

func TestPool_ProcessAll_Empty(t *testing.T) {
	pool := NewPool(newPipeline(t, DefaultConfig()), 2)

	results, errs := pool.ProcessAll(nil)
	assert.Empty(t, results)
	assert.Empty(t, errs)
}
