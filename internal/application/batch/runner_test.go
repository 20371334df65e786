package batch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunner_WorkerClamp(t *testing.T) {
	assert.Equal(t, defaultWorkers, NewRunner(nil, nil, nil, nil, nil, 0).workers)
	assert.Equal(t, defaultWorkers, NewRunner(nil, nil, nil, nil, nil, -1).workers)
	assert.Equal(t, maxWorkers, NewRunner(nil, nil, nil, nil, nil, 10).workers)
	assert.Equal(t, 2, NewRunner(nil, nil, nil, nil, nil, 2).workers)
}

func TestResolveRange_ExplicitBounds(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil, nil, 3)

	from, to, err := r.resolveRange(context.Background(), Request{FromChapter: 3, ToChapter: 7})
	require.NoError(t, err)
	assert.Equal(t, 3, from)
	assert.Equal(t, 7, to)

	// 单章区间合法
	from, to, err = r.resolveRange(context.Background(), Request{FromChapter: 5, ToChapter: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, from)
	assert.Equal(t, 5, to)
}

func TestResolveRange_Invalid(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil, nil, 3)

	_, _, err := r.resolveRange(context.Background(), Request{FromChapter: 5, ToChapter: 3})
	assert.Error(t, err)

	_, _, err = r.resolveRange(context.Background(), Request{FromChapter: 1, ToChapter: maxBatchSize + 1})
	assert.Error(t, err)
}
