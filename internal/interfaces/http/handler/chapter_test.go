package handler

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"longnovel-ai/internal/domain/entity"
)

// drainStream 模拟生产者完成后的消费过程：先写入终止信号，
// 再按生产者的逆序关闭三个通道，然后驱动 streamTick 直到结束。
func drainStream(t *testing.T, chunks []string, chapter *entity.Chapter, streamErr error) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	contentCh := make(chan string, len(chunks)+1)
	doneCh := make(chan *entity.Chapter, 1)
	errCh := make(chan error, 1)

	for _, chunk := range chunks {
		contentCh <- chunk
	}
	if streamErr != nil {
		errCh <- streamErr
	} else if chapter != nil {
		doneCh <- chapter
	}
	close(errCh)
	close(doneCh)
	close(contentCh)

	index := 0
	for streamTick(c, context.Background(), contentCh, doneCh, errCh, &index) {
	}
	return w.Body.String()
}

func TestStreamTick_EmitsDoneAfterAllContent(t *testing.T) {
	chapter := &entity.Chapter{SeqNum: 3, WordCount: 3000}

	body := drainStream(t, []string{"第一段", "第二段"}, chapter, nil)

	assert.Contains(t, body, "第一段")
	assert.Contains(t, body, "第二段")
	// 内容全部写出后终止事件必须出现，不能被通道关闭竞争吞掉
	assert.Contains(t, body, "event:done")
	assert.Contains(t, body, `"chapter_num":3`)
}

func TestStreamTick_EmitsErrorInsteadOfDone(t *testing.T) {
	body := drainStream(t, []string{"部分内容"}, nil, errors.New("llm provider unavailable"))

	assert.Contains(t, body, "部分内容")
	assert.Contains(t, body, "event:error")
	assert.Contains(t, body, "llm provider unavailable")
	assert.NotContains(t, body, "event:done")
}

func TestStreamTick_StopsOnContextCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	index := 0
	cont := streamTick(c, ctx, make(chan string), make(chan *entity.Chapter), make(chan error), &index)
	assert.False(t, cont)
	assert.Empty(t, w.Body.String())
}
