// Package port 定义工作流层对外部能力的依赖接口
package port

import (
	"context"

	"github.com/cloudwego/eino/components/model"
)

// ChatModelFactory 按供应商名称提供 ChatModel，name 为空时返回默认供应商。
type ChatModelFactory interface {
	Get(ctx context.Context, name string) (model.BaseChatModel, error)
}
