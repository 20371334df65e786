package retrieval

import "errors"

var (
	// ErrVectorDisabled 表示未配置向量能力（Milvus 或 Embedder 缺失），检索与索引均不可用。
	ErrVectorDisabled = errors.New("vector retrieval disabled: milvus or embedder not configured")
)
