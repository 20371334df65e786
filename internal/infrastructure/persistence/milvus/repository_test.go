package milvus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"longnovel-ai/internal/application/retrieval"
)

// 集合读写需要真实 Milvus 实例，这里只覆盖不依赖网络的部分：
// 端口实现的完整性、Schema 与写入列的一致性、未配置时的降级行为。

func TestRepository_NotConfigured(t *testing.T) {
	r := NewRepository(&Client{})

	err := r.EnsureCollections(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")

	err = r.InsertProfiles(context.Background(), "t1", "p1", []*NovelProfile{{ID: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestRetrievalAdapter_NilRepoDegrades(t *testing.T) {
	var r *RetrievalVectorRepository

	assert.ErrorIs(t, r.EnsureCollections(context.Background()), retrieval.ErrVectorDisabled)
	assert.ErrorIs(t, r.InsertProfiles(context.Background(), "t1", "p1", []*retrieval.VectorProfile{{ID: "x"}}), retrieval.ErrVectorDisabled)
	assert.ErrorIs(t, r.InsertSegments(context.Background(), "t1", "p1", []*retrieval.VectorSegment{{ID: "x"}}), retrieval.ErrVectorDisabled)
}

func TestNovelProfilesSchema_Fields(t *testing.T) {
	schema := NovelProfilesSchema()
	assert.Equal(t, CollectionNovelProfiles, schema.CollectionName)

	// InsertProfiles 按此列顺序写入，Schema 缺列会导致插入失败
	want := []string{"id", "vector", "tenant_id", "project_id", "profile_id", "profile_type", "name", "description"}
	var got []string
	for _, f := range schema.Fields {
		got = append(got, f.Name)
	}
	assert.Equal(t, want, got)
}

func TestNovelSegmentsSchema_Fields(t *testing.T) {
	schema := NovelSegmentsSchema()
	assert.Equal(t, CollectionNovelSegments, schema.CollectionName)

	want := []string{"id", "vector", "tenant_id", "project_id", "chapter_num", "segment_type", "text_content"}
	var got []string
	for _, f := range schema.Fields {
		got = append(got, f.Name)
	}
	assert.Equal(t, want, got)
}
