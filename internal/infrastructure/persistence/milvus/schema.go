// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// CollectionNovelSegments 小说片段集合（章节摘要、正文切片）
	CollectionNovelSegments = "novel_segments"
	// CollectionNovelProfiles 设定档案集合（角色、世界观条目）
	CollectionNovelProfiles = "novel_profiles"

	// VectorDimension 向量维度
	VectorDimension = 1024
)

// NovelSegmentsSchema 小说片段 Collection Schema
func NovelSegmentsSchema() *entity.Schema {
	return &entity.Schema{
		CollectionName: CollectionNovelSegments,
		Description:    "Novel text segments for semantic retrieval",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": "1024",
				},
			},
			{
				Name:     "tenant_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "project_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "chapter_num",
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     "segment_type",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "32",
				},
			},
			{
				Name:     "text_content",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
		},
	}
}

// NovelProfilesSchema 设定档案 Collection Schema
func NovelProfilesSchema() *entity.Schema {
	return &entity.Schema{
		CollectionName: CollectionNovelProfiles,
		Description:    "Character and world setting profiles for semantic retrieval",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": "1024",
				},
			},
			{
				Name:     "tenant_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "project_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "profile_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "profile_type",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "32",
				},
			},
			{
				Name:     "name",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "256",
				},
			},
			{
				Name:     "description",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
		},
	}
}

// NovelSegment 小说片段数据结构
type NovelSegment struct {
	ID          string    `json:"id"`
	Vector      []float32 `json:"vector"`
	TenantID    string    `json:"tenant_id"`
	ProjectID   string    `json:"project_id"`
	ChapterNum  int64     `json:"chapter_num"`
	SegmentType string    `json:"segment_type"`
	TextContent string    `json:"text_content"`
}

// NovelProfile 设定档案数据结构
type NovelProfile struct {
	ID          string    `json:"id"`
	Vector      []float32 `json:"vector"`
	TenantID    string    `json:"tenant_id"`
	ProjectID   string    `json:"project_id"`
	ProfileID   string    `json:"profile_id"`
	ProfileType string    `json:"profile_type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// PartitionName 生成分区名称
func PartitionName(tenantID, projectID string) string {
	return "tenant_" + tenantID + "_proj_" + projectID
}
