// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	appretrieval "longnovel-ai/internal/application/retrieval"
)

// RetrievalSearchRequest 语义检索请求
type RetrievalSearchRequest struct {
	ProjectID         string   `json:"project_id" binding:"required"`
	Query             string   `json:"query" binding:"required"`
	CurrentChapterNum int64    `json:"current_chapter_num,omitempty"`
	TopK              int      `json:"top_k,omitempty"`
	SegmentTypes      []string `json:"segment_types,omitempty"`
	IncludeCharacters bool     `json:"include_characters,omitempty"`
}

// RetrievalSegmentResponse 检索片段响应
type RetrievalSegmentResponse struct {
	ID           string  `json:"id"`
	Text         string  `json:"text"`
	Score        float64 `json:"score"`
	Source       string  `json:"source"`
	SegmentType  string  `json:"segment_type"`
	ChapterNum   int64   `json:"chapter_num,omitempty"`
	ChapterTitle string  `json:"chapter_title,omitempty"`
}

// RetrievalCharacterResponse 角色命中响应
type RetrievalCharacterResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// RetrievalSearchResponse 语义检索响应
type RetrievalSearchResponse struct {
	Segments   []*RetrievalSegmentResponse   `json:"segments"`
	Characters []*RetrievalCharacterResponse `json:"characters,omitempty"`
	Debug      any                           `json:"debug,omitempty"`
}

// ToRetrievalSearchResponse 检索输出转换为响应
func ToRetrievalSearchResponse(out *appretrieval.SearchOutput) *RetrievalSearchResponse {
	if out == nil {
		return &RetrievalSearchResponse{}
	}
	resp := &RetrievalSearchResponse{
		Segments: make([]*RetrievalSegmentResponse, 0, len(out.Segments)),
	}
	for i := range out.Segments {
		seg := out.Segments[i]
		resp.Segments = append(resp.Segments, &RetrievalSegmentResponse{
			ID:           seg.ID,
			Text:         seg.Text,
			Score:        seg.Score,
			Source:       seg.Source,
			SegmentType:  seg.SegmentType,
			ChapterNum:   seg.ChapterNum,
			ChapterTitle: seg.ChapterTitle,
		})
	}
	for i := range out.Characters {
		ch := out.Characters[i]
		resp.Characters = append(resp.Characters, &RetrievalCharacterResponse{
			ID:   ch.ID,
			Name: ch.Name,
			Role: ch.Role,
		})
	}
	if out.Debug != nil {
		resp.Debug = out.Debug
	}
	return resp
}
