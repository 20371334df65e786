// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"longnovel-ai/internal/domain/entity"
)

// ChapterPlanResponse 单章规划响应
type ChapterPlanResponse struct {
	SeqNum         int    `json:"seq_num"`
	Title          string `json:"title"`
	Goal           string `json:"goal"`
	EstimatedWords int    `json:"estimated_words,omitempty"`
}

// VolumePlanResponse 分卷规划响应
type VolumePlanResponse struct {
	SeqNum   int                   `json:"seq_num"`
	Title    string                `json:"title"`
	Arc      string                `json:"arc,omitempty"`
	Chapters []ChapterPlanResponse `json:"chapters"`
}

// OutlineResponse 大纲响应
type OutlineResponse struct {
	ID        string               `json:"id"`
	ProjectID string               `json:"project_id"`
	Synopsis  string               `json:"synopsis"`
	Themes    []string             `json:"themes,omitempty"`
	Volumes   []VolumePlanResponse `json:"volumes"`
	ActTwoAt  int                  `json:"act_two_at"`
	ActEndAt  int                  `json:"act_end_at"`
	Chapters  int                  `json:"chapters"`
	Version   int                  `json:"version"`
}

// ToOutlineResponse 实体转换为响应
func ToOutlineResponse(o *entity.Outline) *OutlineResponse {
	if o == nil {
		return nil
	}
	resp := &OutlineResponse{
		ID:        o.ID,
		ProjectID: o.ProjectID,
		Synopsis:  o.Synopsis,
		Themes:    o.Themes,
		ActTwoAt:  o.ActTwoAt,
		ActEndAt:  o.ActEndAt,
		Chapters:  o.TotalChapters(),
		Version:   o.Version,
	}
	for _, v := range o.Volumes {
		vr := VolumePlanResponse{SeqNum: v.SeqNum, Title: v.Title, Arc: v.Arc}
		for _, ch := range v.Chapters {
			vr.Chapters = append(vr.Chapters, ChapterPlanResponse{
				SeqNum:         ch.SeqNum,
				Title:          ch.Title,
				Goal:           ch.Goal,
				EstimatedWords: ch.EstimatedWords,
			})
		}
		resp.Volumes = append(resp.Volumes, vr)
	}
	return resp
}
