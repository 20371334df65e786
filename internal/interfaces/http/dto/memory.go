// Package dto 提供 HTTP 层数据传输对象
package dto

// MemoryContextResponse 记忆上下文预览
type MemoryContextResponse struct {
	MemoryText     string `json:"memory_text"`
	RetrievedText  string `json:"retrieved_text,omitempty"`
	PreviousEnding string `json:"previous_ending,omitempty"`
	CharacterCount int    `json:"character_count"`
	RecentCount    int    `json:"recent_count"`
	VolumeCount    int    `json:"volume_count"`
}

// MemoryExportResponse 快照导出结果
type MemoryExportResponse struct {
	Path string `json:"path"`
}

// MemoryImportRequest 快照导入请求
type MemoryImportRequest struct {
	Path string `json:"path" binding:"required"`
}

// MemoryImportResponse 快照导入结果
type MemoryImportResponse struct {
	Characters       int `json:"characters"`
	WorldSettings    int `json:"world_settings"`
	ChapterSummaries int `json:"chapter_summaries"`
	VolumeSummaries  int `json:"volume_summaries"`
	Events           int `json:"events"`
	Threads          int `json:"threads"`
}
