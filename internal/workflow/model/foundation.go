package model

type FoundationGenerateInput struct {
	ProjectTitle string
	Premise      string
	Genre        string
	OutlineBrief string

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}

// FoundationJSON 是模型需要输出的 JSON 结构（角色 + 世界观）。
type FoundationJSON struct {
	Characters []CharacterJSON    `json:"characters"`
	World      []WorldSettingJSON `json:"world_settings"`
}

type CharacterJSON struct {
	Name          string            `json:"name"`
	Aliases       []string          `json:"aliases,omitempty"`
	Role          string            `json:"role"`
	Traits        []string          `json:"traits,omitempty"`
	Motivation    string            `json:"motivation,omitempty"`
	Background    string            `json:"background,omitempty"`
	Relationships map[string]string `json:"relationships,omitempty"`
	Importance    int               `json:"importance,omitempty"`
}

type WorldSettingJSON struct {
	Category    string   `json:"category"`
	Name        string   `json:"name"`
	Detail      string   `json:"detail,omitempty"`
	Constraints []string `json:"constraints,omitempty"`
}

type FoundationGenerateOutput struct {
	Foundation *FoundationJSON
	RawJSON    string
	Meta       LLMUsageMeta
}
