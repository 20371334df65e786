package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"longnovel-ai/internal/domain/entity"
)

func TestRankCharacters(t *testing.T) {
	protagonist := &entity.Character{Name: "林昭", Role: entity.RoleProtagonist, Importance: 10}
	recent := &entity.Character{Name: "苏挽", Role: entity.RoleSupporting, Importance: 5, LastAppear: 9, AppearCount: 4}
	stale := &entity.Character{Name: "老周", Role: entity.RoleSupporting, Importance: 5, LastAppear: 1, AppearCount: 1}
	mentioned := &entity.Character{Name: "顾清", Role: entity.RoleSupporting, Importance: 3}

	ranked := rankCharacters(
		[]*entity.Character{stale, protagonist, mentioned, recent},
		10, 5, "顾清在码头现身")

	// 主角不参与排名
	require.Len(t, ranked, 3)
	for _, c := range ranked {
		assert.NotEqual(t, "林昭", c.Name)
	}

	// 目标点名 (3*0.05+0.5=0.65) > 近期出场 (5*0.05+0.3=0.55) > 久未出场 (5*0.05+0.1=0.35)
	assert.Equal(t, "顾清", ranked[0].Name)
	assert.Equal(t, "苏挽", ranked[1].Name)
	assert.Equal(t, "老周", ranked[2].Name)
}

func TestRankCharacters_EqualScoresTiebreakByNameHash(t *testing.T) {
	a := &entity.Character{Name: "甲", Role: entity.RoleSupporting, Importance: 5}
	b := &entity.Character{Name: "乙", Role: entity.RoleSupporting, Importance: 5}

	// 同分时按名字哈希定序，与入参顺序无关
	forward := rankCharacters([]*entity.Character{a, b}, 1, 5, "")
	reversed := rankCharacters([]*entity.Character{b, a}, 1, 5, "")

	require.Len(t, forward, 2)
	require.Len(t, reversed, 2)
	assert.Equal(t, forward[0].Name, reversed[0].Name)
	assert.Equal(t, forward[1].Name, reversed[1].Name)
	assert.Less(t, nameHash(forward[0].Name), nameHash(forward[1].Name))
}

func TestCharacterLine(t *testing.T) {
	c := &entity.Character{
		Name:       "苏挽",
		Traits:     entity.StringSlice{"冷静", "多疑"},
		Motivation: "查明兄长死因",
		Development: []entity.DevelopmentEntry{
			{ChapterNum: 2, Change: "开始怀疑林昭"},
			{ChapterNum: 8, Change: "与林昭结盟"},
		},
	}

	line := characterLine(c, 10)
	assert.Contains(t, line, "苏挽")
	assert.Contains(t, line, "性格：冷静、多疑")
	assert.Contains(t, line, "动机：查明兄长死因")
	// 取当前章之前最近的一条成长记录
	assert.Contains(t, line, "近况：与林昭结盟")
	assert.NotContains(t, line, "开始怀疑林昭")

	// 未来章节的记录不入上下文
	line = characterLine(c, 2)
	assert.NotContains(t, line, "近况")
}

func TestCollectConstraints(t *testing.T) {
	world := []*entity.WorldSetting{
		{Name: "灵力", Constraints: entity.StringSlice{"灵力无法复活死者", "灵力昼弱夜强"}},
		{Name: "王都", Constraints: nil},
	}
	got := collectConstraints(world)
	assert.Equal(t, []string{"灵力无法复活死者", "灵力昼弱夜强"}, got)
}

func TestGeographyNames(t *testing.T) {
	world := []*entity.WorldSetting{
		{Name: "王都", Category: entity.WorldCategoryGeography},
		{Name: "灵力", Category: entity.WorldCategoryMagic},
		{Name: "北境", Category: entity.WorldCategoryGeography},
		{Name: "雾海", Category: entity.WorldCategoryGeography},
	}
	assert.Equal(t, []string{"王都", "北境"}, geographyNames(world, 2))
	assert.Equal(t, []string{"王都", "北境", "雾海"}, geographyNames(world, 5))
}

func TestTailRunes(t *testing.T) {
	assert.Equal(t, "一二三", tailRunes("  一二三  ", 10))
	assert.Equal(t, "四五六", tailRunes("一二三四五六", 3))
	assert.Equal(t, "", tailRunes("", 5))
}
