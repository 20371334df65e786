// Package consistency 实现章节一致性校验。
// 校验是确定性的（基于关键词与约束匹配），不依赖 LLM，保证同一输入得到同一评分。
package consistency

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"longnovel-ai/internal/config"
	"longnovel-ai/internal/domain/entity"
	"longnovel-ai/pkg/metrics"
)

var tracer = otel.Tracer("application.consistency")

const (
	characterMatchFloor  = 0.3
	characterPenalty     = 30
	plotContinuityFloor  = 0.2
	plotPenalty          = 20
	worldViolationPerHit = 25
	logicPenaltyPerHit   = 20
)

type Checker struct {
	passThreshold   float64
	characterWeight float64
	plotWeight      float64
	worldWeight     float64
	logicWeight     float64
}

func NewChecker(cfg *config.ConsistencyConfig) *Checker {
	c := &Checker{
		passThreshold:   60,
		characterWeight: 0.3,
		plotWeight:      0.4,
		worldWeight:     0.2,
		logicWeight:     0.1,
	}
	if cfg != nil {
		if cfg.PassThreshold > 0 {
			c.passThreshold = cfg.PassThreshold
		}
		if cfg.CharacterWeight > 0 {
			c.characterWeight = cfg.CharacterWeight
		}
		if cfg.PlotWeight > 0 {
			c.plotWeight = cfg.PlotWeight
		}
		if cfg.WorldWeight > 0 {
			c.worldWeight = cfg.WorldWeight
		}
		if cfg.LogicWeight > 0 {
			c.logicWeight = cfg.LogicWeight
		}
	}
	return c
}

// CheckInput 一次校验所需的全部上下文。
type CheckInput struct {
	Content     string
	ChapterGoal string

	// Characters 为项目已知角色；只校验正文中实际出场的角色。
	Characters []*entity.Character
	// World 为世界观条目；其 Constraints 被视为硬约束。
	World []*entity.WorldSetting
	// PreviousSummary 为上一章摘要，用于情节连续性校验；第一章可为空。
	PreviousSummary string
}

// Check 对章节内容做四维校验，返回加权评分报告。
func (c *Checker) Check(ctx context.Context, in *CheckInput) *entity.ConsistencyReport {
	_, span := tracer.Start(ctx, "consistency.Checker.Check")
	defer span.End()

	report := &entity.ConsistencyReport{}
	var issues []string

	report.CharacterScore, issues = c.checkCharacters(in, issues)
	report.PlotScore, issues = c.checkPlot(in, issues)
	report.WorldScore, issues = c.checkWorld(in, issues)
	report.LogicScore, issues = c.checkLogic(in, issues)

	report.Overall = report.CharacterScore*c.characterWeight +
		report.PlotScore*c.plotWeight +
		report.WorldScore*c.worldWeight +
		report.LogicScore*c.logicWeight
	report.Passed = report.Overall >= c.passThreshold
	report.Issues = issues

	span.SetAttributes(
		attribute.Float64("consistency.overall", report.Overall),
		attribute.Bool("consistency.passed", report.Passed),
	)
	observe(report)
	return report
}

// checkCharacters 对正文中出场的角色做特质关键词匹配。
// 匹配率低于阈值时扣分：角色行为可能偏离设定。
func (c *Checker) checkCharacters(in *CheckInput, issues []string) (float64, []string) {
	score := 100.0
	if len(in.Characters) == 0 {
		return score, issues
	}

	appeared := 0
	for _, ch := range in.Characters {
		if ch == nil || !characterAppears(in.Content, ch) {
			continue
		}
		appeared++
		ratio := keywordMatchRatio(in.Content, characterKeywords(ch))
		if ratio < characterMatchFloor {
			score -= characterPenalty
			issues = append(issues, fmt.Sprintf("角色「%s」的描写与其设定关键词匹配度过低（%.0f%%）", ch.Name, ratio*100))
		}
	}
	if appeared == 0 {
		// 整章无已知角色出场视为可疑，但不直接判失败。
		score -= characterPenalty
		issues = append(issues, "正文中未出现任何已知角色")
	}
	if score < 0 {
		score = 0
	}
	return score, issues
}

// checkPlot 校验与上一章摘要及本章目标的连续性。
func (c *Checker) checkPlot(in *CheckInput, issues []string) (float64, []string) {
	score := 100.0

	if goal := strings.TrimSpace(in.ChapterGoal); goal != "" {
		ratio := overlapRatio(in.Content, goal)
		if ratio < plotContinuityFloor {
			score -= plotPenalty
			issues = append(issues, fmt.Sprintf("正文与本章目标重合度过低（%.0f%%）", ratio*100))
		}
	}
	if prev := strings.TrimSpace(in.PreviousSummary); prev != "" {
		ratio := overlapRatio(in.Content, prev)
		if ratio < plotContinuityFloor {
			score -= plotPenalty
			issues = append(issues, fmt.Sprintf("正文与上一章摘要的连续性不足（%.0f%%）", ratio*100))
		}
	}
	if score < 0 {
		score = 0
	}
	return score, issues
}

// checkWorld 扫描世界观硬约束：禁止类约束的主体出现在“违反语境”中时扣分。
func (c *Checker) checkWorld(in *CheckInput, issues []string) (float64, []string) {
	score := 100.0
	for _, w := range in.World {
		if w == nil {
			continue
		}
		for _, constraint := range w.Constraints {
			if violatesConstraint(in.Content, constraint) {
				score -= worldViolationPerHit
				issues = append(issues, fmt.Sprintf("疑似违反世界观约束「%s」（%s）", strings.TrimSpace(constraint), w.Name))
			}
		}
	}
	if score < 0 {
		score = 0
	}
	return score, issues
}

// checkLogic 检查文内自相矛盾的表述对与时间线混乱。
func (c *Checker) checkLogic(in *CheckInput, issues []string) (float64, []string) {
	score := 100.0
	for _, pair := range contradictionPairs {
		if strings.Contains(in.Content, pair[0]) && strings.Contains(in.Content, pair[1]) {
			score -= logicPenaltyPerHit
			issues = append(issues, fmt.Sprintf("正文同时出现矛盾表述「%s」与「%s」", pair[0], pair[1]))
		}
	}

	// 同一章内出现过多不同的时间指示词，往往意味着时间线来回跳跃。
	distinct := 0
	for _, indicator := range timeIndicators {
		if strings.Contains(in.Content, indicator) {
			distinct++
		}
	}
	if distinct > maxTimeIndicators {
		score -= logicPenaltyPerHit
		issues = append(issues, fmt.Sprintf("正文出现 %d 种时间指示词，时间描述可能存在矛盾", distinct))
	}

	if score < 0 {
		score = 0
	}
	return score, issues
}

// timeIndicators 用于检测时间线混乱；超过 maxTimeIndicators 种共现即扣分。
var timeIndicators = []string{"之前", "之后", "刚才", "现在", "未来", "过去"}

const maxTimeIndicators = 3

// contradictionPairs 是同一章节内同时出现即视为逻辑矛盾的表述对。
var contradictionPairs = [][2]string{
	{"已经死了", "还活着"},
	{"彻底失明", "亲眼看到"},
	{"失去了记忆", "清楚地记得"},
	{"身无分文", "一掷千金"},
}

func observe(report *entity.ConsistencyReport) {
	status := "failed"
	if report.Passed {
		status = "passed"
	}
	metrics.ConsistencyCheckTotal.WithLabelValues("overall", status).Inc()
	metrics.ConsistencyScore.WithLabelValues("character").Observe(report.CharacterScore)
	metrics.ConsistencyScore.WithLabelValues("plot").Observe(report.PlotScore)
	metrics.ConsistencyScore.WithLabelValues("world").Observe(report.WorldScore)
	metrics.ConsistencyScore.WithLabelValues("logic").Observe(report.LogicScore)
	metrics.ConsistencyScore.WithLabelValues("overall").Observe(report.Overall)
}
