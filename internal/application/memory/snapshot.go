package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"longnovel-ai/internal/domain/entity"
)

const (
	snapshotFile      = "memory.json"
	defaultBackupKeep = 5
	snapshotEventCap  = 1000
)

// Snapshot 项目记忆的完整落盘形态，可脱离数据库迁移或回滚。
type Snapshot struct {
	ProjectID  string    `json:"project_id"`
	ExportedAt time.Time `json:"exported_at"`

	Outline          *entity.Outline          `json:"outline,omitempty"`
	Characters       []*entity.Character      `json:"characters"`
	WorldSettings    []*entity.WorldSetting   `json:"world_settings"`
	ChapterSummaries []*entity.ChapterSummary `json:"chapter_summaries"`
	VolumeSummaries  []*entity.VolumeSummary  `json:"volume_summaries"`
	Events           []*entity.TimelineEvent  `json:"events"`
	Threads          []*entity.PlotThread     `json:"threads"`
}

// Export 导出项目记忆快照到工作目录，旧快照滚动备份。
func (s *Store) Export(ctx context.Context, projectID, memoryDir string, backupKeep int) (string, error) {
	ctx, span := tracer.Start(ctx, "memory.Store.Export")
	defer span.End()

	snap, err := s.buildSnapshot(ctx, projectID)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	dir := filepath.Join(memoryDir, projectID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create memory dir: %w", err)
	}
	path := filepath.Join(dir, snapshotFile)
	if backupKeep <= 0 {
		backupKeep = defaultBackupKeep
	}
	rotateBackups(path, backupKeep)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to finalize snapshot: %w", err)
	}
	return path, nil
}

func (s *Store) buildSnapshot(ctx context.Context, projectID string) (*Snapshot, error) {
	snap := &Snapshot{ProjectID: projectID, ExportedAt: time.Now()}

	outline, err := s.outlineRepo.GetByProject(ctx, projectID)
	if err == nil {
		snap.Outline = outline
	}
	if snap.Characters, err = s.characterRepo.ListByProject(ctx, projectID); err != nil {
		return nil, fmt.Errorf("failed to export characters: %w", err)
	}
	if snap.WorldSettings, err = s.worldRepo.ListByProject(ctx, projectID); err != nil {
		return nil, fmt.Errorf("failed to export world settings: %w", err)
	}
	if snap.ChapterSummaries, err = s.summaryRepo.ListAllSummaries(ctx, projectID); err != nil {
		return nil, fmt.Errorf("failed to export chapter summaries: %w", err)
	}
	if snap.VolumeSummaries, err = s.summaryRepo.ListVolumeSummaries(ctx, projectID); err != nil {
		return nil, fmt.Errorf("failed to export volume summaries: %w", err)
	}
	if snap.Events, err = s.eventRepo.ListRecent(ctx, projectID, snapshotEventCap); err != nil {
		return nil, fmt.Errorf("failed to export timeline events: %w", err)
	}
	if snap.Threads, err = s.threadRepo.ListByProject(ctx, projectID); err != nil {
		return nil, fmt.Errorf("failed to export plot threads: %w", err)
	}
	return snap, nil
}

// Import 从快照文件恢复项目记忆。目标项目必须已存在；
// 快照内容整体在一个事务内写入。
func (s *Store) Import(ctx context.Context, projectID, path string) (*Snapshot, error) {
	ctx, span := tracer.Start(ctx, "memory.Store.Import")
	defer span.End()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if snap.Outline != nil {
			snap.Outline.ID = ""
			snap.Outline.ProjectID = projectID
			if err := s.outlineRepo.Create(txCtx, snap.Outline); err != nil {
				return fmt.Errorf("failed to restore outline: %w", err)
			}
		}
		for _, c := range snap.Characters {
			c.ID = ""
			c.ProjectID = projectID
		}
		if len(snap.Characters) > 0 {
			if err := s.characterRepo.CreateBatch(txCtx, snap.Characters); err != nil {
				return fmt.Errorf("failed to restore characters: %w", err)
			}
		}
		for _, w := range snap.WorldSettings {
			w.ID = ""
			w.ProjectID = projectID
		}
		if len(snap.WorldSettings) > 0 {
			if err := s.worldRepo.CreateBatch(txCtx, snap.WorldSettings); err != nil {
				return fmt.Errorf("failed to restore world settings: %w", err)
			}
		}
		for _, cs := range snap.ChapterSummaries {
			cs.ID = ""
			cs.ProjectID = projectID
			if err := s.summaryRepo.CreateChapterSummary(txCtx, cs); err != nil {
				return fmt.Errorf("failed to restore chapter summary %d: %w", cs.ChapterNum, err)
			}
		}
		for _, vs := range snap.VolumeSummaries {
			vs.ID = ""
			vs.ProjectID = projectID
			if err := s.summaryRepo.CreateVolumeSummary(txCtx, vs); err != nil {
				return fmt.Errorf("failed to restore volume summary %d: %w", vs.VolumeNum, err)
			}
		}
		for _, ev := range snap.Events {
			ev.ID = ""
			ev.ProjectID = projectID
		}
		if len(snap.Events) > 0 {
			if err := s.eventRepo.CreateBatch(txCtx, snap.Events); err != nil {
				return fmt.Errorf("failed to restore timeline events: %w", err)
			}
		}
		for _, t := range snap.Threads {
			t.ID = ""
			t.ProjectID = projectID
		}
		if len(snap.Threads) > 0 {
			if err := s.threadRepo.CreateBatch(txCtx, snap.Threads); err != nil {
				return fmt.Errorf("failed to restore plot threads: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &snap, nil
}

// rotateBackups 把现有快照滚动到 .1..keep-1，最旧的丢弃。
func rotateBackups(path string, keep int) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	for i := keep - 1; i >= 1; i-- {
		src := fmt.Sprintf("%s.%d", path, i)
		if _, err := os.Stat(src); err == nil {
			_ = os.Rename(src, fmt.Sprintf("%s.%d", path, i+1))
		}
	}
	_ = os.Rename(path, path+".1")
	_ = os.Remove(fmt.Sprintf("%s.%d", path, keep+1))
}
