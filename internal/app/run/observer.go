package run

import (
	"time"

	"github.com/John-Robertt/shaderdocs/internal/config"
	"github.com/John-Robertt/shaderdocs/internal/domain"
)

// Observer 把"运行进度/阶段/分组结果"从核心执行流程中解耦出来。
//
// 约束：
// - run 包只负责发事件，不做任何输出（--json 时 stdout 只能有一个 RunReport）。
// - 事件全部在调用 Execute 的 goroutine 上同步发出。
type Observer interface {
	// OnStart 在 Execute 开始时调用。
	OnStart(eff config.EffectiveConfig)
	// OnPhaseDone 在阶段结束时调用（header/scan/group/render/write/preview）。
	OnPhaseDone(name string, fields map[string]any, dur time.Duration)
	// OnGroup 在渲染顺序中逐个报告分组（idx 从 1 开始）。
	OnGroup(idx, total int, g domain.AssetGroup)
	// OnUnclassified 报告通过过滤但没有槽位的文件。
	OnUnclassified(f domain.AssetFile)
}
