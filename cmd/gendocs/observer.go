package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/John-Robertt/shaderdocs/internal/app/run"
	"github.com/John-Robertt/shaderdocs/internal/config"
	"github.com/John-Robertt/shaderdocs/internal/domain"
)

var _ run.Observer = (*logObserver)(nil)

// logObserver 把 run 层事件写成结构化日志（stderr）。
// 阶段与分组明细是 debug 级别，只有 -v 时可见；未分类文件是 warn。
type logObserver struct {
	log *zap.Logger
}

func newLogObserver(log *zap.Logger) *logObserver {
	return &logObserver{log: log}
}

// newLogger 构建写到 w 的 console 编码 logger：默认 warn，verbose 时 debug。
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}

func (o *logObserver) OnStart(eff config.EffectiveConfig) {
	o.log.Debug("开始生成",
		zap.String("path", eff.Path),
		zap.String("header", eff.HeaderPath),
		zap.Bool("html", eff.HTML),
		zap.Bool("dry_run", eff.DryRun),
		zap.Bool("watch", eff.Watch),
	)
}

func (o *logObserver) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	zf := make([]zap.Field, 0, len(fields)+2)
	zf = append(zf, zap.String("phase", name))
	for _, k := range sortedKeys(fields) {
		zf = append(zf, zap.Any(k, fields[k]))
	}
	zf = append(zf, zap.String("took", formatShortDuration(dur)))
	o.log.Debug("阶段完成", zf...)
}

func (o *logObserver) OnGroup(idx, total int, g domain.AssetGroup) {
	o.log.Debug("分组",
		zap.String("progress", fmt.Sprintf("%d/%d", idx, total)),
		zap.String("identifier", g.Identifier),
		zap.String("title", g.Title),
		zap.String("slots", formatSlots(g)),
	)
}

func (o *logObserver) OnUnclassified(f domain.AssetFile) {
	o.log.Warn("文件未归入任何槽位，已忽略", zap.String("file", f.Name), zap.String("ext", f.Ext))
}

// formatSlots 以紧凑形式列出已占用槽位，例如 "shader,screenshot"。
func formatSlots(g domain.AssetGroup) string {
	s := ""
	add := func(set bool, name string) {
		if !set {
			return
		}
		if s != "" {
			s += ","
		}
		s += name
	}
	add(g.Shader != "", string(domain.KindShader))
	add(g.Screenshot != "", string(domain.KindScreenshot))
	add(g.ExampleImage != "", string(domain.KindExampleImage))
	add(g.Project != "", string(domain.KindProject))
	if s == "" {
		return "-"
	}
	return s
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
