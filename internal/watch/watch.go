// Package watch 在素材目录变化时重新生成文档。
package watch

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/John-Robertt/shaderdocs/internal/domain"
	"github.com/John-Robertt/shaderdocs/internal/infra/fsx"
)

// Watcher 监听扫描目录（以及 header 所在目录），把连续事件合并后触发一次回调。
//
// 约束：
// - 自身产物（README.md/README.html 与原子写临时文件）的事件必须忽略，否则会自激
// - 回调在 Run 的 goroutine 上串行执行；回调出错只记日志，不退出
type Watcher struct {
	dir      string
	header   string
	debounce time.Duration
	log      *zap.Logger

	fw *fsnotify.Watcher
}

// New 创建 Watcher 并同步完成目录注册：New 返回后发生的变更都能被观察到。
func New(dir, header string, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	if debounce <= 0 {
		return nil, errors.New("debounce 必须为正数")
	}
	if log == nil {
		log = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir = filepath.Clean(dir)
	header = filepath.Clean(header)

	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}
	if hd := filepath.Dir(header); hd != dir {
		// header 目录不存在时只告警：运行时读取 header 会给出明确错误。
		if err := fw.Add(hd); err != nil {
			log.Warn("无法监听 header 目录", zap.String("dir", hd), zap.Error(err))
		}
	}

	return &Watcher{
		dir:      dir,
		header:   header,
		debounce: debounce,
		log:      log,
		fw:       fw,
	}, nil
}

// Close 释放底层 fsnotify 资源。Run 返回后调用。
func (w *Watcher) Close() error {
	return w.fw.Close()
}

// Run 阻塞直到 ctx 结束，每批相关事件触发一次 fn。
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	// fire 为 nil 表示没有待处理的批次；每个新事件都重新开始计时。
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("文件变更", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("监听出错", zap.Error(err))

		case <-fire:
			fire = nil
			if err := fn(ctx); err != nil {
				w.log.Error("重新生成失败", zap.Error(err))
			}
		}
	}
}

// relevant 判断事件是否需要触发重新生成。
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}

	path := filepath.Clean(ev.Name)
	if path == w.header {
		return true
	}
	if filepath.Dir(path) != w.dir {
		return false
	}

	switch name := filepath.Base(path); {
	case name == domain.OutputName, name == domain.PreviewName:
		return false
	case fsx.IsTempName(name):
		return false
	default:
		return true
	}
}
