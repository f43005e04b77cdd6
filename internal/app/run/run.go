package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/John-Robertt/shaderdocs/internal/app"
	"github.com/John-Robertt/shaderdocs/internal/config"
	"github.com/John-Robertt/shaderdocs/internal/domain"
	"github.com/John-Robertt/shaderdocs/internal/infra/fsx"
	"github.com/John-Robertt/shaderdocs/internal/preview"
	"github.com/John-Robertt/shaderdocs/internal/render"
	"github.com/John-Robertt/shaderdocs/internal/scan"
)

// Error 是某个阶段失败的结构化错误；Err 保留底层 I/O 错误以便 errors.Is 判断。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case domain.ErrCodeHeaderFailed:
		return fmt.Sprintf("%s：读取 header %q 失败：%v", e.Code, e.Path, e.Err)
	case domain.ErrCodeScanFailed:
		return fmt.Sprintf("%s：扫描目录 %q 失败：%v", e.Code, e.Path, e.Err)
	case domain.ErrCodeWriteFailed:
		return fmt.Sprintf("%s：写入 %q 失败：%v", e.Code, e.Path, e.Err)
	case domain.ErrCodePreviewFailed:
		return fmt.Sprintf("%s：生成预览 %q 失败：%v", e.Code, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s：%v", e.Code, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Result 是一次 Execute 的产物。
type Result struct {
	Report   domain.RunReport
	Document string // 完整的 README.md 内容
	HTML     []byte // 仅在启用预览时非空
}

// Execute 执行一次生成，等价于 ExecuteWithObserver(ctx, eff, nil)。
func Execute(ctx context.Context, eff config.EffectiveConfig) (Result, error) {
	return ExecuteWithObserver(ctx, eff, nil)
}

// ExecuteWithObserver 依次执行 header -> scan -> group -> render -> write -> preview。
//
// 任一 I/O 失败都立即返回（不做重试/降级）：
// - header 读取失败时尚未产生任何输出
// - 写入失败时目标文件保持原样（原子写）
// dry-run 不落盘，但 Document/HTML 照常返回。
func ExecuteWithObserver(ctx context.Context, eff config.EffectiveConfig, obs Observer) (Result, error) {
	rr := domain.RunReport{
		Path:      eff.Path,
		Output:    eff.OutputPath(),
		DryRun:    eff.DryRun,
		StartedAt: time.Now().UTC(),
	}
	if eff.HTML {
		rr.Preview = eff.PreviewPath()
	}

	if obs != nil {
		obs.OnStart(eff)
	}

	started := time.Now()
	header, err := os.ReadFile(eff.HeaderPath)
	if err != nil {
		return Result{}, &Error{Code: domain.ErrCodeHeaderFailed, Path: eff.HeaderPath, Err: err}
	}
	phaseDone(obs, "header", map[string]any{"bytes": len(header)}, started)

	if err := checkCanceled(ctx); err != nil {
		return Result{}, err
	}

	started = time.Now()
	files, err := scan.ScanAssets(eff.Path)
	if err != nil {
		return Result{}, &Error{Code: domain.ErrCodeScanFailed, Path: eff.Path, Err: err}
	}
	phaseDone(obs, "scan", map[string]any{"files": len(files)}, started)

	started = time.Now()
	cat, unclassified := app.GroupByIdentifier(files)
	phaseDone(obs, "group", map[string]any{"groups": len(cat), "unclassified": len(unclassified)}, started)

	rr.Summary.Files = len(files)
	for _, f := range unclassified {
		rr.Unclassified = append(rr.Unclassified, f.Name)
		if obs != nil {
			obs.OnUnclassified(f)
		}
	}
	groups := cat.Groups()
	for i, g := range groups {
		rr.Groups = append(rr.Groups, domain.NewGroupResult(g))
		if obs != nil {
			obs.OnGroup(i+1, len(groups), g)
		}
	}

	started = time.Now()
	doc := render.Encode(string(header), cat)
	phaseDone(obs, "render", map[string]any{"bytes": len(doc)}, started)

	if err := checkCanceled(ctx); err != nil {
		return Result{}, err
	}

	if !eff.DryRun {
		started = time.Now()
		if err := fsx.WriteFileAtomicReplace(eff.Path, domain.OutputName, []byte(doc)); err != nil {
			return Result{}, &Error{Code: domain.ErrCodeWriteFailed, Path: eff.OutputPath(), Err: err}
		}
		phaseDone(obs, "write", map[string]any{"path": eff.OutputPath()}, started)
	}

	res := Result{Document: doc}

	if eff.HTML {
		started = time.Now()
		html, err := preview.NewConverter().Render(ctx, doc)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, &Error{Code: domain.ErrCodeCanceled, Err: ctx.Err()}
			}
			return Result{}, &Error{Code: domain.ErrCodePreviewFailed, Path: eff.PreviewPath(), Err: err}
		}
		if !eff.DryRun {
			if err := fsx.WriteFileAtomicReplace(eff.Path, domain.PreviewName, html); err != nil {
				return Result{}, &Error{Code: domain.ErrCodePreviewFailed, Path: eff.PreviewPath(), Err: err}
			}
		}
		phaseDone(obs, "preview", map[string]any{"bytes": len(html)}, started)
		res.HTML = html
	}

	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	res.Report = rr
	return res, nil
}

func checkCanceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &Error{Code: domain.ErrCodeCanceled, Err: err}
	}
	return nil
}

func phaseDone(obs Observer, name string, fields map[string]any, started time.Time) {
	if obs == nil {
		return
	}
	obs.OnPhaseDone(name, fields, time.Since(started))
}
