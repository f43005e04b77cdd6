package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/John-Robertt/shaderdocs/internal/domain"
)

const (
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeNotDir 表示扫描路径不存在或不是目录。
	ErrCodeNotDir = "config_not_dir"
)

const (
	// FileName 是扫描目录下可选的配置文件名。
	FileName = "gendocs.yaml"
	// HeaderName 是默认 header 的文件名（位于程序所在目录）。
	HeaderName = "HEADER.md"
	// DefaultDebounce 是 watch 模式合并连续事件的窗口。
	DefaultDebounce = 300 * time.Millisecond
	// maxFileSize 限制配置文件大小，避免误读大文件。
	maxFileSize = 1 << 20
)

// CLIArgs 保留"是否显式指定"的信息，以便 --html=false 能覆盖配置中的 html: true。
type CLIArgs struct {
	Path string

	Header    string
	HeaderSet bool

	HTML    bool
	HTMLSet bool

	DryRun bool
	Watch  bool

	// ProgramDir 是可执行文件所在目录；默认 header 从这里读取。
	ProgramDir string
}

// FileConfig 对应 gendocs.yaml 的解析结构。未知字段会被拒绝。
type FileConfig struct {
	Header   string `yaml:"header"`
	HTML     *bool  `yaml:"html"`
	Debounce string `yaml:"debounce"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	Path       string // 扫描目录（clean + absolute）
	HeaderPath string // header 文件（clean + absolute）

	HTML   bool
	DryRun bool
	Watch  bool

	Debounce time.Duration
}

// OutputPath 返回 README.md 的绝对路径。
func (e EffectiveConfig) OutputPath() string {
	return filepath.Join(e.Path, domain.OutputName)
}

// PreviewPath 返回 README.html 的绝对路径。
func (e EffectiveConfig) PreviewPath() string {
	return filepath.Join(e.Path, domain.PreviewName)
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotDir:
		if e.Err != nil {
			return fmt.Sprintf("%s：扫描路径 %q 不可用：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：扫描路径 %q 不是目录", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
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

// LoadEffective 确定扫描目录，读取其中可选的 gendocs.yaml，然后与 CLI 参数合并。
//
// 覆盖优先级（固定）：
// - path：CLI path > cwd
// - header：CLI --header（相对 cwd）> config header（相对扫描目录）> <ProgramDir>/HEADER.md
// - html：CLI --html/--html=false > config > 默认 false
// - debounce：仅由 config 控制（CLI 不暴露）
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	root := cwdAbs
	if strings.TrimSpace(cli.Path) != "" {
		root = absCleanFrom(cwdAbs, cli.Path)
	}

	fi, err := os.Stat(root)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeNotDir, Path: root, Err: err}
	}
	if !fi.IsDir() {
		return EffectiveConfig{}, &Error{Code: ErrCodeNotDir, Path: root}
	}

	cfgPath := filepath.Join(root, FileName)
	fc, _, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	return merge(cwdAbs, root, cli, fc, cfgPath)
}

func merge(cwdAbs, root string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	var header string
	switch {
	case cli.HeaderSet:
		if strings.TrimSpace(cli.Header) == "" {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("--header 不能为空")}
		}
		header = absCleanFrom(cwdAbs, cli.Header)
	case strings.TrimSpace(fc.Header) != "":
		header = absCleanFrom(root, fc.Header)
	default:
		dir := cli.ProgramDir
		if strings.TrimSpace(dir) == "" {
			dir = root
		}
		header = filepath.Join(absCleanFrom(cwdAbs, dir), HeaderName)
	}

	html := false
	if cli.HTMLSet {
		html = cli.HTML
	} else if fc.HTML != nil {
		html = *fc.HTML
	}

	debounce := DefaultDebounce
	if s := strings.TrimSpace(fc.Debounce); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("debounce 无效：%w", err)}
		}
		if d <= 0 {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("debounce 必须为正数，实际 %q", s)}
		}
		debounce = d
	}

	return EffectiveConfig{
		Path:       root,
		HeaderPath: header,
		HTML:       html,
		DryRun:     cli.DryRun,
		Watch:      cli.Watch,
		Debounce:   debounce,
	}, nil
}

// ProgramDir 返回当前可执行文件所在目录（解析符号链接）。
func ProgramDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
// - p 若已是绝对路径：直接 Clean
// - p 若是相对路径：Join(base, p) 后 Clean
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并严格解析 YAML 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if len(b) > maxFileSize {
		return FileConfig{}, true, fmt.Errorf("文件过大：%d 字节（上限 %d）", len(b), maxFileSize)
	}
	if strings.TrimSpace(string(b)) == "" {
		return FileConfig{}, true, nil
	}
	if err := yaml.UnmarshalWithOptions(b, &fc, yaml.Strict()); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
