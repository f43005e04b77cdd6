package run

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/John-Robertt/shaderdocs/internal/config"
	"github.com/John-Robertt/shaderdocs/internal/domain"
)

func TestExecute_EndToEndScenario(t *testing.T) {
	root := t.TempDir()
	eff := effFor(t, root, "# Shaders\n")
	touch(t, root,
		"SimpleNoise.osl",
		"SimpleNoise.jpg",
		"SimpleNoise_Example.png",
		"SimpleNoise_Example.zip",
		"notes.txt",
	)

	res, err := Execute(context.Background(), eff)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	want := "# Shaders\n" +
		"\n### Simple Noise" +
		"\n\n![](SimpleNoise.jpg)" +
		"\n" +
		"\n- [SimpleNoise.osl 📝](SimpleNoise.osl)" +
		"\n- [SimpleNoise_Example.zip 📦](SimpleNoise_Example.zip)" +
		"\n- [SimpleNoise_Example.png 🖼️](SimpleNoise_Example.png)" +
		"\n"
	if res.Document != want {
		t.Fatalf("文档不一致：\n期望 %q\n实际 %q", want, res.Document)
	}

	b, err := os.ReadFile(filepath.Join(root, "README.md"))
	if err != nil {
		t.Fatalf("读取 README.md 失败：%v", err)
	}
	if string(b) != want {
		t.Fatalf("落盘内容与返回值不一致：%q", string(b))
	}

	if strings.Contains(res.Document, "notes") {
		t.Fatalf("notes.txt 不应出现在输出中")
	}

	rr := res.Report
	if rr.Summary.Files != 4 || rr.Summary.Groups != 1 || rr.Summary.Unclassified != 0 {
		t.Fatalf("summary 不符：%+v", rr.Summary)
	}
	if rr.Output != filepath.Join(root, "README.md") || rr.DryRun {
		t.Fatalf("report 字段不符：%+v", rr)
	}
	if rr.Preview != "" {
		t.Fatalf("未启用预览时 preview 应为空：%q", rr.Preview)
	}
}

func TestExecute_Idempotent(t *testing.T) {
	root := t.TempDir()
	eff := effFor(t, root, "# H\n")
	touch(t, root, "B.osl", "A.osl", "A.png", "C_Example.jpg", "D.gif")

	if _, err := Execute(context.Background(), eff); err != nil {
		t.Fatalf("第一次运行失败：%v", err)
	}
	first, _ := os.ReadFile(filepath.Join(root, "README.md"))

	// 第二次运行时 README.md 已存在于目录中，也不能影响结果。
	if _, err := Execute(context.Background(), eff); err != nil {
		t.Fatalf("第二次运行失败：%v", err)
	}
	second, _ := os.ReadFile(filepath.Join(root, "README.md"))

	if string(first) != string(second) {
		t.Fatalf("两次输出不一致：\n%q\n%q", first, second)
	}
}

func TestExecute_OneHeadingPerIdentifierSorted(t *testing.T) {
	root := t.TempDir()
	eff := effFor(t, root, "")
	touch(t, root, "Zeta.osl", "alpha.osl", "Beta_Example.zip", "Beta.jpg", "Gamma.gif")

	res, err := Execute(context.Background(), eff)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	var headings []string
	for _, line := range strings.Split(res.Document, "\n") {
		if strings.HasPrefix(line, "### ") {
			headings = append(headings, strings.TrimPrefix(line, "### "))
		}
	}
	// 字节序：大写在前，"alpha" 排在最后。
	want := []string{"Beta", "Gamma", "Zeta", "alpha"}
	if strings.Join(headings, ",") != strings.Join(want, ",") {
		t.Fatalf("标题顺序不符：期望 %v，实际 %v", want, headings)
	}
	if len(res.Report.Unclassified) != 1 || res.Report.Unclassified[0] != "Gamma.gif" {
		t.Fatalf("unclassified 不符：%v", res.Report.Unclassified)
	}
}

func TestExecute_HeaderMissing_NoOutput(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "A.osl")
	eff := config.EffectiveConfig{
		Path:       root,
		HeaderPath: filepath.Join(root, "missing", "HEADER.md"),
	}

	_, err := Execute(context.Background(), eff)
	if Code(err) != domain.ErrCodeHeaderFailed {
		t.Fatalf("期望 %q，实际：%v", domain.ErrCodeHeaderFailed, err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("应保留底层 not-exist 错误：%v", err)
	}
	if _, statErr := os.Stat(filepath.Join(root, "README.md")); !os.IsNotExist(statErr) {
		t.Fatalf("header 失败时不应写出 README.md")
	}
}

func TestExecute_ScanDirMissing(t *testing.T) {
	header := filepath.Join(t.TempDir(), "HEADER.md")
	if err := os.WriteFile(header, []byte("h"), 0o644); err != nil {
		t.Fatalf("写入 header 失败：%v", err)
	}
	eff := config.EffectiveConfig{
		Path:       filepath.Join(t.TempDir(), "gone"),
		HeaderPath: header,
	}

	_, err := Execute(context.Background(), eff)
	if Code(err) != domain.ErrCodeScanFailed {
		t.Fatalf("期望 %q，实际：%v", domain.ErrCodeScanFailed, err)
	}
}

func TestExecute_OutputIsDir_WriteFailed(t *testing.T) {
	root := t.TempDir()
	eff := effFor(t, root, "h")
	if err := os.Mkdir(filepath.Join(root, "README.md"), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}

	_, err := Execute(context.Background(), eff)
	if Code(err) != domain.ErrCodeWriteFailed {
		t.Fatalf("期望 %q，实际：%v", domain.ErrCodeWriteFailed, err)
	}
}

func TestExecute_DryRun_NoWrites(t *testing.T) {
	root := t.TempDir()
	eff := effFor(t, root, "h\n")
	eff.DryRun = true
	eff.HTML = true
	touch(t, root, "A.osl")

	res, err := Execute(context.Background(), eff)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if res.Document == "" || len(res.HTML) == 0 {
		t.Fatalf("dry-run 仍应返回文档与预览")
	}
	for _, name := range []string{"README.md", "README.html"} {
		if _, statErr := os.Stat(filepath.Join(root, name)); !os.IsNotExist(statErr) {
			t.Fatalf("dry-run 不应写出 %s", name)
		}
	}
	if !res.Report.DryRun {
		t.Fatalf("report 应标记 dry_run")
	}
}

func TestExecute_HTMLPreviewWritten(t *testing.T) {
	root := t.TempDir()
	eff := effFor(t, root, "# Shaders\n")
	eff.HTML = true
	touch(t, root, "SimpleNoise.osl", "SimpleNoise.jpg")

	res, err := Execute(context.Background(), eff)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	b, err := os.ReadFile(filepath.Join(root, "README.html"))
	if err != nil {
		t.Fatalf("读取 README.html 失败：%v", err)
	}
	if string(b) != string(res.HTML) {
		t.Fatalf("落盘 HTML 与返回值不一致")
	}
	if !strings.Contains(string(b), `alt="Simple Noise"`) {
		t.Fatalf("预览未标注图片 alt：%s", b)
	}
	if res.Report.Preview != filepath.Join(root, "README.html") {
		t.Fatalf("report.preview 不符：%q", res.Report.Preview)
	}
}

func TestExecute_CanceledContext(t *testing.T) {
	root := t.TempDir()
	eff := effFor(t, root, "h")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Execute(ctx, eff)
	if Code(err) != domain.ErrCodeCanceled || !errors.Is(err, context.Canceled) {
		t.Fatalf("期望 canceled，实际：%v", err)
	}
}

// effFor 在独立目录写入 header，返回指向 root 的配置。
func effFor(t *testing.T, root, header string) config.EffectiveConfig {
	t.Helper()
	headerPath := filepath.Join(t.TempDir(), "HEADER.md")
	if err := os.WriteFile(headerPath, []byte(header), 0o644); err != nil {
		t.Fatalf("写入 header 失败：%v", err)
	}
	return config.EffectiveConfig{
		Path:       root,
		HeaderPath: headerPath,
		Debounce:   config.DefaultDebounce,
	}
}

func touch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(root, n), []byte("x"), 0o644); err != nil {
			t.Fatalf("写入文件失败：%v", err)
		}
	}
}
