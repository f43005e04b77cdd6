package preview

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// regexp2（chroma 依赖）常驻一个时钟 goroutine。
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/dlclark/regexp2.runClock"))
}

const sampleREADME = "# OSL Shaders\n\nIntro text.\n" +
	"\n### RGB Split" +
	"\n\n![](RGBSplit.png)" +
	"\n" +
	"\n- [RGBSplit.osl 📝](RGBSplit.osl)" +
	"\n" +
	"\n### Simple Noise" +
	"\n\n![](SimpleNoise.jpg)" +
	"\n" +
	"\n- [SimpleNoise.osl 📝](SimpleNoise.osl)" +
	"\n- [SimpleNoise_Example.png 🖼️](SimpleNoise_Example.png)" +
	"\n"

func TestRender_AnnotatesImagesAndTitle(t *testing.T) {
	out, err := NewConverter().Render(context.Background(), sampleREADME)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("解析输出失败：%v", err)
	}

	if got := doc.Find("title").Text(); got != "OSL Shaders" {
		t.Fatalf("期望 title=%q，实际=%q", "OSL Shaders", got)
	}
	if n := doc.Find("h3").Length(); n != 2 {
		t.Fatalf("期望 2 个 h3，实际 %d", n)
	}

	imgs := doc.Find("img")
	if imgs.Length() != 2 {
		t.Fatalf("期望 2 张图，实际 %d", imgs.Length())
	}
	wantAlt := []string{"RGB Split", "Simple Noise"}
	imgs.Each(func(i int, s *goquery.Selection) {
		if alt, _ := s.Attr("alt"); alt != wantAlt[i] {
			t.Fatalf("第 %d 张图：期望 alt=%q，实际=%q", i, wantAlt[i], alt)
		}
		if l, _ := s.Attr("loading"); l != "lazy" {
			t.Fatalf("第 %d 张图缺少 loading=lazy", i)
		}
	})

	links := doc.Find("li a")
	if links.Length() != 3 {
		t.Fatalf("期望 3 个链接，实际 %d", links.Length())
	}
	if href, _ := links.Last().Attr("href"); href != "SimpleNoise_Example.png" {
		t.Fatalf("链接 href 错误：%q", href)
	}
}

func TestAnnotate_KeepsExistingAlt(t *testing.T) {
	in := `<!DOCTYPE html><html><head><title>README</title></head><body>` +
		`<h3>Simple Noise</h3><p><img src="a.png" alt="custom"/></p></body></html>`
	out, err := Annotate([]byte(in))
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if !strings.Contains(string(out), `alt="custom"`) {
		t.Fatalf("已有 alt 不应被覆盖：%s", out)
	}
	// 没有 h1：title 保持默认。
	if !strings.Contains(string(out), "<title>"+DefaultTitle+"</title>") {
		t.Fatalf("title 不应改变：%s", out)
	}
}

func TestAnnotate_ImageBeforeAnyHeading(t *testing.T) {
	in := `<html><head><title>README</title></head><body><p><img src="logo.png" alt=""/></p><h3>A</h3></body></html>`
	out, err := Annotate([]byte(in))
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	doc, _ := goquery.NewDocumentFromReader(bytes.NewReader(out))
	if alt, _ := doc.Find("img").Attr("alt"); alt != "" {
		t.Fatalf("标题之前的图片不应获得 alt：%q", alt)
	}
}

func TestAnnotate_Deterministic(t *testing.T) {
	html, err := NewConverter().ToHTML(context.Background(), sampleREADME)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	a, err := Annotate([]byte(html))
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	b, err := Annotate([]byte(html))
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("两次输出不一致")
	}
}

func TestAnnotate_Empty(t *testing.T) {
	if _, err := Annotate([]byte("  ")); err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}
}

func TestToHTML_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewConverter().ToHTML(ctx, sampleREADME)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("期望 context.Canceled，实际：%v", err)
	}
}

func TestToHTML_HighlightsFencedCode(t *testing.T) {
	md := "# H\n\n```go\npackage main\n```\n"
	html, err := NewConverter().ToHTML(context.Background(), md)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if !strings.Contains(html, `class="chroma"`) {
		t.Fatalf("代码块未高亮：%s", html)
	}
}
