// Package preview 把生成的 README 渲染为本地可浏览的 HTML。
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion 表示 markdown -> HTML 转换失败。
var ErrHTMLConversion = errors.New("HTML 转换失败")

// DefaultTitle 是文档没有一级标题时使用的 <title>。
const DefaultTitle = "README"

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>` + DefaultTitle + `</title>
</head>
<body>
%s
</body>
</html>`

// Converter 用 goldmark 把 markdown 转为完整的 HTML5 文档。
type Converter struct {
	md goldmark.Markdown
}

// NewConverter 创建启用 GFM 与代码高亮的 Converter。
//
// header 里常有徽章之类的内联 HTML，所以允许原始 HTML 透传。
func NewConverter() *Converter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			html.WithUnsafe(),
		),
	)
	return &Converter{md: md}
}

// ToHTML 把 markdown 转为 HTML5 文档。goldmark 本身不支持 ctx，
// 这里用 goroutine + select 让调用方可以提前放弃。
func (c *Converter) ToHTML(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(markdown), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: fmt.Sprintf(htmlTemplate, buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// Render 是 ToHTML + Annotate 的组合。
func (c *Converter) Render(ctx context.Context, markdown string) ([]byte, error) {
	doc, err := c.ToHTML(ctx, markdown)
	if err != nil {
		return nil, err
	}
	out, err := Annotate([]byte(doc))
	if err != nil {
		return nil, err
	}
	return out, nil
}
