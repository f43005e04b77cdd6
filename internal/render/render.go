package render

import (
	"strings"

	"github.com/John-Robertt/shaderdocs/internal/domain"
)

// 每类链接固定的 emoji 后缀。
const (
	EmojiShader       = "\U0001F4DD"       // 📝
	EmojiProject      = "\U0001F4E6"       // 📦
	EmojiExampleImage = "\U0001F5BC\uFE0F" // 🖼️
)

type link struct {
	name  string
	emoji string
}

// Encode 把 header 与 Catalog 渲染为最终的 README 文本。
//
// 规则：
// - header 原样保留（包括其末尾的换行与否），后面依次拼接各 group 块
// - group 按 identifier 字节序升序输出，与扫描顺序无关
// - 相同输入必须得到逐字节相同的输出
func Encode(header string, cat domain.Catalog) string {
	var b strings.Builder
	b.Grow(len(header) + 256*len(cat))
	b.WriteString(header)
	for _, id := range cat.IDs() {
		writeGroup(&b, cat[id])
	}
	return b.String()
}

// writeGroup 输出一个 group 块：
//
//	\n### <title>
//	\n\n![](<screenshot>)          截图存在时
//	\n                             至少有一个列表项时
//	\n- [<file> <emoji>](<file>)   按 shader/project/example 的固定顺序
//	\n
func writeGroup(b *strings.Builder, g *domain.AssetGroup) {
	b.WriteString("\n### ")
	b.WriteString(g.Title)

	if g.Screenshot != "" {
		b.WriteString("\n\n![](")
		b.WriteString(g.Screenshot)
		b.WriteString(")")
	}

	ls := bulletLinks(g)
	if len(ls) > 0 {
		b.WriteString("\n")
	}
	for _, l := range ls {
		b.WriteString("\n- [")
		b.WriteString(l.name)
		b.WriteString(" ")
		b.WriteString(l.emoji)
		b.WriteString("](")
		b.WriteString(l.name)
		b.WriteString(")")
	}

	b.WriteString("\n")
}

func bulletLinks(g *domain.AssetGroup) []link {
	out := make([]link, 0, 3)
	if g.Shader != "" {
		out = append(out, link{name: g.Shader, emoji: EmojiShader})
	}
	if g.Project != "" {
		out = append(out, link{name: g.Project, emoji: EmojiProject})
	}
	if g.ExampleImage != "" {
		out = append(out, link{name: g.ExampleImage, emoji: EmojiExampleImage})
	}
	return out
}
