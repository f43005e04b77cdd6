package preview

import (
	"bytes"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Annotate 对 ToHTML 的结果做后处理：
// - 没有 alt 的 <img> 使用其前面最近一个 <h3> 的文字（即分组标题）作为 alt
// - 所有 <img> 加 loading="lazy"（截图通常较大）
// - <title> 取第一个 <h1> 的文字；没有 h1 则保持 DefaultTitle
//
// 必须是纯函数：相同输入得到相同输出。
func Annotate(html []byte) ([]byte, error) {
	if len(bytes.TrimSpace(html)) == 0 {
		return nil, errors.New("html 为空")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	// 按文档顺序遍历 body 的直接子节点，记录当前所属的 h3。
	current := ""
	doc.Find("body").Children().Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "h3" {
			current = normSpace(s.Text())
			return
		}
		s.Find("img").AddSelection(s.Filter("img")).Each(func(_ int, img *goquery.Selection) {
			if alt, _ := img.Attr("alt"); strings.TrimSpace(alt) == "" && current != "" {
				img.SetAttr("alt", current)
			}
			img.SetAttr("loading", "lazy")
		})
	})

	if h1 := normSpace(doc.Find("h1").First().Text()); h1 != "" {
		doc.Find("title").First().SetText(h1)
	}

	out, err := doc.Html()
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func normSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
