package app

import (
	"strings"

	"github.com/John-Robertt/shaderdocs/internal/domain"
	"github.com/John-Robertt/shaderdocs/internal/ident"
)

// GroupByIdentifier 把素材文件按 identifier 聚合为 Catalog。
//
// - 同一 identifier 的文件合并到同一个 AssetGroup；Title 只在首次出现时计算
// - 同槽位按输入顺序后写覆盖（ScanAssets 已按文件名排序）
// - unclassified 返回通过过滤但没有槽位的文件（目前是 .gif），其 group 照常创建
func GroupByIdentifier(files []domain.AssetFile) (cat domain.Catalog, unclassified []domain.AssetFile) {
	cat = make(domain.Catalog, 64)

	for _, f := range files {
		id := ident.Extract(f.Base)

		g, ok := cat[id]
		if !ok {
			g = &domain.AssetGroup{
				Identifier: id,
				Title:      ident.Title(id),
			}
			cat[id] = g
		}

		if !g.Set(Classify(f), f.Name) {
			unclassified = append(unclassified, f)
		}
	}
	return cat, unclassified
}

// Classify 按扩展名决定文件的槽位。
// .png/.jpg 的文件名只要包含 "example"（不区分大小写）就算示例图，否则是截图。
func Classify(f domain.AssetFile) domain.AssetKind {
	switch f.Ext {
	case domain.ExtShader:
		return domain.KindShader
	case domain.ExtPNG, domain.ExtJPG:
		if strings.Contains(strings.ToLower(f.Name), "example") {
			return domain.KindExampleImage
		}
		return domain.KindScreenshot
	case domain.ExtArchive:
		return domain.KindProject
	default:
		// .gif 能通过扫描过滤，但没有对应槽位。
		return domain.KindUnclassified
	}
}
