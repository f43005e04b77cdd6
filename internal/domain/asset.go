package domain

import "sort"

// 目录约定中认可的扩展名（大小写敏感：".PNG" 不会被接受）。
const (
	ExtShader  = ".osl"
	ExtPNG     = ".png"
	ExtJPG     = ".jpg"
	ExtGIF     = ".gif"
	ExtArchive = ".zip"
)

// OutputName 是生成文档的固定文件名（写在扫描目录下，每次整体覆盖）。
const OutputName = "README.md"

// PreviewName 是可选 HTML 预览的文件名。
const PreviewName = "README.html"

// AssetKind 描述一个素材文件在分组中的槽位。
type AssetKind string

const (
	KindShader       AssetKind = "shader"
	KindScreenshot   AssetKind = "screenshot"
	KindExampleImage AssetKind = "example_image"
	KindProject      AssetKind = "project"
	// KindUnclassified：扩展名通过过滤但没有对应槽位（目前只有 .gif）。
	KindUnclassified AssetKind = "unclassified"
)

// AssetFile 描述一次扫描得到的素材文件（只做 ReadDir，不读内容）。
//
// 不变量：
// - AbsPath 必须是 clean + absolute
// - Name = Base + Ext
type AssetFile struct {
	AbsPath string
	Name    string // "SimpleNoise_Example.png"
	Base    string // "SimpleNoise_Example"
	Ext     string // ".png"
}

// AssetGroup 是同一 identifier 下的素材集合。空字符串表示该槽位未设置。
type AssetGroup struct {
	Identifier string
	Title      string

	Shader       string
	Screenshot   string
	ExampleImage string
	Project      string
}

// Set 把文件名放入 kind 对应的槽位；同一槽位后写覆盖先写。
// 返回 false 表示 kind 没有可见槽位（文件被静默丢弃）。
func (g *AssetGroup) Set(kind AssetKind, name string) bool {
	switch kind {
	case KindShader:
		g.Shader = name
	case KindScreenshot:
		g.Screenshot = name
	case KindExampleImage:
		g.ExampleImage = name
	case KindProject:
		g.Project = name
	default:
		return false
	}
	return true
}

// Catalog 是 identifier -> AssetGroup 的映射。构建完成后只读。
type Catalog map[string]*AssetGroup

// IDs 返回按字节序升序排列的 identifier 列表（渲染顺序）。
func (c Catalog) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Groups 按 IDs 的顺序返回分组副本。
func (c Catalog) Groups() []AssetGroup {
	ids := c.IDs()
	out := make([]AssetGroup, 0, len(ids))
	for _, id := range ids {
		out = append(out, *c[id])
	}
	return out
}
