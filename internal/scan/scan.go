package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/John-Robertt/shaderdocs/internal/domain"
)

// ScanAssets 列出 root 下一层（不递归）的素材文件。
//
// 规则（硬约束）：
// - 只看名字里带 '.' 的条目（等价于 glob "*.*"）；目录与隐藏文件跳过
// - 扩展名大小写敏感，只接受 .osl/.png/.jpg/.gif/.zip
// - 去掉扩展名后等于 "README"（不区分大小写）的文件跳过
//
// 注意：扫描阶段只做 ReadDir，不读文件内容。
func ScanAssets(root string) ([]domain.AssetFile, error) {
	root = filepath.Clean(root)

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	files := make([]domain.AssetFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		name := e.Name()
		if strings.HasPrefix(name, ".") || !strings.Contains(name, ".") {
			continue
		}

		ext := filepath.Ext(name)
		if !IsAssetExt(ext) {
			continue
		}

		base := strings.TrimSuffix(name, ext)
		if strings.EqualFold(base, "README") {
			continue
		}

		files = append(files, domain.AssetFile{
			AbsPath: filepath.Join(root, name),
			Name:    name,
			Base:    base,
			Ext:     ext,
		})
	}

	// 强制稳定输出：同槽位"后扫描者覆盖"因此在各平台上都可复现。
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// IsAssetExt 判断扩展名是否属于目录约定（大小写敏感）。
func IsAssetExt(ext string) bool {
	switch ext {
	case domain.ExtShader, domain.ExtPNG, domain.ExtJPG, domain.ExtGIF, domain.ExtArchive:
		return true
	default:
		return false
	}
}
