// Package ident 负责从文件名推导分组 identifier，以及把 identifier 拆成可读标题。
package ident

import (
	"regexp"
	"strings"
)

// 两段替换：先在每段连续大写前插空格（把 "RGB" 这类缩写整体切开），
// 再在每个 "大写+小写串" 前插空格。只认 ASCII 字母。
var (
	upperRunRE = regexp.MustCompile(`([A-Z]+)`)
	wordRE     = regexp.MustCompile(`([A-Z][a-z]+)`)
)

// Extract 从不含扩展名的文件名中取出 identifier：截断到第一个 '.' 或 '_'。
//
// 不校验命名约定；不规范的名字最坏得到单字符或空 identifier。
//
//	"SimpleNoise"           -> "SimpleNoise"
//	"SimpleNoise_Example1"  -> "SimpleNoise"
//	"SimpleNoise.v2"        -> "SimpleNoise"
func Extract(base string) string {
	if i := strings.IndexAny(base, "._"); i >= 0 {
		return base[:i]
	}
	return base
}

// Title 把 CamelCase identifier 拆成以单个空格连接的标题。
//
//	"SimpleNoise" -> "Simple Noise"
//	"RGBSplit"    -> "RGB Split"
//	"noise"       -> "noise"
func Title(id string) string {
	s := upperRunRE.ReplaceAllString(id, " ${1}")
	s = wordRE.ReplaceAllString(s, " ${1}")
	return strings.Join(strings.Fields(s), " ")
}
