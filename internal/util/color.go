package util

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/image/colornames"
)

var hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// CSS3 颜色值 -> 名称
var hexToColorName = buildHexColorIndex()

func buildHexColorIndex() map[string]string {
	index := make(map[string]string, len(colornames.Map))
	for name, c := range colornames.Map {
		hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
		if current, ok := index[hex]; ok && !preferColorName(name, current) {
			continue
		}
		index[hex] = name
	}
	return index
}

// preferColorName 同一颜色值有多个名称时，gray 拼写优先于 grey，其余取字典序靠后者（cyan、magenta）
func preferColorName(candidate, current string) bool {
	candidateGrey := strings.Contains(candidate, "grey")
	currentGrey := strings.Contains(current, "grey")
	if candidateGrey != currentGrey {
		return !candidateGrey
	}
	return candidate > current
}

// NormalizeHexColor 转为小写的 #rrggbb 形式
func NormalizeHexColor(value string) (string, bool) {
	if !hexColorPattern.MatchString(value) {
		return "", false
	}
	hex := strings.ToLower(value[1:])
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	return "#" + hex, true
}

// HexToColorName 将十六进制颜色转换为可读的颜色名称
func HexToColorName(value string) (string, error) {
	hex, ok := NormalizeHexColor(value)
	if !ok {
		return "", ErrColorHasNoName
	}
	name, ok := hexToColorName[hex]
	if !ok {
		return "", ErrColorHasNoName
	}
	return name, nil
}
