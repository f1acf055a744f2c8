package parser

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`[\w.\-]+@[\w.\-]+\.\w+`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,3})?[\s\-]?\(?\d{2,4}\)?[\s\-]?\d{3,5}[\s\-]?\d{3,5}`)
)

// ExtractEmail 从简历文本中提取第一个邮箱地址, 找不到时返回空串
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

// ExtractPhone 从简历文本中提取第一个电话号码, 找不到时返回空串
func ExtractPhone(text string) string {
	return strings.TrimSpace(phonePattern.FindString(text))
}
