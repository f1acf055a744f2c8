package chatbot

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FAQEntry 一条预置问答
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQStore 预置问答库, 加载后只读
type FAQStore struct {
	entries []FAQEntry
}

// NewFAQStore 用内存数据创建问答库
func NewFAQStore(entries []FAQEntry) *FAQStore {
	return &FAQStore{entries: entries}
}

// LoadFAQ 从JSON文件加载问答库
func LoadFAQ(path string) (*FAQStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取FAQ文件失败: %w", err)
	}

	var entries []FAQEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("解析FAQ文件失败: %w", err)
	}
	return NewFAQStore(entries), nil
}

// MatchIntent 与任一预置问题有至少两个重叠词时返回对应答案
func (s *FAQStore) MatchIntent(question string) (string, bool) {
	userWords := wordSet(question)
	for _, entry := range s.entries {
		if overlapCount(userWords, wordSet(entry.Question)) >= 2 {
			return entry.Answer, true
		}
	}
	return "", false
}

// BestMatch 退化检索: 取重叠词最多的问题, 完全没有重叠时不命中
func (s *FAQStore) BestMatch(question string) (string, bool) {
	userWords := wordSet(question)

	best := -1
	maxScore := 0
	for i, entry := range s.entries {
		if score := overlapCount(userWords, wordSet(entry.Question)); score > maxScore {
			maxScore = score
			best = i
		}
	}

	if best < 0 {
		return "", false
	}
	return s.entries[best].Answer, true
}

func wordSet(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		words[w] = struct{}{}
	}
	return words
}

func overlapCount(a, b map[string]struct{}) int {
	count := 0
	for w := range a {
		if _, ok := b[w]; ok {
			count++
		}
	}
	return count
}
