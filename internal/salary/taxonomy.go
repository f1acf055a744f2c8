package salary

import "strings"

// eduBucket 学历归并桶, 按优先级排列, 先匹配到的生效
type eduBucket struct {
	Name     string
	Keywords []string
}

// 博士在硕士之前, 避免 "phd" 文本里的 "graduate" 之类弱关键词抢先命中
var eduBuckets = []eduBucket{
	{Name: "PhD", Keywords: []string{"phd", "doctorate", "doctoral", "ph.d"}},
	{Name: "Masters", Keywords: []string{"master", "master's", "msc", "postgraduate", "m.eng", "graduate degree"}},
	{Name: "Bachelors", Keywords: []string{"bachelor", "bachelor's", "undergraduate", "bsc", "b.eng", "bachelor degree"}},
	{Name: "High School", Keywords: []string{"high school", "secondary school", "diploma"}},
}

// GroupEducation 把任意学历描述归并到固定桶, 不命中时归为Other
func GroupEducation(education string) string {
	text := strings.ToLower(strings.TrimSpace(education))
	for _, bucket := range eduBuckets {
		for _, keyword := range bucket.Keywords {
			if strings.Contains(text, keyword) {
				return bucket.Name
			}
		}
	}
	return "Other"
}

// jobCategory 职位类别, 按优先级排列
type jobCategory struct {
	Name     string
	Keywords []string
}

var jobCategories = []jobCategory{
	{Name: "AI Engineer/NLP/CV", Keywords: []string{"ai engineer", "nlp", "computer vision"}},
	{Name: "Data/ML Engineer", Keywords: []string{
		"data scientist", "data engineer", "machine learning engineer", "ml engineer", "ml", "data"}},
	{Name: "Software/Developer", Keywords: []string{
		"software", "developer", "backend", "frontend", "full stack",
		"fullstack", "node", "node.js", "php", "nestjs", "java", "c#", "python",
		"ruby", "rails", "django", "flask", "angular", "react", "vue", "typescript", "javascript"}},
	{Name: "Manager/Director/VP", Keywords: []string{"manager", "director", "vp"}},
	{Name: "Sales", Keywords: []string{"sales", "representative"}},
	{Name: "Marketing/Social Media", Keywords: []string{"marketing", "social media"}},
	{Name: "Product/Designer", Keywords: []string{"product", "designer"}},
	{Name: "HR/Human Resources", Keywords: []string{"hr", "human resources"}},
	{Name: "Financial/Accountant", Keywords: []string{"financial", "accountant"}},
	{Name: "Project Manager", Keywords: []string{"project manager"}},
	{Name: "IT/Technical Support", Keywords: []string{"it", "support"}},
	{Name: "Operations/Supply Chain", Keywords: []string{"operations", "supply chain"}},
	{Name: "Customer Service/Receptionist", Keywords: []string{"customer service", "receptionist"}},
}

// CategorizeJobTitle 根据职位文本匹配类别, 不命中时归为Other
func CategorizeJobTitle(jobTitle string) string {
	text := strings.ToLower(jobTitle)
	for _, category := range jobCategories {
		for _, keyword := range category.Keywords {
			if strings.Contains(text, keyword) {
				return category.Name
			}
		}
	}
	return "Other"
}
