package types

import "encoding/json"

// Education 学历信息，由LLM从简历文本中解析得到
type Education struct {
	Degree     string `json:"degree"`
	University string `json:"university"`
	Major      string `json:"major"`
}

// ParsedResume 简历解析结果
// 每次分析请求生成一份，创建后不再修改
type ParsedResume struct {
	Summary         string      `json:"summary"`
	Skills          []string    `json:"skills"`
	Education       Education   `json:"education"`
	Certifications  []string    `json:"certifications"`
	Languages       []string    `json:"languages"`
	Location        string      `json:"location"`
	ExperienceYears json.Number `json:"experience_years"`
}

// AnalyzeResponse /analyze 接口的响应结构
type AnalyzeResponse struct {
	ParserOutput             ParsedResume `json:"parser_output"`
	Email                    string       `json:"email"`
	Phone                    string       `json:"phone"`
	EstimatedExperienceYears float64      `json:"estimated_experience_years"`
	SubmissionUUID           string       `json:"submission_uuid,omitempty"`
}

// JobPosting 待匹配岗位，仅作为请求输入
type JobPosting struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	RequiredSkills     []string `json:"requiredSkills"`
	RequiredEducation  []string `json:"requiredEducation"`
	RequiredExperience float64  `json:"requiredExperience"`
}

// ScoredJob 排序结果，只存在于响应中
type ScoredJob struct {
	JobID      string  `json:"jobId"`
	FinalScore float64 `json:"final_score"`
}

// SimilarityRequest /get-similarity 的请求体
// resume_experience 兼容两种形式: 数字, 或形如 ["Worked 3 years ago"] 的字符串数组
type SimilarityRequest struct {
	ResumeText       string          `json:"resume_text"`
	ResumeEmbedding  []float64       `json:"resume_embedding,omitempty"`
	ResumeSkills     []string        `json:"resume_skills"`
	ResumeEducation  []string        `json:"resume_education"`
	ResumeExperience json.RawMessage `json:"resume_experience,omitempty"`
	Jobs             []JobPosting    `json:"jobs"`
}

// SalaryRequest /predict-salary 的请求体
// 同时兼容旧版字段 (age/education/experience_years/skills)
type SalaryRequest struct {
	CandidateSkills     []string        `json:"candidate_skills"`
	JobRequiredSkills   []string        `json:"job_required_skills"`
	CandidateEducation  json.RawMessage `json:"candidate_education,omitempty"`
	CandidateExperience json.Number     `json:"candidate_experience,omitempty"`
	JobTitle            string          `json:"job_title"`

	// 旧版字段
	Age             json.Number `json:"age,omitempty"`
	Education       string      `json:"education,omitempty"`
	ExperienceYears json.Number `json:"experience_years,omitempty"`
	Skills          []string    `json:"skills,omitempty"`
}

// SalaryResponse /predict-salary 的响应体
type SalaryResponse struct {
	EstimatedSalary float64  `json:"estimated_salary"`
	MonthlySalary   float64  `json:"monthly_salary"`
	JobCategory     string   `json:"job_category"`
	MatchedSkills   []string `json:"matched_skills"`
	SimilarityScore float64  `json:"similarity_score"`
}

// AcceptanceRequest /predict-acceptance 的请求体
type AcceptanceRequest struct {
	CandidateSkills   []string `json:"candidate_skills"`
	JobTitle          string   `json:"job_title"`
	JobRequiredSkills []string `json:"job_required_skills"`
	JobDescription    string   `json:"job_description"`
}

// AcceptanceResponse /predict-acceptance 的响应体
type AcceptanceResponse struct {
	AcceptanceScore float64  `json:"acceptance_score"`
	MatchedSkills   []string `json:"matched_skills"`
}

// EmbeddingRequest /get-embedding 的请求体
// Mode 为 "mean"(默认, 返回均值池化后的单一向量) 或 "matrix"(逐条返回)
type EmbeddingRequest struct {
	Texts []string `json:"texts"`
	Mode  string   `json:"mode,omitempty"`
}

// EmbeddingResponse /get-embedding 的响应体
type EmbeddingResponse struct {
	Embedding  []float64   `json:"embedding,omitempty"`
	Embeddings [][]float64 `json:"embeddings,omitempty"`
}
