package types

// ParsedResume is the structured output of resume parsing.
type ParsedResume struct {
	Summary    string            `json:"summary"`
	Skills     []string          `json:"skills"`
	Experience []ResumeRole      `json:"experience"`
	Education  []ResumeEducation `json:"education"`
}

// ResumeRole is one position extracted from a resume.
type ResumeRole struct {
	Role       string   `json:"role"`
	Company    string   `json:"company"`
	Duration   string   `json:"duration,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

// ResumeEducation is one education entry extracted from a resume.
type ResumeEducation struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Year        string `json:"year,omitempty"`
}

// ParsedJobDescription is the structured output of job-description parsing.
type ParsedJobDescription struct {
	JobTitle         string   `json:"jobTitle"`
	Responsibilities []string `json:"responsibilities"`
	RequiredSkills   []string `json:"requiredSkills"`
	PreferredSkills  []string `json:"preferredSkills"`
	CompanyValues    []string `json:"companyValues"`
}

// RelevantExperience scores one resume role against a job description.
type RelevantExperience struct {
	Role             string   `json:"role"`
	Relevance        float64  `json:"relevance"`
	MatchingKeywords []string `json:"matchingKeywords"`
}

// ResumeAnalysis matches a resume against a job description.
type ResumeAnalysis struct {
	Skills             []string             `json:"skills"`
	MatchedSkills      []string             `json:"matchedSkills"`
	MissingSkills      []string             `json:"missingSkills"`
	RelevantExperience []RelevantExperience `json:"relevantExperience"`
}

// InterviewPrep holds generated interview preparation material.
type InterviewPrep struct {
	BehavioralQuestions []string `json:"behavioralQuestions"`
	TechnicalQuestions  []string `json:"technicalQuestions"`
	ClosingStatements   []string `json:"closingStatements"`
}

// STARBody is the structured body of one STAR-format answer.
type STARBody struct {
	Situation   string `json:"situation"`
	Task        string `json:"task"`
	Action      string `json:"action"`
	Result      string `json:"result"`
	ImpactPivot string `json:"impact_pivot"`
}

// STARAnswer pairs a question with its STAR-format answer.
type STARAnswer struct {
	Question string   `json:"question"`
	Answer   STARBody `json:"star_i_answer"`
}

// InterviewerProfile is the researched assessment of one interviewer.
type InterviewerProfile struct {
	Name            string `json:"name"`
	Title           string `json:"title"`
	CurrentCompany  string `json:"current_company"`
	LinkedInURL     string `json:"linkedin_url"`
	AssessmentNotes string `json:"assessment_notes"`
}
