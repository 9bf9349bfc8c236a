package model

// Step is one ordered instruction of a booklet
type Step struct {
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
}

// Resource is an external link attached to a booklet
type Resource struct {
	Title string `json:"title" bson:"title"`
	URL   string `json:"url" bson:"url"`
}

// BookletContent holds the guidance sections
type BookletContent struct {
	Summary   string     `json:"summary" bson:"summary"`
	Problem   string     `json:"problem" bson:"problem"`
	Solution  string     `json:"solution" bson:"solution"`
	Steps     []Step     `json:"steps" bson:"steps"`
	Tips      []string   `json:"tips" bson:"tips"`
	Warnings  []string   `json:"warnings,omitempty" bson:"warnings,omitempty"`
	Resources []Resource `json:"resources,omitempty" bson:"resources,omitempty"`
}

// BookletMetadata describes the effort a booklet asks for
type BookletMetadata struct {
	EstimatedTime   string `json:"estimatedTime" bson:"estimatedTime"`
	Difficulty      string `json:"difficulty" bson:"difficulty"` // easy, medium, hard
	ExpectedOutcome string `json:"expectedOutcome" bson:"expectedOutcome"`
}

// Booklet is a structured guidance document bound to one tag
type Booklet struct {
	ID          string          `json:"id" bson:"id"`
	Tag         string          `json:"tag" bson:"tag"`
	Title       string          `json:"title" bson:"title"`
	Description string          `json:"description" bson:"description"`
	Content     BookletContent  `json:"content" bson:"content"`
	Metadata    BookletMetadata `json:"metadata" bson:"metadata"`
}
