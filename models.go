package main

import "time"

// Course structures
type Course struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	CFU         float64  `json:"cfu"`
	Semester    int      `json:"semester"`
	Language    string   `json:"language"`
	Group       string   `json:"group"`
	SSD         []string `json:"ssd"`
	Description string   `json:"description,omitempty"`
}

// Student profile structures
//
// Every field is optional: a missing field contributes nothing to the
// ranking signals, so zero values are always safe.
type StudentProfile struct {
	Interests               []string `json:"interests,omitempty"`
	Goals                   []string `json:"goals,omitempty"`
	Avoid                   []string `json:"avoid,omitempty"`
	LanguagePreference      string   `json:"language_preference,omitempty"`
	WorkloadTolerance       string   `json:"workload_tolerance,omitempty"`
	PreferredExamTypes      []string `json:"preferred_exam_types,omitempty"`
	LikedCourses            []string `json:"liked_courses,omitempty"`
	DislikedCourses         []string `json:"disliked_courses,omitempty"`
	ReadyForRecommendations bool     `json:"ready_for_recommendations,omitempty"`
}

// Ranking output structures
type RankedCourse struct {
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Group      string          `json:"group"`
	Language   string          `json:"language"`
	CFU        float64         `json:"cfu"`
	Score      float64         `json:"score"`
	ReasonTags map[string]bool `json:"reason_tags"`
}

// Graph view structures for visualization
type GraphNode struct {
	Code          string  `json:"code"`
	Label         string  `json:"label"`
	Score         float64 `json:"score"`
	IsRecommended bool    `json:"is_recommended"`
	Group         string  `json:"group,omitempty"`
}

type EdgeReason struct {
	Type         string  `json:"type"`
	Value        string  `json:"value"`
	Contribution float64 `json:"contribution"`
}

type GraphEdge struct {
	Source   string       `json:"source"`
	Target   string       `json:"target"`
	Weight   float64      `json:"weight"`
	Concepts []string     `json:"concepts"`
	Reasons  []EdgeReason `json:"reasons"`
}

type GraphView struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Chat structures
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages       []ChatMessage   `json:"messages"`
	CurrentProfile *StudentProfile `json:"current_profile,omitempty"`
	TopK           int             `json:"top_k,omitempty"`
}

type CourseRecommendation struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Score       float64  `json:"score"`
	Group       string   `json:"group,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	CFU         float64  `json:"cfu"`
	Semester    int      `json:"semester"`
	Language    string   `json:"language"`
	ReasonTags  []string `json:"reason_tags"`
}

type ChatResponse struct {
	Reply           string                 `json:"reply"`
	UpdatedProfile  StudentProfile         `json:"updated_profile"`
	Recommendations []CourseRecommendation `json:"recommendations"`
	GraphView       *GraphView             `json:"graph_view,omitempty"`
	RunID           string                 `json:"run_id,omitempty"`
}

// Rank endpoint structures
type RankRequest struct {
	Profile StudentProfile `json:"profile"`
	TopK    int            `json:"top_k,omitempty"`
}

// Run record structures
type RunRecord struct {
	RunID     string     `json:"run_id"`
	Timestamp time.Time  `json:"timestamp"`
	Payload   RunPayload `json:"payload"`
}

type RunPayload struct {
	Profile         StudentProfile         `json:"profile"`
	TopK            int                    `json:"top_k"`
	Recommendations []CourseRecommendation `json:"recommendations"`
	GraphView       *GraphView             `json:"graph_view,omitempty"`
}

// Graph statistics exposed by the stats endpoint
type GraphStatsResponse struct {
	Nodes     int     `json:"nodes"`
	Edges     int     `json:"edges"`
	AvgDegree float64 `json:"avg_degree"`
}
