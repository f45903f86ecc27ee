package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Offline evaluation mode: rank a set of predefined student profiles
// against the current catalog and write a Markdown report, so tuning
// changes to the graph weights or bonus stack can be reviewed by eye.

type evalScenario struct {
	Scenario string         `json:"scenario"`
	Profile  StudentProfile `json:"profile"`
}

type evalResult struct {
	Scenario        string
	Profile         StudentProfile
	Recommendations []RankedCourse
}

// RunEvaluation ranks every scenario in the eval profiles file and
// writes the report to the configured reports directory.
func RunEvaluation(cfg *Config, snap *Snapshot, topK int, logger zerolog.Logger) error {
	data, err := os.ReadFile(cfg.EvalProfiles)
	if err != nil {
		return fmt.Errorf("read eval profiles: %w", err)
	}

	var scenarios []evalScenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return fmt.Errorf("parse eval profiles: %w", err)
	}

	results := make([]evalResult, 0, len(scenarios))
	for _, sc := range scenarios {
		ranked := RankCourses(snap.Courses, snap.Graph, sc.Profile, topK)
		results = append(results, evalResult{
			Scenario:        sc.Scenario,
			Profile:         sc.Profile,
			Recommendations: ranked,
		})
		logger.Info().
			Str("scenario", sc.Scenario).
			Int("results", len(ranked)).
			Msg("scenario evaluated")
	}

	if err := os.MkdirAll(cfg.ReportsDir, 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	report := generateMarkdownReport(results, topK)
	outPath := filepath.Join(cfg.ReportsDir,
		fmt.Sprintf("evaluation_%s.md", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(outPath, []byte(report), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.Info().Str("path", outPath).Int("scenarios", len(results)).Msg("evaluation report written")
	return nil
}

func generateMarkdownReport(results []evalResult, topK int) string {
	var md strings.Builder

	md.WriteString("# Course Advisor Evaluation Report\n\n")
	md.WriteString(fmt.Sprintf("Generated on: %s\n", time.Now().Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("Parameters: top_k=%d\n\n", topK))

	for _, res := range results {
		md.WriteString(fmt.Sprintf("## Scenario: %s\n", res.Scenario))
		md.WriteString("**Profile Summary:**\n")
		md.WriteString(fmt.Sprintf("- **Interests:** %s\n", joinOrNone(res.Profile.Interests)))
		md.WriteString(fmt.Sprintf("- **Goals:** %s\n", joinOrNone(res.Profile.Goals)))
		md.WriteString(fmt.Sprintf("- **Avoid:** %s\n", joinOrNone(res.Profile.Avoid)))

		langPref := res.Profile.LanguagePreference
		if langPref == "" {
			langPref = "ANY"
		}
		md.WriteString(fmt.Sprintf("- **Lang Pref:** %s\n\n", langPref))

		md.WriteString("| # | Code | Name | Group | Lang | Score | Why? |\n")
		md.WriteString("|---|------|------|-------|------|-------|------|\n")

		for idx, rec := range res.Recommendations {
			tags := reasonTagList(rec.ReasonTags)
			tagsStr := "-"
			if len(tags) > 0 {
				tagsStr = strings.Join(tags, ", ")
			}
			md.WriteString(fmt.Sprintf(
				"| %d | %s | %s | %s | %s | %.4f | %s |\n",
				idx+1, rec.Code, rec.Name, rec.Group, rec.Language, rec.Score, tagsStr,
			))
		}

		md.WriteString("\n---\n\n")
	}

	return md.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
