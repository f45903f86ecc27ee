package main

import (
	"sort"
	"strings"
)

// Personalization seed weights
const (
	likedCourseSeed   = 3.0
	likedNeighborSeed = 1.0
	interestSeed      = 2.0
)

// profileSignals carries the personalization vector plus the signal
// sets needed later for tagging bonuses.
type profileSignals struct {
	personalization map[string]float64
	likedCourses    map[string]bool
	likedNeighbors  map[string]bool
	interestMatched map[string]bool
}

// adjustmentStep is one named multiplicative score adjustment. The
// steps are applied in slice order and each sets its tag when it fires,
// so the full bonus/penalty policy is a single reviewable list.
type adjustmentStep struct {
	tag     string
	factor  float64
	applies func(code string, course Course, ctx *adjustContext) bool
}

type adjustContext struct {
	signals     *profileSignals
	langPref    string
	avoidTokens map[string]bool
	tokensMap   map[string]map[string]bool
}

// scoreAdjustments is the fixed, order-significant bonus/penalty stack.
// The matched_interest factor is deliberately large so explicit
// interest overlap dominates pure graph centrality.
var scoreAdjustments = []adjustmentStep{
	{
		tag:    "liked_course",
		factor: 1.20,
		applies: func(code string, _ Course, ctx *adjustContext) bool {
			return ctx.signals.likedCourses[code]
		},
	},
	{
		tag:    "liked_neighbor",
		factor: 1.10,
		applies: func(code string, _ Course, ctx *adjustContext) bool {
			return ctx.signals.likedNeighbors[code] && !ctx.signals.likedCourses[code]
		},
	},
	{
		tag:    "matched_interest",
		factor: 2.0,
		applies: func(code string, _ Course, ctx *adjustContext) bool {
			return ctx.signals.interestMatched[code]
		},
	},
	{
		tag:    "language_bonus",
		factor: 1.05,
		applies: func(_ string, course Course, ctx *adjustContext) bool {
			return (ctx.langPref == "EN" || ctx.langPref == "IT") && course.Language == ctx.langPref
		},
	},
	{
		tag:    "avoid_penalty",
		factor: 0.70,
		applies: func(code string, _ Course, ctx *adjustContext) bool {
			return len(ctx.avoidTokens) > 0 && tokensIntersect(ctx.tokensMap[code], ctx.avoidTokens)
		},
	},
}

// buildProfileSignals seeds the personalization vector from liked
// courses (plus their neighbors, weighted by edge weight) and from
// interest/goal phrase overlap. Disliked courses are zeroed last, as a
// hard override of everything else.
func buildProfileSignals(graph Adjacency, profile StudentProfile, tokensMap map[string]map[string]bool) *profileSignals {
	personalization := make(map[string]float64, len(graph))
	for node := range graph {
		personalization[node] = 0.0
	}

	likedCourses := make(map[string]bool)
	for _, code := range profile.LikedCourses {
		if _, ok := graph[code]; ok {
			likedCourses[code] = true
		}
	}

	likedNeighbors := make(map[string]bool)
	for code := range likedCourses {
		personalization[code] += likedCourseSeed
		for nbr, w := range graph[code] {
			personalization[nbr] += likedNeighborSeed * w
			likedNeighbors[nbr] = true
		}
	}

	// Interests and goals share one query pool
	var querySets []map[string]bool
	for _, phrase := range append(append([]string{}, profile.Interests...), profile.Goals...) {
		if strings.TrimSpace(phrase) == "" {
			continue
		}
		q := TokenizePhrase(phrase)
		if len(q) > 0 {
			querySets = append(querySets, q)
		}
	}

	interestMatched := make(map[string]bool)
	if len(querySets) > 0 {
		for node := range graph {
			tokens := tokensMap[node]
			if len(tokens) == 0 {
				continue
			}

			score := 0.0
			for _, q := range querySets {
				score += tokenOverlapCoverage(tokens, q)
			}
			if score > 0 {
				personalization[node] += interestSeed * score
				interestMatched[node] = true
			}
		}
	}

	// Dislikes override every other contribution
	for _, code := range profile.DislikedCourses {
		if _, ok := personalization[code]; ok {
			personalization[code] = 0.0
		}
	}

	return &profileSignals{
		personalization: personalization,
		likedCourses:    likedCourses,
		likedNeighbors:  likedNeighbors,
		interestMatched: interestMatched,
	}
}

// buildAvoidTokens collects the tokens of all avoid phrases.
func buildAvoidTokens(profile StudentProfile) map[string]bool {
	result := make(map[string]bool)
	for _, phrase := range profile.Avoid {
		if strings.TrimSpace(phrase) == "" {
			continue
		}
		for token := range TokenizePhrase(phrase) {
			result[token] = true
		}
	}
	return result
}

// RankCourses ranks courses for a student profile using personalized
// PageRank plus the bonus/penalty stack in scoreAdjustments.
//
// Empty inputs yield an empty result. topK <= 0 returns the full
// filtered list. Output order is total and deterministic: score
// descending, code ascending.
func RankCourses(courses []Course, graph Adjacency, profile StudentProfile, topK int) []RankedCourse {
	if len(courses) == 0 || len(graph) == 0 {
		return []RankedCourse{}
	}

	codeToCourse := make(map[string]Course, len(courses))
	tokensMap := make(map[string]map[string]bool, len(courses))
	for _, c := range courses {
		if c.Code == "" {
			continue
		}
		codeToCourse[c.Code] = c
		tokensMap[c.Code] = CourseTokens(c.Name, c.Description)
	}

	signals := buildProfileSignals(graph, profile, tokensMap)

	// A profile with no actionable signal degrades to global relevance
	// through the engine's uniform-teleport fallback.
	scores := PersonalizedPagerank(graph, signals.personalization)

	langPref := strings.TrimSpace(strings.ToUpper(profile.LanguagePreference))
	if langPref == "" {
		langPref = "ANY"
	}

	disliked := make(map[string]bool, len(profile.DislikedCourses))
	for _, code := range profile.DislikedCourses {
		disliked[code] = true
	}

	ctx := &adjustContext{
		signals:     signals,
		langPref:    langPref,
		avoidTokens: buildAvoidTokens(profile),
		tokensMap:   tokensMap,
	}

	ranked := make([]RankedCourse, 0, len(codeToCourse))

	for code, course := range codeToCourse {
		baseScore, ok := scores[code]
		if !ok {
			continue
		}

		// Hard filters
		if course.Description == "" {
			continue
		}
		if langPref == "EN" || langPref == "IT" {
			// Unknown-language courses stay in; a different known
			// language is excluded outright.
			if course.Language != "" && course.Language != langPref && course.Language != "UNKNOWN" {
				continue
			}
		}
		if disliked[code] {
			continue
		}
		if baseScore <= 0.0 {
			continue
		}

		tags := make(map[string]bool)
		finalScore := baseScore
		for _, step := range scoreAdjustments {
			if step.applies(code, course, ctx) {
				tags[step.tag] = true
				finalScore *= step.factor
			}
		}

		ranked = append(ranked, RankedCourse{
			Code:       code,
			Name:       course.Name,
			Group:      course.Group,
			Language:   course.Language,
			CFU:        course.CFU,
			Score:      finalScore,
			ReasonTags: tags,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Code < ranked[j].Code
	})

	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}

	return ranked
}
