package main

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// AdvisorService glues the snapshot, ranking pipeline, LLM client and
// run store into the request-facing operations. It holds no mutable
// recommendation state besides the bounded ranking cache.
type AdvisorService struct {
	holder *SnapshotHolder
	llm    *LLMClient
	runs   *RunStore
	logger zerolog.Logger

	cacheMu sync.Mutex
	cache   *RankingCache
}

func NewAdvisorService(holder *SnapshotHolder, llm *LLMClient, runs *RunStore, logger zerolog.Logger) *AdvisorService {
	return &AdvisorService{
		holder: holder,
		llm:    llm,
		runs:   runs,
		logger: logger.With().Str("component", "advisor").Logger(),
		cache:  NewRankingCache(128),
	}
}

// Rank ranks the catalog for a profile, with a cache keyed on the
// canonical profile + parameters.
func (s *AdvisorService) Rank(profile StudentProfile, topK int) ([]RankedCourse, error) {
	snap, err := s.holder.Load()
	if err != nil {
		return nil, err
	}

	key := ProfileCacheKey(profile, topK)

	s.cacheMu.Lock()
	cached := s.cache.Get(key)
	s.cacheMu.Unlock()
	if cached != nil {
		rankingCacheHits.Inc()
		return cached, nil
	}

	start := time.Now()
	ranked := RankCourses(snap.Courses, snap.Graph, profile, topK)
	rankingDuration.Observe(time.Since(start).Seconds())
	rankingRequests.Inc()

	s.cacheMu.Lock()
	s.cache.Set(key, ranked)
	s.cacheMu.Unlock()

	return ranked, nil
}

// Chat runs one advisor turn: extract/merge the profile from the
// conversation, generate the natural-language reply, and when the
// profile is ready, attach recommendations, per-course explanations, a
// graph view and a persisted run id.
func (s *AdvisorService) Chat(req ChatRequest) (*ChatResponse, error) {
	snap, err := s.holder.Load()
	if err != nil {
		return nil, err
	}

	topK := req.TopK
	if topK <= 0 {
		topK = 5
	}

	profile := s.llm.ExtractProfile(req.Messages, req.CurrentProfile)

	reply, err := s.llm.GenerateReply(req.Messages)
	if err != nil {
		s.logger.Warn().Err(err).Msg("reply generation failed")
		reply = "Sorry, I could not generate a reply right now. You can still ask for recommendations."
	}

	response := &ChatResponse{
		Reply:          reply,
		UpdatedProfile: profile,
	}

	if !profile.ReadyForRecommendations {
		return response, nil
	}

	ranked, err := s.Rank(profile, topK)
	if err != nil {
		return nil, err
	}

	recs := make([]CourseRecommendation, 0, len(ranked))
	recCodes := make([]string, 0, len(ranked))
	for _, rc := range ranked {
		course := snap.ByCode[rc.Code]
		recs = append(recs, CourseRecommendation{
			Code:       rc.Code,
			Name:       rc.Name,
			Score:      rc.Score,
			Group:      rc.Group,
			CFU:        rc.CFU,
			Semester:   course.Semester,
			Language:   rc.Language,
			ReasonTags: reasonTagList(rc.ReasonTags),
		})
		recCodes = append(recCodes, rc.Code)
	}

	for code, explanation := range s.llm.GenerateExplanations(profile, recs) {
		for i := range recs {
			if recs[i].Code == code {
				recs[i].Explanation = explanation
			}
		}
	}
	response.Recommendations = recs

	view := BuildGraphView(
		recCodes, snap.Graph, snap.Courses, snap.GlobalPagerank,
		DefaultMaxNeighborsPerNode, DefaultNodeCap, DefaultEdgeCap,
	)
	response.GraphView = &view

	if s.runs != nil {
		runID, err := s.runs.CreateRun(RunPayload{
			Profile:         profile,
			TopK:            topK,
			Recommendations: recs,
			GraphView:       &view,
		})
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to persist run")
		} else {
			response.RunID = runID
		}
	}

	return response, nil
}

// View builds a bounded visualization subgraph for a recommended set.
func (s *AdvisorService) View(recommendedCodes []string, maxNeighbors, nodeCap, edgeCap int) (*GraphView, error) {
	snap, err := s.holder.Load()
	if err != nil {
		return nil, err
	}
	view := BuildGraphView(recommendedCodes, snap.Graph, snap.Courses, snap.GlobalPagerank, maxNeighbors, nodeCap, edgeCap)
	return &view, nil
}

// reasonTagList flattens the tag map into a sorted-stable list of the
// tags that fired, in adjustment order.
func reasonTagList(tags map[string]bool) []string {
	out := make([]string, 0, len(tags))
	for _, step := range scoreAdjustments {
		if tags[step.tag] {
			out = append(out, step.tag)
		}
	}
	return out
}
