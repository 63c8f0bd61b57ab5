// Package relevance ranks stored projects against an analyzed job posting.
// The score is deterministic and explainable: it is computed here, never by
// the model.
package relevance

import (
	"sort"
	"strings"

	"github.com/jonathan/proposal-agent/internal/types"
)

// Scoring weights. These are load-bearing for compatibility: existing run
// records were produced with them.
const (
	techOverlapWeight  = 10.0
	verticalMatchBonus = 15.0
	keywordMatchWeight = 5.0
)

// TopK is how many projects are surfaced as proof-of-work per job.
const TopK = 3

// Score ranks every project against the analysis and returns the top-K by
// descending score. Ties keep the store's original order. An empty store
// yields an empty list, never an error.
func Score(analysis *types.JobAnalysis, projects []types.Project) []types.ScoredProject {
	scored := make([]types.ScoredProject, 0, len(projects))
	for _, project := range projects {
		scored = append(scored, types.ScoredProject{
			Project: project,
			Score:   scoreProject(analysis, &project),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > TopK {
		scored = scored[:TopK]
	}
	return scored
}

func scoreProject(analysis *types.JobAnalysis, project *types.Project) float64 {
	score := 0.0

	// Tech overlap: case-insensitive set intersection between the project's
	// tags and the job's stack.
	projectTechs := lowerSet(project.TechTags)
	jobTechs := lowerSet(analysis.TechStack)
	overlap := 0
	for tech := range projectTechs {
		if jobTechs[tech] {
			overlap++
		}
	}
	score += techOverlapWeight * float64(overlap)

	// Vertical match: flat bonus when the project's vertical appears
	// anywhere in the space-joined pain points.
	if project.Vertical != "" {
		painText := strings.ToLower(strings.Join(analysis.PainPoints, " "))
		if strings.Contains(painText, strings.ToLower(project.Vertical)) {
			score += verticalMatchBonus
		}
	}

	// Keyword match: one increment per pain point found in the project's
	// description + outcomes text.
	projectText := strings.ToLower(project.Description + " " + project.Outcomes)
	for _, pain := range analysis.PainPoints {
		if strings.Contains(projectText, strings.ToLower(pain)) {
			score += keywordMatchWeight
		}
	}

	return score
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = true
	}
	return set
}
