package correction

import "time"

// CompetencyCount is the number of scored competencies in the ENEM rubric.
const CompetencyCount = 5

// MaxFinalScore is the top of the final score scale.
const MaxFinalScore = 1000

// MaxCompetencyScore is the top of the per-competency scale.
const MaxCompetencyScore = 200

// Competency is one scored rubric competency with its feedback.
type Competency struct {
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// Result is a full grading of one essay. Produced by the oracle client,
// immutable once produced.
type Result struct {
	FinalScore         int          `json:"finalScore"`
	Competencies       []Competency `json:"competencies"`
	GeneralSuggestions string       `json:"generalSuggestions"`
	// Theme is the main theme the grader identified. May be empty when
	// the grader could not identify one.
	Theme string `json:"theme"`
}

// Record is one persisted correction. Owned by exactly one user,
// created once, never mutated.
type Record struct {
	ID         string
	OwnerID    string
	EssayText  string
	Correction Result
	// CreatedAt is assigned by the store at commit time. The zero value
	// means the timestamp is still pending.
	CreatedAt time.Time
}
