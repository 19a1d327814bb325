package service

import (
	"regexp"

	"property-assistant/internal/model"
)

var (
	detailTrigger   = regexp.MustCompile(`\b(show|tell me about|details|info)\b`)
	compareTrigger  = regexp.MustCompile(`\b(compare|vs|better|difference)\b`)
	decisionTrigger = regexp.MustCompile(`\b(contact|visit|schedule|buy|book)\b`)
)

// stageRank orders stages so transitions can only move forward
var stageRank = map[model.Stage]int{
	model.StageDiscovery:  0,
	model.StageEvaluation: 1,
	model.StageDecision:   2,
}

// NextStage computes the stage after a query. viewed is the number of
// properties surfaced before this turn. Triggers are checked in order
// (detail, compare, decision) and the last match wins, but the stage never
// moves backwards; only a session reset returns to discovery.
func NextStage(current model.Stage, queryLower string, viewed int) model.Stage {
	next := current

	if detailTrigger.MatchString(queryLower) && viewed > 2 {
		next = model.StageEvaluation
	}
	if compareTrigger.MatchString(queryLower) {
		next = model.StageEvaluation
	}
	if decisionTrigger.MatchString(queryLower) {
		next = model.StageDecision
	}

	if stageRank[next] < stageRank[current] {
		return current
	}
	return next
}
