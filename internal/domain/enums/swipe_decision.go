package enums

import (
	"fmt"
	"strings"
)

type SwipeDecision string

const (
	SwipeDecisionLike    SwipeDecision = "like"
	SwipeDecisionDislike SwipeDecision = "dislike"
)

func ParseSwipeDecision(input string) (SwipeDecision, error) {
	switch SwipeDecision(strings.ToLower(strings.TrimSpace(input))) {
	case SwipeDecisionLike:
		return SwipeDecisionLike, nil
	case SwipeDecisionDislike:
		return SwipeDecisionDislike, nil
	default:
		return "", fmt.Errorf("unknown swipe decision %q", input)
	}
}
