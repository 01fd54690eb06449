package mcts

import (
	"github.com/rs/zerolog/log"

	"github.com/chenyukang/gomoku/stats"
)

type StoppingCondition int

const (
	StopNone StoppingCondition = iota
	Stop95
	Stop98
	Stop99
)

// ParseStoppingCondition accepts none, 95, 98 or 99.
func ParseStoppingCondition(s string) (StoppingCondition, error) {
	switch s {
	case "", "none":
		return StopNone, nil
	case "95":
		return Stop95, nil
	case "98":
		return Stop98, nil
	case "99":
		return Stop99, nil
	}
	return StopNone, ErrBadStoppingCondition
}

func (sc StoppingCondition) z() float64 {
	switch sc {
	case Stop95:
		return stats.Z95
	case Stop98:
		return stats.Z98
	case Stop99:
		return stats.Z99
	}
	return 0
}

// winRate counts a draw as half a win for the player who moved into n.
func winRate(n *Node) stats.WinRate {
	return stats.WinRate{
		Successes: float64(n.wins) + float64(n.draws())/2,
		Trials:    float64(n.visits),
	}
}

// shouldStop is true once every root move has been tried and the most
// visited one is ahead of all the others with the given confidence.
func shouldStop(t *Tree, sc StoppingCondition) bool {
	if sc == StopNone {
		return false
	}
	root := t.node(0)
	if !root.fullyExpanded() || len(root.children) < 2 {
		return false
	}
	leader := t.mostVisited()
	z := sc.z()
	lw := winRate(t.node(leader))
	for _, cid := range root.children {
		if cid == leader {
			continue
		}
		if !stats.Separated(lw, winRate(t.node(cid)), z) {
			return false
		}
	}
	log.Debug().Int("leader", leader).Int("visits", root.visits).
		Msg("mcts-stopping-condition-met")
	return true
}
