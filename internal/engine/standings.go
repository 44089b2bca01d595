package engine

import "sort"

type Result struct {
	ID          string
	DisplayName string
	WPM         float64
	Progress    int
}

type Standings struct {
	Results []Result // best WPM first
	Tie     bool
	Winner  string // empty on a tie
}

// Rank orders participants by descending WPM. Equal WPMs keep join order.
func Rank(participants []*Participant) Standings {
	results := make([]Result, 0, len(participants))
	for _, p := range participants {
		results = append(results, Result{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			WPM:         p.WPM,
			Progress:    p.Progress,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].WPM > results[j].WPM
	})

	s := Standings{Results: results}
	if len(results) > 1 && results[0].WPM == results[1].WPM {
		s.Tie = true
	} else if len(results) > 0 {
		s.Winner = results[0].ID
	}
	return s
}
