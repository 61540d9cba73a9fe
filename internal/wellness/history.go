package wellness

// HistoryLen is the number of scores kept for the dashboard chart.
const HistoryLen = 7

// TodayLabel marks the most recent score.
const TodayLabel = "Today"

// HistoryEntry is one point on the dashboard chart.
type HistoryEntry struct {
	Label string `json:"label"`
	Score int    `json:"score"`
}

// History is a rolling window of recent scores, oldest first.
type History []HistoryEntry

// Push appends today's score and keeps only the last HistoryLen entries.
// The receiver is not modified.
func (h History) Push(score int) History {
	out := make(History, 0, len(h)+1)
	out = append(out, h...)
	out = append(out, HistoryEntry{Label: TodayLabel, Score: score})
	if len(out) > HistoryLen {
		out = out[len(out)-HistoryLen:]
	}
	return out
}

// Labels returns the chart labels. The last one always reads TodayLabel.
func (h History) Labels() []string {
	labels := make([]string, len(h))
	for i, e := range h {
		labels[i] = e.Label
	}
	if len(labels) > 0 {
		labels[len(labels)-1] = TodayLabel
	}
	return labels
}

// Scores returns the chart values in order.
func (h History) Scores() []int {
	scores := make([]int, len(h))
	for i, e := range h {
		scores[i] = e.Score
	}
	return scores
}
