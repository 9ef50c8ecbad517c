package evaluation

import (
	"fmt"
	"io"
	"time"
)

// Verdict classifies one item's reading against its label.
type Verdict string

const (
	VerdictCorrect       Verdict = "correct"
	VerdictMisread       Verdict = "misread"
	VerdictMissed        Verdict = "missed"
	VerdictFalsePositive Verdict = "false_positive"
	// VerdictRejected is a photo without a tag that correctly produced none.
	VerdictRejected Verdict = "rejected"
	VerdictFailed   Verdict = "failed"
)

// Classify compares a reading with the expected tag.
func Classify(expected, got string, found bool) Verdict {
	switch {
	case expected == "" && !found:
		return VerdictRejected
	case expected == "":
		return VerdictFalsePositive
	case !found:
		return VerdictMissed
	case got == expected:
		return VerdictCorrect
	default:
		return VerdictMisread
	}
}

// ItemResult is the outcome of evaluating one dataset item.
type ItemResult struct {
	ID        string        `yaml:"id"`
	Image     string        `yaml:"image"`
	Expected  string        `yaml:"expected"`
	Got       string        `yaml:"got"`
	Verdict   Verdict       `yaml:"verdict"`
	Fragments []string      `yaml:"fragments,omitempty"`
	Duration  time.Duration `yaml:"duration"`
	Error     string        `yaml:"error,omitempty"`
}

// Summary aggregates a run.
type Summary struct {
	Total          int           `yaml:"total"`
	Correct        int           `yaml:"correct"`
	Misread        int           `yaml:"misread"`
	Missed         int           `yaml:"missed"`
	FalsePositives int           `yaml:"false_positives"`
	Rejected       int           `yaml:"rejected"`
	Failed         int           `yaml:"failed"`
	Accuracy       float64       `yaml:"accuracy"`
	MeanDuration   time.Duration `yaml:"mean_duration"`
}

// Summarize counts verdicts. Accuracy is the share of evaluated (non-failed)
// items that were read correctly or correctly rejected.
func Summarize(results []ItemResult) Summary {
	s := Summary{Total: len(results)}
	var total time.Duration
	for _, r := range results {
		switch r.Verdict {
		case VerdictCorrect:
			s.Correct++
		case VerdictMisread:
			s.Misread++
		case VerdictMissed:
			s.Missed++
		case VerdictFalsePositive:
			s.FalsePositives++
		case VerdictRejected:
			s.Rejected++
		default:
			s.Failed++
			continue
		}
		total += r.Duration
	}

	evaluated := s.Total - s.Failed
	if evaluated > 0 {
		s.Accuracy = float64(s.Correct+s.Rejected) / float64(evaluated)
		s.MeanDuration = total / time.Duration(evaluated)
	}
	return s
}

// PrintSummary writes a human-readable summary to w.
func PrintSummary(w io.Writer, s Summary) {
	fmt.Fprintln(w, "\n========================================")
	fmt.Fprintln(w, "Evaluation Summary")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Total Items:        %d\n", s.Total)
	fmt.Fprintf(w, "Correct:            %d\n", s.Correct)
	fmt.Fprintf(w, "Misread:            %d\n", s.Misread)
	fmt.Fprintf(w, "Missed:             %d\n", s.Missed)
	fmt.Fprintf(w, "False Positives:    %d\n", s.FalsePositives)
	fmt.Fprintf(w, "Rejected:           %d\n", s.Rejected)
	fmt.Fprintf(w, "Failed:             %d\n", s.Failed)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Accuracy:           %.2f%%\n", s.Accuracy*100)
	fmt.Fprintf(w, "Mean Duration:      %s\n", s.MeanDuration.Round(time.Millisecond))
	fmt.Fprintln(w, "========================================")
}
