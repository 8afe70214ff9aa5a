package comments_test

import (
	"testing"

	"github.com/nkxxll/ruff/pkg/comments"
	"github.com/nkxxll/ruff/pkg/pyast"
)

func TestFmtSentinels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text    string
		wantOff bool
		wantOn  bool
	}{
		{text: "# fmt: off", wantOff: true},
		{text: "# fmt:off", wantOff: true},
		{text: "#fmt: off", wantOff: true},
		{text: "# fmt: on", wantOn: true},
		{text: "# fmt:on", wantOn: true},
		{text: "# fmt: offline"},
		{text: "# fmt off"},
		{text: "# format: off"},
		{text: "# plain comment"},
		{text: "#"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := comments.IsFmtOff([]byte(tt.text)); got != tt.wantOff {
				t.Errorf("IsFmtOff(%q) = %v, want %v", tt.text, got, tt.wantOff)
			}
			if got := comments.IsFmtOn([]byte(tt.text)); got != tt.wantOn {
				t.Errorf("IsFmtOn(%q) = %v, want %v", tt.text, got, tt.wantOn)
			}
		})
	}
}

// sentinelList builds an own-line comment list from texts laid out
// back to back in a synthetic source buffer.
func sentinelList(texts []string, eol bool) ([]comments.Comment, []byte) {
	var source []byte
	var list []comments.Comment
	for _, text := range texts {
		start := len(source)
		source = append(source, text...)
		source = append(source, '\n')
		pos := comments.PositionOwnLine
		if eol {
			pos = comments.PositionEndOfLine
		}
		list = append(list, comments.Comment{
			Span:     pyast.Span{Start: start, End: start + len(text)},
			Position: pos,
		})
	}
	return list, source
}

func TestStartsSuppression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		texts []string
		want  bool
	}{
		{name: "no comments", texts: nil, want: false},
		{name: "off", texts: []string{"# fmt: off"}, want: true},
		{name: "off then on", texts: []string{"# fmt: off", "# fmt: on"}, want: false},
		{name: "on then off", texts: []string{"# fmt: on", "# fmt: off"}, want: true},
		{name: "plain comments", texts: []string{"# a", "# b"}, want: false},
		{name: "off among plain", texts: []string{"# a", "# fmt: off", "# b"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, source := sentinelList(tt.texts, false)
			if got := comments.StartsSuppression(list, source); got != tt.want {
				t.Errorf("StartsSuppression = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEndsSuppression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		texts []string
		want  bool
	}{
		{name: "no comments", texts: nil, want: false},
		{name: "on", texts: []string{"# fmt: on"}, want: true},
		{name: "on then off", texts: []string{"# fmt: on", "# fmt: off"}, want: false},
		{name: "off then on", texts: []string{"# fmt: off", "# fmt: on"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, source := sentinelList(tt.texts, false)
			if got := comments.EndsSuppression(list, source); got != tt.want {
				t.Errorf("EndsSuppression = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSuppressionIgnoresEndOfLineSentinels(t *testing.T) {
	t.Parallel()

	// Only own-line sentinels drive suppression.
	list, source := sentinelList([]string{"# fmt: off"}, true)
	if comments.StartsSuppression(list, source) {
		t.Error("an end-of-line sentinel must not start suppression")
	}
}
