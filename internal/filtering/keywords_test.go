package filtering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesKeywords(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		include []string
		exclude []string
		want    bool
	}{
		{"exclude wins over include", "Senior Java Engineer", []string{"java"}, []string{"senior"}, false},
		{"include match", "Java Developer", []string{"java"}, nil, true},
		{"no include match", "Node Developer", []string{"java"}, nil, false},
		{"case insensitive title", "BACKEND ENGINEER", []string{"backend"}, nil, true},
		{"case insensitive terms", "Python Engineer", []string{"Python"}, []string{"Staff"}, true},
		{"any include term", "Full Stack Developer", []string{"java", "full stack"}, nil, true},
		{"empty include fails closed", "Java Developer", nil, nil, false},
		{"blank include terms ignored", "Java Developer", []string{"", "  "}, nil, false},
		{"blank exclude terms ignored", "Java Developer", []string{"java"}, []string{""}, true},
		{"substring match", "JavaScript Engineer", []string{"java"}, nil, true},
		{"padded include term keeps its spaces", "Google Engineer", []string{" go "}, nil, false},
		{"padded include term matches a word", "Senior Go Developer", []string{" go "}, nil, true},
		{"padded exclude term keeps its spaces", "Java Engineer", []string{"java"}, []string{"engineer "}, true},
		{"padded exclude term matches mid title", "Java Engineer II", []string{"java"}, []string{"engineer "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesKeywords(tt.title, tt.include, tt.exclude))
		})
	}
}

func TestKeywordFilter_Reusable(t *testing.T) {
	f := NewKeywordFilter([]string{"software engineer"}, []string{"manager", "intern"})

	assert.True(t, f.Match("Software Engineer II"))
	assert.False(t, f.Match("Software Engineer Intern"))
	assert.False(t, f.Match("Engineering Manager"))
	assert.True(t, f.Match("Software Engineer II"))
}
