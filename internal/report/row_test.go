package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		index  int
		text   string
		kind   Kind
		path   string
		equals bool
		dashes bool
	}{
		{"banner rule", 0, "=====================================", KindSeparator, "", true, false},
		{"header", 1, " Language   Files   Lines   Code", KindHeader, "", false, false},
		{"header wins over rule", 1, "==========", KindHeader, "", false, false},
		{"data", 5, " src/app.py    120    80    30    10", KindData, "src/app.py", false, false},
		{"data nested", 6, " src/pkg/mod/x.go          7     5     1     1", KindData, "src/pkg/mod/x.go", false, false},
		{"dash rule", 3, "-------------------------------------", KindSeparator, "", false, true},
		{"both rules", 4, "==========----------", KindSeparator, "", true, true},
		{"short rule", 4, "=========", KindOther, "", false, false},
		{"language row", 2, " Python        2     120    80", KindOther, "", false, false},
		{"two leading spaces", 7, "  src/app.py    1    1    0    0", KindOther, "", false, false},
		{"total", 9, " Total         2     120    80", KindOther, "", false, false},
		{"blank", 10, "", KindOther, "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Classify(tt.index, tt.text, "src")
			assert.Equal(t, tt.kind, row.Kind)
			assert.Equal(t, tt.path, row.Path)
			assert.Equal(t, tt.equals, row.Equals)
			assert.Equal(t, tt.dashes, row.Dashes)
			assert.False(t, row.Malformed)
			assert.Equal(t, tt.text, row.Text)
			assert.Equal(t, tt.index, row.Index)
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	a := Classify(4, " src/a.py  1  1  0  0", "src")
	b := Classify(4, " src/a.py  1  1  0  0", "src")
	assert.Equal(t, a, b)
}

func TestClassifyMalformedDataRow(t *testing.T) {
	row := Classify(3, "    12    3", "")
	assert.Equal(t, KindData, row.Kind)
	assert.True(t, row.Malformed)
	assert.Empty(t, row.Path)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "header", KindHeader.String())
	assert.Equal(t, "data", KindData.String())
	assert.Equal(t, "separator", KindSeparator.String())
	assert.Equal(t, "other", KindOther.String())
}

func TestFormatField(t *testing.T) {
	assert.Equal(t, "         Logs", formatField("Logs"))
	assert.Equal(t, "            3", formatCount(3))
	assert.Equal(t, "ThirteenChars", formatField("ThirteenChars"))
	assert.Equal(t, "nFourteenChar", formatField("AnFourteenChar"))
	assert.Len(t, formatField("ALongInsightNameHere"), FieldWidth)
	assert.Equal(t, "   日本語ログ", formatField("日本語ログ"))
}
