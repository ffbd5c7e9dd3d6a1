package plotstyle

import (
	"encoding/json"
	"testing"

	"github.com/nalgeon/be"
)

func TestTokenize(t *testing.T) {
	t.Parallel()
	const text = "  description = \"Plain pens\"  \r\n" +
		"\r\n" +
		"aci_table{\r\n" +
		"1=Red\r\n" +
		"}\r\n" +
		"this line is ignored\n" +
		"=orphan\n" +
		"1{\n" +
		"lineweight=5\n" +
		"url=a=b\n" +
		"quoted=\"x\n" +
		"empty=\n" +
		"}\n" +
		"after=global\n"
	tb := tokenize(text)
	be.Equal(t, tb.globals.Keys(), []string{"description", "after"})
	v, _ := tb.globals.Get("description")
	be.Equal(t, v, "Plain pens")

	props := tb.named["1"]
	be.Equal(t, props.Keys(), []string{"lineweight", "url", "quoted", "empty"})
	v, _ = props.Get("url")
	be.Equal(t, v, "a=b")
	v, _ = props.Get("quoted")
	be.Equal(t, v, "\"x")
	v, ok := props.Get("empty")
	be.True(t, ok)
	be.Equal(t, v, "")
	be.Equal(t, len(tb.named), 2)
}

func TestTokenizeUnclosed(t *testing.T) {
	t.Parallel()
	// opening a table without closing the last one switches to the new table
	tb := tokenize("a{\nx=1\nb{\ny=2\n}\nz=3\n")
	be.Equal(t, tb.named["a"].Keys(), []string{"x"})
	be.Equal(t, tb.named["b"].Keys(), []string{"y"})
	be.Equal(t, tb.globals.Keys(), []string{"z"})
}

func TestTokenizeReopen(t *testing.T) {
	t.Parallel()
	tb := tokenize("a{\nx=1\n}\na{\ny=2\n}\n")
	be.Equal(t, tb.named["a"].Keys(), []string{"y"})
}

func TestTokenizeDuplicate(t *testing.T) {
	t.Parallel()
	tb := tokenize("a{\nx=1\ny=2\nx=3\n}\n")
	be.Equal(t, tb.named["a"].Keys(), []string{"x", "y"})
	v, _ := tb.named["a"].Get("x")
	be.Equal(t, v, "3")
}

func TestTableOpen(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line string
		name string
		ok   bool
	}{
		{"aci_table{", "aci_table", true},
		{"255{", "255", true},
		{"{", "", false},
		{"aci table{", "", false},
		{"plot-style{", "", false},
		{"a{b", "", false},
		{"a{ ", "", false},
	}
	for _, tt := range tests {
		name, ok := tableOpen(tt.line)
		be.Equal(t, name, tt.name)
		be.Equal(t, ok, tt.ok)
	}
}

func TestTable(t *testing.T) {
	t.Parallel()
	var zero Table
	zero.Set("b", "2")
	zero.Set("a", "1")
	be.Equal(t, zero.Len(), 2)
	b, err := json.Marshal(&zero)
	be.Err(t, err, nil)
	be.Equal(t, string(b), `{"b":"2","a":"1"}`)

	var none *Table
	be.Equal(t, none.Len(), 0)
	_, ok := none.Get("a")
	be.True(t, !ok)
	be.Equal(t, len(none.Keys()), 0)
	none.Each(func(string, string) { t.Fatal("unexpected call") })
}
