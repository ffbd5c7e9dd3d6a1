package batch

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/bengarrett/plotstyle"
	"github.com/bengarrett/plotstyle/internal/config"
	"gopkg.in/yaml.v3"
)

// Document is the exported representation of one decoded plot style file.
type Document struct {
	File       string            `json:"file"`
	Header     string            `json:"header"`
	Kind       plotstyle.Kind    `json:"kind"`
	Globals    *plotstyle.Table  `json:"globals"`
	StyleCount int               `json:"styleCount"`
	Styles     []plotstyle.Style `json:"styles"`
}

// NewDocument returns the document of the catalog decoded from file.
func NewDocument(file string, cat *plotstyle.Catalog) Document {
	globals := cat.Globals
	if globals == nil {
		globals = plotstyle.NewTable()
	}
	styles := cat.Styles
	if styles == nil {
		styles = []plotstyle.Style{}
	}
	return Document{
		File:       file,
		Header:     cat.Header,
		Kind:       cat.Kind,
		Globals:    globals,
		StyleCount: len(styles),
		Styles:     styles,
	}
}

// Encode returns the document in the JSON or YAML format.
func (d Document) Encode(format string) ([]byte, error) {
	switch format {
	case config.YAML:
		b, err := yaml.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("yaml marshal: %w", err)
		}
		return b, nil
	default:
		b, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("json marshal: %w", err)
		}
		return append(b, '\n'), nil
	}
}

// MarshalYAML encodes the document as a YAML mapping that keeps the table key order.
func (d Document) MarshalYAML() (any, error) {
	styles := seq()
	for _, s := range d.Styles {
		styles.Content = append(styles.Content, styleNode(s))
	}
	doc := mapping()
	add(doc, "file", str(d.File))
	add(doc, "header", str(d.Header))
	add(doc, "kind", str(d.Kind.String()))
	add(doc, "globals", tableNode(d.Globals))
	add(doc, "styleCount", integer(d.StyleCount))
	add(doc, "styles", styles)
	return doc, nil
}

func styleNode(s plotstyle.Style) *yaml.Node {
	n := mapping()
	add(n, "aci", integer(s.ACI))
	add(n, "name", str(s.Name))
	if s.Lineweight != nil {
		add(n, "lineweight_mm", scalar("!!float", strconv.FormatFloat(*s.Lineweight, 'f', -1, 64)))
	}
	add(n, "color_hex", str(string(s.Color)))
	rgb := seq()
	rgb.Style = yaml.FlowStyle
	for _, v := range s.RGB {
		rgb.Content = append(rgb.Content, integer(v))
	}
	add(n, "color_rgb", rgb)
	if s.Screening != nil {
		add(n, "screening_percent", integer(*s.Screening))
	}
	if s.Extra.Len() > 0 {
		add(n, "extra", tableNode(s.Extra))
	}
	return n
}

func tableNode(t *plotstyle.Table) *yaml.Node {
	n := mapping()
	t.Each(func(key, value string) {
		add(n, key, str(value))
	})
	return n
}

func add(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, str(key), value)
}

func mapping() *yaml.Node { return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"} }

func seq() *yaml.Node { return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"} }

func str(s string) *yaml.Node { return scalar("!!str", s) }

func integer(i int) *yaml.Node { return scalar("!!int", strconv.Itoa(i)) }

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
