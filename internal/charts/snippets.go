package charts

import (
	"fmt"
	"html/template"
)

// ChartSnippet represents an embeddable chart fragment.
// Div holds the single root <div id="..."> the chart draws into.
// Script initializes the chart in that div and registers it for resizes.
// HTML combines a titled container, Div and Script.
type ChartSnippet struct {
	ID     string
	Title  string
	Div    template.HTML
	Script template.HTML
	HTML   template.HTML
}

// NewSnippet builds the snippet for a chart drawn into elementID. option is
// the chart's option JSON; an empty option leaves the chart blank until the
// first refresh.
func NewSnippet(elementID, title string, option []byte, height string) ChartSnippet {
	if height == "" {
		height = "400px"
	}
	if len(option) == 0 {
		option = []byte("null")
	}

	div := fmt.Sprintf(`<div id="%s" class="chart" style="width:100%%;height:%s;"></div>`,
		template.HTMLEscapeString(elementID), template.HTMLEscapeString(height))
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById(%q);if(!el)return;var c=echarts.init(el);var option=%s;if(option)c.setOption(option);window.propdashCharts=window.propdashCharts||{};window.propdashCharts[%q]=c;})();</script>`,
		elementID, option, elementID)

	html := fmt.Sprintf(`<div class="chart-container">
	<h3>%s</h3>
	%s
</div>
%s`, template.HTMLEscapeString(title), div, script)

	return ChartSnippet{
		ID:     elementID,
		Title:  title,
		Div:    template.HTML(div),
		Script: template.HTML(script),
		HTML:   template.HTML(html),
	}
}
