package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/smart-mirror/internal/display"
	"github.com/sweeney/smart-mirror/internal/status"
	"github.com/sweeney/smart-mirror/internal/thermal"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"temp": func(v thermal.CentiK) string { return v.String() },
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="1">
<title>Smart Mirror</title>
<style>
body { background: #000; color: #fff; font-family: monospace; margin: 2em; }
.panel { margin: 1em 0; }
.heat img { image-rendering: pixelated; }
.data p, .debug p { margin: 0.2em 0; }
.passive { color: #444; }
</style>
</head>
<body>
{{if .Heat}}<div class="panel heat" id="heat">
{{if .Thermal}}<img src="/frame.png?n={{.Pipeline.Rendered}}" width="{{.Thermal.Width}}" height="{{.Thermal.Height}}" alt="thermal image">
<p>min {{temp .Thermal.Min.Value}} max {{temp .Thermal.Max.Value}}</p>{{else}}<p>waiting for camera</p>{{end}}
</div>{{end}}
{{if .Data}}<div class="panel data" id="data">
{{range .AmbientLines}}<p>{{.}}</p>
{{else}}<p>waiting for ambient sensor</p>
{{end}}</div>{{end}}
{{if .Debug}}<div class="panel debug" id="debug">
{{range .DebugLines}}<p>{{.}}</p>
{{end}}<p>State: {{.State}} (sleep {{.Counts.Sleep}}, wake {{.Counts.Wake}}, motion {{.Counts.Motion}})</p>
<p>Frames: {{.Pipeline.Received}} received, {{.Pipeline.Dropped}} dropped, {{.Pipeline.Malformed}} malformed</p>
<p>MQTT: {{if .MQTTConnected}}connected{{else}}disconnected{{end}}{{if .Config.Broker}} ({{.Config.Broker}}){{end}}</p>
<p>Uptime: {{uptime .Uptime}}</p>
</div>{{end}}
{{if not .PanelsShown}}<p class="passive">{{.State}}</p>{{end}}
<p class="passive"><a href="/index.json">JSON</a></p>
</body>
</html>
`

type pageData struct {
	status.Snapshot
	Uptime       time.Duration
	Heat         bool
	Data         bool
	Debug        bool
	AmbientLines []string
	DebugLines   []string
}

func renderHTML(w io.Writer, snap status.Snapshot) error {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := pageData{
		Snapshot:   snap,
		Uptime:     snap.Uptime(),
		Heat:       snap.Panels[display.PanelHeat],
		Data:       snap.Panels[display.PanelData],
		Debug:      snap.Panels[display.PanelDebug],
		DebugLines: status.DebugLines(snap),
	}
	if snap.Ambient != nil {
		data.AmbientLines = status.AmbientLines(*snap.Ambient)
	}
	return indexTmpl.Execute(w, data)
}
