package render

import (
	"html/template"
	"io"

	"midnightfront/pkg/countdown"
	"midnightfront/pkg/holidays"
)

type pageData struct {
	At        string
	Longitude string
	Version   string

	Countdowns []pageCountdown

	ShowHolidays bool
	HolidaysErr  string
	Holidays     []holidays.Holiday

	// Share text: meta description for link previews.
	ShareDescription string
}

type pageCountdown struct {
	countdown.Entry
	Remaining string
	Imminent  bool
}

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

// HTML writes the report as a self-contained static page.
func HTML(w io.Writer, r Report) error {
	data := pageData{
		At:           r.At.UTC().Format("2006-01-02 15:04:05 UTC"),
		Longitude:    fmtDegrees(r.Longitude),
		Version:      r.Version,
		ShowHolidays: r.ShowHolidays,
		Holidays:     r.Holidays,
	}
	for i, e := range r.Countdowns {
		data.Countdowns = append(data.Countdowns, pageCountdown{
			Entry:     e,
			Remaining: countdown.FormatRemaining(e.MillisUntilMidnight),
			Imminent:  i == 0,
		})
	}
	if r.HolidaysErr != nil {
		data.HolidaysErr = "Failed to load festivities"
	}
	if len(data.Countdowns) > 0 {
		next := data.Countdowns[0]
		data.ShareDescription = "Midnight front at " + data.Longitude + ". Next midnight: " + next.Name + " in " + next.Remaining + "."
	}

	return pageTemplate.Execute(w, data)
}

/* ---------------- HTML ---------------- */

const pageHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>midnightfront</title>
  {{if .ShareDescription}}
  <meta name="description" content="{{.ShareDescription}}">
  <meta property="og:description" content="{{.ShareDescription}}">
  {{end}}
  <style>
    body { font-family: system-ui, sans-serif; margin: 0; padding: 24px; max-width: 960px; box-sizing: border-box; background: #0b0b1e; color: #e0e0ff; }
    * { box-sizing: border-box; }
    h2 { margin-top: 0; font-weight: 600; text-transform: uppercase; letter-spacing: 1px; }
    .err { color: #ff5c7a; margin: 12px 0; padding: 10px; background: rgba(255,92,122,0.1); border-radius: 6px; }
    .card { border: 1px solid rgba(255,255,255,0.12); border-radius: 10px; padding: 16px; margin: 16px 0; background: rgba(255,255,255,0.04); }
    .card.imminent { border-left: 4px solid #bc13fe; }
    .legend { border: 1px solid #bc13fe; }
    .mono { font-family: ui-monospace, SFMono-Regular, Menlo, Monaco, Consolas, "Liberation Mono", "Courier New", monospace; }
    .badge { display: inline-block; font-size: 0.7em; font-weight: bold; letter-spacing: 1px; padding: 2px 8px; border: 1px solid #bc13fe; border-radius: 4px; color: #bc13fe; margin-left: 8px; }
    .zone { float: right; opacity: 0.6; font-size: 0.8em; }
    table { border-collapse: collapse; width: 100%; margin-top: 10px; }
    td { padding: 8px 10px; border-top: 1px solid rgba(255,255,255,0.08); vertical-align: top; }
    .k { width: 200px; color: #9a9ac0; }
    .hint { color: #9a9ac0; font-size: 0.8em; margin-top: 8px; text-align: center; }
    footer { margin-top: 40px; color: #9a9ac0; font-size: 0.9em; text-align: center; }
  </style>
</head>
<body>
  <div class="card legend">
    <div><b>Midnight front</b>: <span class="mono">{{.Longitude}}</span></div>
    <div><b>At</b>: <span class="mono">{{.At}}</span></div>
  </div>

  <h2>Next midnight</h2>
  {{range .Countdowns}}
    <div class="card{{if .Imminent}} imminent{{end}}">
      <div>{{.Emblem}} <b>{{.Name}}</b>{{if .Imminent}}<span class="badge">IMMINENT CHANGE</span>{{end}}<span class="zone mono">{{.City}}</span></div>
      <table>
        <tr><td class="k">Local Time</td><td class="mono">{{.LocalTime}}</td></tr>
        <tr><td class="k">T-minus</td><td class="mono">{{.Remaining}}</td></tr>
      </table>
    </div>
  {{end}}

  {{if .ShowHolidays}}
    <div class="card">
      <h2>Upcoming Global Holidays</h2>
      {{if .HolidaysErr}}<div class="err">{{.HolidaysErr}}</div>{{end}}
      {{range .Holidays}}
        <table>
          <tr><td class="k mono">{{.Date}}</td><td><b>{{.Name}}</b><br><i>{{.LocalName}}</i></td><td class="mono">{{.Flag}} {{.CountryCode}}</td></tr>
        </table>
      {{end}}
      <div class="hint">Data provided by Nager.Date API</div>
    </div>
  {{end}}

  <footer>midnightfront{{if .Version}} v{{.Version}}{{end}}</footer>
</body>
</html>`
