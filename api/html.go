package api

import (
	"html/template"
	"net/http"

	"github.com/calvinmclean/plantchart"

	"github.com/calvinmclean/babyapi"
	"github.com/calvinmclean/babyapi/html"
	"github.com/go-chi/render"
)

const (
	dashboardPage         = html.Template("dashboardPage")
	dashboardPageTemplate = `{{ define "dashboardPage" }}
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Power Plant Dashboard</title>

    <!-- UIkit -->
    <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/uikit@3.19.2/dist/css/uikit.min.css" />
    <script src="https://cdn.jsdelivr.net/npm/uikit@3.19.2/dist/js/uikit.min.js"></script>
    <script src="https://cdn.jsdelivr.net/npm/uikit@3.19.2/dist/js/uikit-icons.min.js"></script>

    <!-- Apache ECharts -->
    <script src="https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"></script>
</head>
<body class="uk-background-muted uk-padding">
    <div class="uk-container uk-container-expand">
        <div class="uk-flex uk-flex-between uk-flex-middle">
            <h1 class="uk-heading-line"><span>{{ .State.Header }}</span></h1>
            <div>
                <a href="/export.png" class="uk-button uk-button-default uk-button-small">Export PNG</a>
                <button class="uk-button uk-button-danger uk-button-small" onclick="resetDashboard()">Reset</button>
            </div>
        </div>

        <!-- Upload -->
        <form class="uk-margin" action="/upload" method="post" enctype="multipart/form-data" onsubmit="return upload(this)">
            <div uk-form-custom="target: true">
                <input type="file" name="file" accept=".csv">
                <input class="uk-input uk-form-width-medium uk-form-small" type="text" placeholder="Select CSV" disabled>
            </div>
            <button class="uk-button uk-button-primary uk-button-small" type="submit">Load</button>
        </form>

        <!-- KPIs -->
        <div class="uk-grid-small uk-child-width-1-3@s" uk-grid>
            <div><div class="uk-card uk-card-default uk-card-body uk-card-small">
                <p class="uk-text-meta uk-margin-remove">Avg Export Power</p>
                <h3 class="uk-margin-remove">{{ .State.KPIs.PowerText }}</h3>
            </div></div>
            <div><div class="uk-card uk-card-default uk-card-body uk-card-small">
                <p class="uk-text-meta uk-margin-remove">Avg Steam</p>
                <h3 class="uk-margin-remove">{{ .State.KPIs.SteamText }}</h3>
            </div></div>
            <div><div class="uk-card uk-card-default uk-card-body uk-card-small">
                <select class="uk-select uk-form-small uk-form-blank" onchange="send('PUT', '/kpi/selectable?metric=' + this.value)">
                    {{ range .Selectable }}
                    <option value="{{ . }}" {{ if eq . $.State.KPIs.Selectable }}selected{{ end }}>Avg {{ . }}</option>
                    {{ end }}
                </select>
                <h3 class="uk-margin-remove">{{ .State.KPIs.SelectableText }}</h3>
            </div></div>
        </div>

        {{ if .State.Loaded }}
        <!-- Controls -->
        <div class="uk-margin uk-flex uk-flex-wrap uk-flex-middle" style="gap: 8px">
            <button class="uk-button uk-button-default uk-button-small" onclick="send('POST', '/view/preset?token=all')">All</button>
            <button class="uk-button uk-button-default uk-button-small" onclick="send('POST', '/view/preset?token=month')">Month</button>
            <button class="uk-button uk-button-default uk-button-small" onclick="send('POST', '/view/preset?token=24h')">24h</button>
            <button class="uk-button uk-button-default uk-button-small" onclick="send('POST', '/view/preset?token=12')">12h</button>
            <button class="uk-button uk-button-default uk-button-small" onclick="send('POST', '/view/preset?token=6')">6h</button>

            <input id="range-start" class="uk-input uk-form-width-small uk-form-small" type="date">
            <input id="range-end" class="uk-input uk-form-width-small uk-form-small" type="date">
            <button class="uk-button uk-button-default uk-button-small" onclick="applyRange()">Apply</button>

            <input id="threshold" class="uk-input uk-form-width-small uk-form-small" type="number" step="any" placeholder="Power limit"
                value="{{ if .State.Threshold }}{{ .State.Threshold }}{{ end }}">
            <button class="uk-button uk-button-default uk-button-small" onclick="setThreshold()">Set Limit</button>

            <button class="uk-button {{ if .State.Measurement.Active }}uk-button-primary{{ else }}uk-button-default{{ end }} uk-button-small"
                onclick="send('POST', '/measure/toggle')">Measure</button>
            <span class="uk-text-meta">{{ .State.Guidance }}</span>
        </div>

        <div class="uk-margin uk-flex uk-flex-wrap" style="gap: 8px">
            {{ range .Series }}
            <label><input class="uk-checkbox" type="checkbox" {{ if not (index $.State.Hidden .Key) }}checked{{ end }}
                onchange="send('POST', '/legend/{{ .Key }}/toggle')"> {{ .Label }}</label>
            {{ end }}
        </div>

        <div id="chart-container" class="uk-card uk-card-default uk-card-body">
            {{ .Element }}
            {{ .Script }}
        </div>
        {{ else }}
        <p class="uk-text-center uk-text-muted uk-margin-large">{{ .State.Header }}</p>
        {{ end }}
    </div>

    <script>
        function send(method, url) {
            return fetch(url, { method: method }).then(function (resp) {
                if (!resp.ok) {
                    return resp.json().then(function (body) { UIkit.notification(body.error || resp.statusText, { status: 'danger' }); });
                }
                location.reload();
            });
        }

        function upload(form) {
            fetch('/upload', { method: 'POST', body: new FormData(form) }).then(function (resp) {
                if (!resp.ok) {
                    return resp.json().then(function (body) { alert(body.error || resp.statusText); });
                }
                location.reload();
            });
            return false;
        }

        function applyRange() {
            var start = document.getElementById('range-start').value;
            var end = document.getElementById('range-end').value;
            if (!start) { return; }
            send('POST', '/view/range?start=' + start + (end ? '&end=' + end : ''));
        }

        function setThreshold() {
            send('PUT', '/threshold?power=' + encodeURIComponent(document.getElementById('threshold').value));
        }

        function resetDashboard() {
            if (confirm('Reset the dashboard and clear all data?')) {
                send('POST', '/reset?confirm=true');
            }
        }

        if (typeof goecharts_{{ .ChartID }} !== 'undefined') {
            var chart = goecharts_{{ .ChartID }};
            var container = document.getElementById('chart-container');

            chart.getZr().on('click', function (event) {
                var point = chart.convertFromPixel({ xAxisIndex: 0 }, [event.offsetX, event.offsetY]);
                if (!point) { return; }
                send('POST', '/click?t=' + Math.round(point[0] !== undefined ? point[0] : point));
            });

            container.addEventListener('wheel', function (event) {
                event.preventDefault();
                event.stopPropagation();
                send('POST', '/view/wheel?direction=' + (event.deltaY > 0 ? 1 : -1));
            }, { capture: true, passive: false });

            chart.on('datazoom', function () {
                var axis = chart.getModel().getComponent('xAxis', 0).axis;
                var extent = axis.scale.getExtent();
                send('POST', '/view/window?min=' + Math.round(extent[0]) + '&max=' + Math.round(extent[1]));
            });
        }
    </script>
</body>
</html>
{{ end }}`
)

func init() {
	html.SetMap(map[string]string{
		string(dashboardPage): dashboardPageTemplate,
	})
}

type seriesOption struct {
	Key   string
	Label string
}

type dashboardData struct {
	State      plantchart.State
	Series     []seriesOption
	Selectable []plantchart.Metric
	ChartID    template.JS
	Element    template.HTML
	Script     template.HTML
}

func (a *API) dashboard(w http.ResponseWriter, r *http.Request) {
	data := dashboardData{
		State:      a.session.State(),
		Selectable: plantchart.SelectableMetrics,
		ChartID:    template.JS(plantchart.ChartID),
	}
	for _, s := range plantchart.SeriesList() {
		data.Series = append(data.Series, seriesOption{Key: s.Key, Label: s.Label})
	}

	if data.State.Loaded {
		frame, err := a.session.Frame()
		if err != nil {
			_ = render.Render(w, r, viewError(err))
			return
		}
		chart, err := frame.Chart()
		if err != nil {
			_ = render.Render(w, r, babyapi.InternalServerError(err))
			return
		}
		snippet := chart.RenderSnippet()
		data.Element = template.HTML(snippet.Element)
		data.Script = template.HTML(snippet.Script)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(dashboardPage.Render(r, data)))
}
