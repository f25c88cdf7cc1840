package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/campus-geo/wifi-locate/internal/httputil"
)

// showReport renders an HTML survey report: sample counts per zone and the
// mean RSSI recorded for each AP in its directory zone.
func (s *Server) showReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	store := s.engine.Snapshot()
	zones := store.Zones()
	if len(zones) == 0 {
		httputil.NotFound(w, "no survey data loaded")
		return
	}

	var zoneLabels []string
	var zoneCounts []opts.BarData
	for _, z := range zones {
		zoneLabels = append(zoneLabels, z.Key)
		zoneCounts = append(zoneCounts, opts.BarData{Value: z.SampleCount()})
	}

	samplesBar := charts.NewBar()
	samplesBar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Survey samples per zone",
			Subtitle: time.Now().Format(time.RFC3339),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	samplesBar.SetXAxis(zoneLabels).
		AddSeries("samples", zoneCounts,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	var apLabels []string
	var apMeans []opts.BarData
	for _, z := range zones {
		for _, apID := range z.APIDs {
			mean, ok := z.MeanRSSI(apID)
			if !ok {
				continue
			}
			apLabels = append(apLabels, fmt.Sprintf("%s (%s)", apID, z.Key))
			apMeans = append(apMeans, opts.BarData{Value: mean})
		}
	}

	rssiBar := charts.NewBar()
	rssiBar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Mean RSSI per access point (dBm)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45, Show: opts.Bool(true)}}),
	)
	rssiBar.SetXAxis(apLabels).AddSeries("mean rssi", apMeans)

	page := components.NewPage()
	page.AddCharts(samplesBar, rssiBar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
