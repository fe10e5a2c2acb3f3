package export

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/diillson/bcra-dashboard-go/internal/domain/entity"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Paleta usada nos gráficos, uma cor por variável.
var palette = []color.RGBA{
	{R: 0x00, G: 0xd4, B: 0xaa, A: 0xff},
	{R: 0xff, G: 0x6b, B: 0x6b, A: 0xff},
	{R: 0xff, G: 0xd9, B: 0x3d, A: 0xff},
	{R: 0x6b, G: 0xcb, B: 0x77, A: 0xff},
	{R: 0x4d, G: 0x96, B: 0xff, A: 0xff},
}

// renderChart desenha a série como linha e devolve a imagem PNG.
// Séries com menos de dois valores não geram gráfico (nil, nil).
func renderChart(item entity.IndicatorSeries, index int, width, height vg.Length) ([]byte, error) {
	points := make(plotter.XYs, 0, item.Series.Len())
	for _, obs := range item.Series.Observations {
		v := entity.NullDecimalToFloat(obs.Value)
		if v == nil {
			continue
		}
		points = append(points, plotter.XY{X: float64(obs.Date.In(time.UTC).Unix()), Y: *v})
	}
	if len(points) < 2 {
		return nil, nil
	}

	p := plot.New()
	p.Title.Text = item.Indicator.Name
	p.Y.Label.Text = item.Indicator.Unit
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(points)
	if err != nil {
		return nil, fmt.Errorf("error building chart line: %w", err)
	}
	line.Color = palette[index%len(palette)]
	line.Width = vg.Points(1.5)
	p.Add(line)

	writer, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("error rendering chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("error encoding chart: %w", err)
	}
	return buf.Bytes(), nil
}
