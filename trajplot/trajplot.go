/*
 * trajplot.go, part of trajview.
 *
 * Copyright 2022 The trajview Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package trajplot draws sets of trajectories on map projections, coloured by
//any of their fields.
package trajplot

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/ctessum/geom/proj"
	"github.com/dboateng/trajview"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// LonLat is the reference system of the positions in a set of trajectories,
// and the default projection of a Map.
const LonLat = "+proj=longlat +ellps=WGS84 +datum=WGS84 +no_defs"

// DefaultLevels is the number of colour levels used when none are given.
const DefaultLevels = 20

// Map is a plot of trajectories in a given projection.
type Map struct {
	*plot.Plot
	ct    proj.Transformer
	lines []*LineCollection
}

// NewMap returns an empty map in the projection given by a PROJ string.
// An empty string gives longitude/latitude.
func NewMap(projection string) (*Map, error) {
	if projection == "" {
		projection = LonLat
	}
	ct := proj.Transformer(func(x, y float64) (float64, float64, error) { return x, y, nil })
	if projection != LonLat {
		src, err := proj.Parse(LonLat)
		if err != nil {
			return nil, err
		}
		dst, err := proj.Parse(projection)
		if err != nil {
			return nil, fmt.Errorf("trajplot: %v", err)
		}
		if ct, err = src.NewTransform(dst); err != nil {
			return nil, fmt.Errorf("trajplot: %v", err)
		}
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	if projection == LonLat {
		p.X.Label.Text = "Longitude"
		p.Y.Label.Text = "Latitude"
	}
	p.Add(plotter.NewGrid())
	return &Map{Plot: p, ct: ct}, nil
}

// Segment is a straight piece of trajectory between two consecutive positions,
// in projected coordinates, with the value that gives its colour.
type Segment struct {
	X1, Y1, X2, Y2 float64
	Value          float64
}

// LineCollection is a plot.Plotter drawing segments coloured by value. Colours
// are assigned per level interval: every interval of Levels gets one colour of
// ColorMap, evenly spaced. Values out of the levels take the colour of the
// closest interval.
type LineCollection struct {
	Segments []Segment
	Levels   []float64
	ColorMap palette.ColorMap
	draw.LineStyle
}

// ColorOf returns the colour for the value v.
func (lc *LineCollection) ColorOf(v float64) (color.Color, error) {
	n := len(lc.Levels) - 1
	i := sort.SearchFloat64s(lc.Levels, v) - 1
	i = max(0, min(i, n-1))
	lo, hi := lc.Levels[0], lc.Levels[n]
	return lc.ColorMap.At(lo + (float64(i)+0.5)*(hi-lo)/float64(n))
}

// Plot implements the plot.Plotter interface.
func (lc *LineCollection) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	sty := lc.LineStyle
	for _, s := range lc.Segments {
		col, err := lc.ColorOf(s.Value)
		if err != nil {
			continue
		}
		sty.Color = col
		c.StrokeLine2(sty, trX(s.X1), trY(s.Y1), trX(s.X2), trY(s.Y2))
	}
}

// DataRange implements the plot.DataRanger interface.
func (lc *LineCollection) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, s := range lc.Segments {
		xmin = math.Min(xmin, math.Min(s.X1, s.X2))
		xmax = math.Max(xmax, math.Max(s.X1, s.X2))
		ymin = math.Min(ymin, math.Min(s.Y1, s.Y2))
		ymax = math.Max(ymax, math.Max(s.Y1, s.Y2))
	}
	return xmin, xmax, ymin, ymax
}

// nanMinMax returns the extrema of data ignoring NaNs. ok is false if all the
// values are NaN.
func nanMinMax(data []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range data {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	return lo, hi, ok
}

// Levels returns n levels evenly spaced between the extrema of data, ignoring NaNs.
func Levels(data []float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("trajplot: at least 2 levels are needed, not %d", n)
	}
	lo, hi, ok := nanMinMax(data)
	if !ok {
		return nil, fmt.Errorf("trajplot: no data to compute levels")
	}
	if hi <= lo {
		hi = lo + 1
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}

// AddTrajectories adds the trajectories in s to the map, each segment coloured by
// the value of variable at its start. nil levels give DefaultLevels levels spanning
// the values of variable, and a nil colormap the extended black body one. Segments
// with a NaN end, or crossing the antimeridian, are not drawn.
func (m *Map) AddTrajectories(s *trajview.Set, variable string, levels []float64, cmap palette.ColorMap) (*LineCollection, error) {
	ntra, ntime, err := s.Dims()
	if err != nil {
		return nil, trajview.Decorate(err, "AddTrajectories")
	}
	lon, err := s.Column("lon")
	if err != nil {
		return nil, trajview.Decorate(err, "AddTrajectories")
	}
	lat, err := s.Column("lat")
	if err != nil {
		return nil, trajview.Decorate(err, "AddTrajectories")
	}
	vals, err := s.Column(variable)
	if err != nil {
		return nil, trajview.Decorate(err, "AddTrajectories")
	}
	if levels == nil {
		if levels, err = Levels(vals, DefaultLevels); err != nil {
			return nil, err
		}
	}
	if len(levels) < 2 || !sort.Float64sAreSorted(levels) {
		return nil, fmt.Errorf("trajplot: levels must be at least 2 increasing values")
	}
	if cmap == nil {
		cmap = moreland.ExtendedBlackBody()
	}
	cmap.SetMin(levels[0])
	cmap.SetMax(levels[len(levels)-1])
	lc := &LineCollection{Levels: levels, ColorMap: cmap, LineStyle: plotter.DefaultLineStyle}
	lc.Width = vg.Points(1.5)
	for i := 0; i < ntra; i++ {
		for j := 0; j < ntime-1; j++ {
			k := i*ntime + j
			lon1, lat1, lon2, lat2 := lon[k], lat[k], lon[k+1], lat[k+1]
			if math.IsNaN(lon1) || math.IsNaN(lat1) || math.IsNaN(lon2) || math.IsNaN(lat2) || math.IsNaN(vals[k]) {
				continue
			}
			if math.Abs(lon2-lon1) > 180 {
				continue
			}
			x1, y1, err := m.ct(lon1, lat1)
			if err != nil {
				return nil, fmt.Errorf("trajplot: projecting (%g, %g): %v", lon1, lat1, err)
			}
			x2, y2, err := m.ct(lon2, lat2)
			if err != nil {
				return nil, fmt.Errorf("trajplot: projecting (%g, %g): %v", lon2, lat2, err)
			}
			lc.Segments = append(lc.Segments, Segment{X1: x1, Y1: y1, X2: x2, Y2: y2, Value: vals[k]})
		}
	}
	m.Add(lc)
	m.lines = append(m.lines, lc)
	return lc, nil
}

// AddMarker adds a marker at the given position, such as the starting point of the trajectories.
func (m *Map) AddMarker(lon, lat float64) error {
	x, y, err := m.ct(lon, lat)
	if err != nil {
		return fmt.Errorf("trajplot: projecting (%g, %g): %v", lon, lat, err)
	}
	sc, err := plotter.NewScatter(plotter.XYs{{X: x, Y: y}})
	if err != nil {
		return err
	}
	sc.GlyphStyle.Shape = draw.CrossGlyph{}
	sc.GlyphStyle.Radius = vg.Points(4)
	m.Add(sc)
	return nil
}

// ColorBar returns a plot with the colour bar of the last trajectories added.
func (m *Map) ColorBar() (*plot.Plot, error) {
	if len(m.lines) == 0 {
		return nil, fmt.Errorf("trajplot: no trajectories in the map")
	}
	lc := m.lines[len(m.lines)-1]
	p := plot.New()
	p.Add(&plotter.ColorBar{ColorMap: lc.ColorMap, Colors: len(lc.Levels) - 1})
	p.HideY()
	p.X.Padding = 0
	return p, nil
}

// Save writes the map to file, in the format given by the extension of file.
func (m *Map) Save(w, h vg.Length, file string) error {
	return m.Plot.Save(w, h, file)
}
