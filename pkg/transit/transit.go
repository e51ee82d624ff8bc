package transit

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/meteo-transit/meteo/pkg/errors"
)

// Depth describes whether a station is below or above ground.
type Depth string

const (
	DepthUnderground Depth = "underground"
	DepthElevated    Depth = "elevated"
)

// Position is a WGS84 coordinate.
type Position struct {
	Lat float64 `json:"lat" yaml:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" yaml:"lng" validate:"gte=-180,lte=180"`
}

// Station is a stop served by a line. The same code may appear on several
// lines; the first occurrence wins for the station's base attributes.
type Station struct {
	Code             string    `json:"code" yaml:"code" validate:"required"`
	Name             string    `json:"name" yaml:"name"`
	Position         *Position `json:"position" yaml:"position" validate:"required"`
	Depth            Depth     `json:"depth,omitempty" yaml:"depth,omitempty" validate:"omitempty,oneof=underground elevated"`
	IsInterchange    bool      `json:"is_interchange" yaml:"is_interchange"`
	InterchangeLines []string  `json:"interchange_lines,omitempty" yaml:"interchange_lines,omitempty"`
	Subroute         string    `json:"subroute,omitempty" yaml:"subroute,omitempty"`
	Order            *float64  `json:"order,omitempty" yaml:"order,omitempty"`
}

// OrderValue returns the station's order within its subroute, 0 when unset.
func (s Station) OrderValue() float64 {
	if s.Order == nil {
		return 0
	}
	return *s.Order
}

// Line is a named, colored sequence of stations, possibly split into
// subroutes.
type Line struct {
	ID       string    `json:"id" yaml:"id" validate:"required"`
	Name     string    `json:"name" yaml:"name"`
	Color    string    `json:"color" yaml:"color"`
	Stations []Station `json:"stations" yaml:"stations" validate:"required,min=1,dive"`
}

// HasSubroutes reports whether any station of the line carries a subroute.
func (l Line) HasSubroutes() bool {
	for _, s := range l.Stations {
		if s.Subroute != "" {
			return true
		}
	}
	return false
}

// Dataset is the complete network description.
type Dataset struct {
	Lines []Line `json:"lines" yaml:"lines" validate:"dive"`
}

// Line returns the line with the given id.
func (d *Dataset) Line(id string) (Line, bool) {
	for _, l := range d.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return Line{}, false
}

// StationCount returns the number of distinct station codes.
func (d *Dataset) StationCount() int {
	seen := make(map[string]struct{})
	for _, l := range d.Lines {
		for _, s := range l.Stations {
			seen[s.Code] = struct{}{}
		}
	}
	return len(seen)
}

var validate = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// Validate checks that every line has an id and at least one station and
// that every station has a code and a position. The first violation is
// returned as a MALFORMED_DATASET error.
func (d *Dataset) Validate() error {
	if d == nil {
		return errors.New(errors.ErrCodeMalformedDataset, "dataset is nil")
	}
	for i, l := range d.Lines {
		if err := validate().Struct(l); err != nil {
			return errors.Wrap(errors.ErrCodeMalformedDataset, err, "line %d (%q): %s", i, l.ID, describe(err))
		}
	}
	return nil
}

// describe turns the first validator failure into a short field/rule text.
func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	return fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
}
