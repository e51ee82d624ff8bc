package transit_test

import (
	"testing"

	"github.com/meteo-transit/meteo/pkg/errors"
	"github.com/meteo-transit/meteo/pkg/transit"
	"github.com/meteo-transit/meteo/pkg/transit/transittest"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*transit.Dataset)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(*transit.Dataset) {},
		},
		{
			name:   "empty dataset",
			mutate: func(d *transit.Dataset) { d.Lines = nil },
		},
		{
			name:    "line without stations",
			mutate:  func(d *transit.Dataset) { d.Lines[1].Stations = nil },
			wantErr: true,
		},
		{
			name:    "line without id",
			mutate:  func(d *transit.Dataset) { d.Lines[0].ID = "" },
			wantErr: true,
		},
		{
			name:    "station without code",
			mutate:  func(d *transit.Dataset) { d.Lines[0].Stations[1].Code = "" },
			wantErr: true,
		},
		{
			name:    "station without position",
			mutate:  func(d *transit.Dataset) { d.Lines[1].Stations[2].Position = nil },
			wantErr: true,
		},
		{
			name:    "latitude out of range",
			mutate:  func(d *transit.Dataset) { d.Lines[0].Stations[0].Position.Lat = 91 },
			wantErr: true,
		},
		{
			name:    "unknown depth",
			mutate:  func(d *transit.Dataset) { d.Lines[0].Stations[0].Depth = "floating" },
			wantErr: true,
		},
		{
			name:   "missing depth",
			mutate: func(d *transit.Dataset) { d.Lines[0].Stations[0].Depth = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := transittest.Interchange()
			tt.mutate(ds)
			err := ds.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeMalformedDataset) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeMalformedDataset)
			}
		})
	}
}

func TestValidateNil(t *testing.T) {
	var ds *transit.Dataset
	if err := ds.Validate(); !errors.Is(err, errors.ErrCodeMalformedDataset) {
		t.Errorf("Validate() on nil = %v, want MALFORMED_DATASET", err)
	}
}

func TestOrderValue(t *testing.T) {
	s := transittest.Station("A", 7)
	if got := s.OrderValue(); got != 7 {
		t.Errorf("OrderValue() = %v, want 7", got)
	}
	s.Order = nil
	if got := s.OrderValue(); got != 0 {
		t.Errorf("OrderValue() without order = %v, want 0", got)
	}
}

func TestHasSubroutes(t *testing.T) {
	ds := transittest.Branched()
	if !ds.Lines[0].HasSubroutes() {
		t.Error("BL should have subroutes")
	}
	if ds.Lines[1].HasSubroutes() {
		t.Error("GR should not have subroutes")
	}
}

func TestStationCount(t *testing.T) {
	if got := transittest.Interchange().StationCount(); got != 5 {
		t.Errorf("StationCount() = %d, want 5", got)
	}
	if got := transittest.Loop().StationCount(); got != 5 {
		t.Errorf("StationCount() = %d, want 5", got)
	}
}

func TestLineLookup(t *testing.T) {
	ds := transittest.Interchange()
	if l, ok := ds.Line("BL"); !ok || l.ID != "BL" {
		t.Errorf("Line(BL) = %v, %v", l.ID, ok)
	}
	if _, ok := ds.Line("nope"); ok {
		t.Error("Line(nope) should not be found")
	}
}
