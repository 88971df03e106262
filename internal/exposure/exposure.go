// Package exposure derives APEX exposure values from capture settings.
package exposure

import (
	"math"

	"github.com/ironsheep/chroma-analyzer/internal/metadata"
)

// isoScale is the APEX speed constant: sV = log2(ISO / isoScale).
const isoScale = 3.3333

// Metadata tag names consulted by FromMetadata, in lookup order.
var (
	ISOKeys          = []string{"ISOSpeedRatings", "ISO", "PhotographicSensitivity"}
	FNumberKeys      = []string{"FNumber"}
	ExposureTimeKeys = []string{"ExposureTime"}
)

// Inputs are the capture settings. A nil field is unknown.
type Inputs struct {
	ISO          *float64 `json:"iso"`
	FNumber      *float64 `json:"fNumber"`
	ExposureTime *float64 `json:"exposureTime"`
}

// Values holds the four APEX quantities. A nil field could not be derived.
type Values struct {
	SV *float64 `json:"sV"`
	AV *float64 `json:"aV"`
	TV *float64 `json:"tV"`
	BV *float64 `json:"bV"`
}

// Calculate derives exposure values from in.
//
// Parameters:
//   - in: capture settings; missing or non-positive fields are ignored
//
// Returns:
//   - Values: sV = log2(ISO/3.3333), aV = 2·log2(N), tV = −log2(t), and
//     bV = aV + tV − sV only when the other three are all present.
func Calculate(in Inputs) Values {
	var v Values
	if x, ok := positive(in.ISO); ok {
		v.SV = Float(math.Log2(x / isoScale))
	}
	if x, ok := positive(in.FNumber); ok {
		v.AV = Float(2 * math.Log2(x))
	}
	if x, ok := positive(in.ExposureTime); ok {
		v.TV = Float(-math.Log2(x))
	}
	if v.SV != nil && v.AV != nil && v.TV != nil {
		v.BV = Float(*v.AV + *v.TV - *v.SV)
	}
	return v
}

// InputsFromMetadata picks capture settings out of normalized tags. Only
// Number values are used.
func InputsFromMetadata(m metadata.Map) Inputs {
	var in Inputs
	if f, ok := m.Number(ISOKeys...); ok {
		in.ISO = Float(f)
	}
	if f, ok := m.Number(FNumberKeys...); ok {
		in.FNumber = Float(f)
	}
	if f, ok := m.Number(ExposureTimeKeys...); ok {
		in.ExposureTime = Float(f)
	}
	return in
}

// FromMetadata is Calculate(InputsFromMetadata(m)).
func FromMetadata(m metadata.Map) Values {
	return Calculate(InputsFromMetadata(m))
}

// Float returns a pointer to f, for building Inputs.
func Float(f float64) *float64 { return &f }

func positive(p *float64) (float64, bool) {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) || *p <= 0 {
		return 0, false
	}
	return *p, true
}
