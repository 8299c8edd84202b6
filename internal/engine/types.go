package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-growth/internal/config"
)

// Metric identifies one of the tracked growth measurements.
type Metric int

const (
	MetricHeight Metric = iota
	MetricWeight
	MetricHeadCircumference
	MetricBMI
)

// Metrics lists every metric in tab order.
func Metrics() []Metric {
	return []Metric{MetricHeight, MetricWeight, MetricHeadCircumference, MetricBMI}
}

// String returns the wire name of the metric.
func (m Metric) String() string {
	switch m {
	case MetricHeight:
		return "height"
	case MetricWeight:
		return "weight"
	case MetricHeadCircumference:
		return "headCircumference"
	case MetricBMI:
		return "bmi"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// ParseMetric is the inverse of Metric.String. It is case-insensitive.
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics() {
		if strings.EqualFold(m.String(), strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%s: %q", config.ErrUnknownMetric, s)
}

// Gender selects the reference population.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// MeasurementStatus classifies a backend record.
type MeasurementStatus int

const (
	StatusNormal MeasurementStatus = iota
	StatusPredicted
	StatusOther
)

// ParseStatus maps a backend status string. Unknown values are StatusOther,
// an empty value is StatusNormal.
func ParseStatus(s string) MeasurementStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return StatusNormal
	case "predicted":
		return StatusPredicted
	default:
		return StatusOther
	}
}

// MeasurementRecord is one raw row of a child's measurement history.
// A nil metric field means the value was not taken at that visit.
type MeasurementRecord struct {
	AgeInDays         int       `json:"ageInDays"`
	Height            *float64  `json:"height,omitempty"`
	Weight            *float64  `json:"weight,omitempty"`
	HeadCircumference *float64  `json:"headCircumference,omitempty"`
	BMI               *float64  `json:"bmi,omitempty"`
	Status            string    `json:"status,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Value returns the field for metric m.
func (r MeasurementRecord) Value(m Metric) *float64 {
	switch m {
	case MetricHeight:
		return r.Height
	case MetricWeight:
		return r.Weight
	case MetricHeadCircumference:
		return r.HeadCircumference
	case MetricBMI:
		return r.BMI
	}
	return nil
}

// MeasurementPoint is a normalised actual measurement for one metric.
type MeasurementPoint struct {
	AgeInDays int
	Value     float64
	Status    MeasurementStatus
}

// ReferencePoint holds population statistics at one grid age.
// SD3Neg <= Median <= SD3Pos is assumed from the source.
type ReferencePoint struct {
	AgeInDays   int     `json:"ageInDays"`
	AgeInMonths int     `json:"ageInMonths"`
	Median      float64 `json:"median"`
	SD3Neg      float64 `json:"sd3neg"`
	SD3Pos      float64 `json:"sd3pos"`
}

// PredictionPoint is one model output. Any field may be absent.
type PredictionPoint struct {
	AgeInDays                  int      `json:"ageInDays"`
	PredictedHeight            *float64 `json:"predictedHeight,omitempty"`
	PredictedWeight            *float64 `json:"predictedWeight,omitempty"`
	PredictedBMI               *float64 `json:"predictedBMI,omitempty"`
	PredictedHeadCircumference *float64 `json:"predictedHeadCircumference,omitempty"`
}

// Value returns the prediction field matching metric m.
func (p PredictionPoint) Value(m Metric) *float64 {
	switch m {
	case MetricHeight:
		return p.PredictedHeight
	case MetricWeight:
		return p.PredictedWeight
	case MetricHeadCircumference:
		return p.PredictedHeadCircumference
	case MetricBMI:
		return p.PredictedBMI
	}
	return nil
}

// Narrative carries the free-text parts of a prediction. The engine never
// interprets them.
type Narrative struct {
	MedicalDisclaimer string   `json:"medicalDisclaimer,omitempty"`
	Recommendations   []string `json:"recommendations,omitempty"`
	DataLimitations   []string `json:"dataLimitations,omitempty"`
}

// Prediction is the payload of the prediction service.
type Prediction struct {
	Points []PredictionPoint `json:"predictionPoints"`
	Narrative
}

// Entitlement is supplied by the account service.
type Entitlement struct {
	IsVIP bool `json:"isVip"`
}

// SeriesKind is the closed set of chart series. Display labels are derived
// from it, never the other way around.
type SeriesKind int

const (
	SeriesActual SeriesKind = iota
	SeriesPrediction
	SeriesStandard
	SeriesMin
	SeriesMax
)

// SeriesKinds lists the kinds in dataset order.
func SeriesKinds() []SeriesKind {
	return []SeriesKind{SeriesActual, SeriesPrediction, SeriesStandard, SeriesMin, SeriesMax}
}

func (k SeriesKind) String() string {
	switch k {
	case SeriesActual:
		return "actual"
	case SeriesPrediction:
		return "prediction"
	case SeriesStandard:
		return "standard"
	case SeriesMin:
		return "min"
	case SeriesMax:
		return "max"
	default:
		return fmt.Sprintf("series(%d)", int(k))
	}
}

// Color returns the colour token of the series.
func (k SeriesKind) Color() string {
	switch k {
	case SeriesActual:
		return config.ColorActual
	case SeriesPrediction:
		return config.ColorPrediction
	case SeriesStandard:
		return config.ColorStandard
	case SeriesMin:
		return config.ColorMin
	case SeriesMax:
		return config.ColorMax
	}
	return config.ColorActual
}

// SeriesPoint is one plotted point. AgeInDays keeps the raw age; AgeLabel is
// its presentation in the dataset's axis unit.
type SeriesPoint struct {
	AgeInDays int     `json:"ageInDays"`
	AgeLabel  string  `json:"ageLabel"`
	Value     float64 `json:"value"`
}

// Series is an independent line. It owns its x labels.
type Series struct {
	Kind   SeriesKind    `json:"kind"`
	Label  string        `json:"label"`
	Points []SeriesPoint `json:"points"`
	Color  string        `json:"color"`
	Dashed bool          `json:"dashed"`
}

// AxisUnit is the presentation unit of age labels.
type AxisUnit int

const (
	UnitDays AxisUnit = iota
	UnitYears
)

func (u AxisUnit) String() string {
	if u == UnitYears {
		return "years"
	}
	return "days"
}

// Advisory is a user-facing reason why the prediction is hidden.
type Advisory int

const (
	AdvisoryNotVIP Advisory = iota
	AdvisoryInsufficientReference
	AdvisoryInsufficientActual
)

func (a Advisory) String() string {
	switch a {
	case AdvisoryNotVIP:
		return "not_vip"
	case AdvisoryInsufficientReference:
		return "insufficient_reference"
	case AdvisoryInsufficientActual:
		return "insufficient_actual"
	default:
		return fmt.Sprintf("advisory(%d)", int(a))
	}
}

// ChartDataset is the immutable output handed to renderers.
type ChartDataset struct {
	Metric            Metric     `json:"-"`
	MetricName        string     `json:"metric"`
	Series            []Series   `json:"series"`
	Legend            []string   `json:"legend"`
	Unit              AxisUnit   `json:"-"`
	UnitName          string     `json:"unit"`
	PredictionAllowed bool       `json:"predictionAllowed"`
	Advisories        []Advisory `json:"-"`
	AdvisoryCodes     []string   `json:"advisories"`
	Narrative         *Narrative `json:"narrative,omitempty"`
}

// LabelFunc returns the display label of a series kind.
type LabelFunc func(SeriesKind) string

// DefaultLabels returns the built-in Vietnamese labels.
func DefaultLabels(k SeriesKind) string {
	switch k {
	case SeriesActual:
		return config.LabelActual
	case SeriesPrediction:
		return config.LabelPrediction
	case SeriesStandard:
		return config.LabelStandard
	case SeriesMin:
		return config.LabelMin
	case SeriesMax:
		return config.LabelMax
	}
	return ""
}

// ErrSuperseded is returned by Engine.Load when a newer load was started
// before this one finished.
var ErrSuperseded = errors.New(config.ErrSuperseded)
