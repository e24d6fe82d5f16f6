package service

import "insulin_drip/internal/titration"

// SNOMED CT codes carried on every insulin drip order.
const (
	snomedSystem = "http://snomed.info/sct"

	ProductRegularInsulin = "325064004"
	UnitInsulinUnit       = "258666001"
	RouteIntravenous      = "47625008"
)

const (
	LineBolus    = "bolus"
	LineInfusion = "infusion"

	unitsPerHour = "U/h"
	units        = "U"
)

// Coding is one code from a clinical terminology.
type Coding struct {
	System  string `json:"system"`
	Code    string `json:"code"`
	Display string `json:"display"`
}

// OrderLine is one dose instruction, starting StartOffsetMinutes after the
// order is placed.
type OrderLine struct {
	Kind               string  `json:"kind"`
	StartOffsetMinutes int     `json:"start_offset_minutes"`
	Dose               float64 `json:"dose"`
	DoseUnit           string  `json:"dose_unit"`
}

// Order is the coded clinical representation of a titration result.
type Order struct {
	Product          Coding      `json:"product"`
	Route            Coding      `json:"route"`
	Unit             Coding      `json:"unit"`
	Lines            []OrderLine `json:"lines"`
	NextCheckMinutes int         `json:"next_check_minutes"`
}

var (
	productCoding = Coding{System: snomedSystem, Code: ProductRegularInsulin, Display: "Insulin soluble human 100 units/mL injection solution 10 mL vial"}
	routeCoding   = Coding{System: snomedSystem, Code: RouteIntravenous, Display: "Intravenous route"}
	unitCoding    = Coding{System: snomedSystem, Code: UnitInsulinUnit, Display: "Unit"}
)

// BuildOrder turns a result into order lines: an optional bolus, then one
// infusion line per rate segment.
func BuildOrder(res titration.Result) Order {
	segs := res.Adjustment.Segments()
	lines := make([]OrderLine, 0, len(segs)+1)
	if res.Dose != nil {
		lines = append(lines, OrderLine{Kind: LineBolus, Dose: *res.Dose, DoseUnit: units})
	}
	for _, s := range segs {
		lines = append(lines, OrderLine{
			Kind:               LineInfusion,
			StartOffsetMinutes: s.DelayMinutes,
			Dose:               s.Rate,
			DoseUnit:           unitsPerHour,
		})
	}
	return Order{
		Product:          productCoding,
		Route:            routeCoding,
		Unit:             unitCoding,
		Lines:            lines,
		NextCheckMinutes: res.NextCheckMinutes,
	}
}
