package service

// BG thresholds (mg/dL) that trigger advisory text. None of them change the
// computed dose.
const (
	criticalLowBG      = 50
	criticalHighBG     = 500
	reviewInitialBelow = 100
)

const (
	AdviceContactPhysician = "BG outside 50-500 mg/dL: contact the physician for assessment and further orders."
	AdviceReviewInitial    = "Initial BG below 100 or above 500 mg/dL: review initial insulin orders with the physician before starting."
	AdviceInsulinHeld      = "BG below 100 mg/dL: insulin infusion is held."
)

// Advisories returns the advisory messages for a BG reading. initial marks
// the first reading of an infusion.
func Advisories(bg int, initial bool) []string {
	var out []string
	if bg < criticalLowBG || bg > criticalHighBG {
		out = append(out, AdviceContactPhysician)
	}
	if initial && (bg < reviewInitialBelow || bg > criticalHighBG) {
		out = append(out, AdviceReviewInitial)
	}
	if !initial && bg < reviewInitialBelow {
		out = append(out, AdviceInsulinHeld)
	}
	return out
}

// ProtocolNotes is the reference text shown alongside every order.
const ProtocolNotes = `Insulin infusion protocol for hyperglycemic adult ICU patients.

Not for diabetic ketoacidosis or hyperosmolar hyperglycemic state; those patients
need different initial dosing, IV dextrose and adjunctive fluid, acid-base and
electrolyte therapy. For any BG above 500 mg/dL review the initial orders with the
physician. Contact the physician whenever the response to the infusion is unusual
or a situation is not covered here.

Patient selection: ICU patients with more than two BG values above 180 mg/dL who are
not expected to normalize quickly. Usually not appropriate for patients who are
eating, leaving the ICU within 24 hours, or being considered for comfort measures.

Target BG range: 120-160 mg/dL.

Infusion solution: regular human insulin 1 unit per 1 mL 0.9% NaCl, from pharmacy.
Priming: flush 20 mL of infusion through all tubing before connecting.

Reference: Shetty S, Inzucchi SE, Goldberg PA, Cooper D, Siegel MD, Honiden S.
Adapting to the new consensus guidelines for managing hyperglycemia during critical
illness: the updated Yale insulin infusion protocol. Endocr Pract. 2012;18:363-370.
`
