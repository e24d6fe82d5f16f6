package service

import "insulin_drip/internal/titration"

type CalculatorService struct{}

func NewCalculatorService() *CalculatorService { return &CalculatorService{} }

// Recommend evaluates req and wraps the result for the order adapter.
func (CalculatorService) Recommend(req titration.Request) (Recommendation, error) {
	res, err := titration.Decide(req)
	if err != nil {
		return Recommendation{}, err
	}
	return recommend(req.CurrentBG, req.IsInitial(), res), nil
}

func recommend(bg int, initial bool, res titration.Result) Recommendation {
	return Recommendation{
		Result:     res,
		Order:      BuildOrder(res),
		Advisories: Advisories(bg, initial),
	}
}
