package adapters

import (
	"github.com/iwvelando/property-valuation/internal/config"
	"github.com/iwvelando/property-valuation/internal/valuation"
)

// InputFromRequest converts a configured property request into a
// PropertyInput.
func InputFromRequest(request config.PropertyRequest) valuation.PropertyInput {
	return valuation.PropertyInput{
		District:     request.District,
		Zone:         request.Zone,
		PropertyType: request.Type,
		CoveredArea:  request.CoveredArea,
		FreeArea:     request.FreeArea,
		Bedrooms:     request.Bedrooms,
		Bathrooms:    request.Bathrooms,
		Floor:        request.Floor,
		HasElevator:  request.Elevator,
		AgeYears:     request.AgeYears,
		Currency:     valuation.ParseCurrency(request.Currency),
	}
}

// InputsFromRequests converts every configured property request.
func InputsFromRequests(requests []config.PropertyRequest) []valuation.PropertyInput {
	if requests == nil {
		return nil
	}

	inputs := make([]valuation.PropertyInput, 0, len(requests))
	for _, request := range requests {
		inputs = append(inputs, InputFromRequest(request))
	}
	return inputs
}
