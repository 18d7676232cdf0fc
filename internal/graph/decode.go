package graph

import (
	"github.com/Baaaki/restaurant-directory/internal/apperr"
	"github.com/go-viper/mapstructure/v2"
)

// decode copies a GraphQL argument map into a validation input using the
// same json names the validator reports.
func decode(args interface{}, out interface{}) error {
	if args == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return apperr.StoreUnavailable(err)
	}

	if err := decoder.Decode(args); err != nil {
		e := apperr.InvalidInput("", "input is malformed")
		e.Err = err
		return e
	}
	return nil
}
