package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/orbitarch/orbitarch-service-go/pkg/predict"
)

// number accepts a JSON number or a string holding one.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("%q is not a number", s)
		}
		*n = number(v)
		return nil
	case bytes.Equal(data, []byte("null")):
		return errors.New("null is not a number")
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("%s is not a number", data)
		}
		*n = number(v)
		return nil
	}
}

type predictBody struct {
	SemiMajorAxis number `json:"semiMajorAxis"`
	Eccentricity  number `json:"eccentricity"`
	Inclination   number `json:"inclination"`
}

// decodeRequest reads a prediction request. Missing fields default to zero.
func decodeRequest(r io.Reader) (predict.Request, error) {
	var body predictBody
	dec := json.NewDecoder(r)
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return predict.Request{}, &predict.ValidationError{
				Err: errors.New("request body must be a JSON object"),
			}
		}
		return predict.Request{}, &predict.ValidationError{
			Err: fmt.Errorf("malformed request: %w", err),
		}
	}
	return predict.Request{
		SemiMajorAxis: float64(body.SemiMajorAxis),
		Eccentricity:  float64(body.Eccentricity),
		Inclination:   float64(body.Inclination),
	}, nil
}
