package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaCUE string

// parseCUE validates the "sweep" struct against #Sweep and decodes it onto f.
// Fields absent from the struct leave f untouched.
func parseCUE(path string, data []byte, f *File) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %s", cueerrors.Details(err, nil))
	}
	def := schema.LookupPath(cue.ParsePath("#Sweep"))

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return fmt.Errorf("compile CUE: %s", cueerrors.Details(err, nil))
	}

	sweepVal := v.LookupPath(cue.ParsePath("sweep"))
	if !sweepVal.Exists() {
		return fmt.Errorf("no top-level sweep struct")
	}

	unified := def.Unify(sweepVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid sweep: %s", cueerrors.Details(err, nil))
	}

	// Value.Decode fills a fresh struct; JSON lets present fields overwrite
	// the defaults and keeps the rest.
	raw, err := unified.MarshalJSON()
	if err != nil {
		return fmt.Errorf("decode sweep: %s", cueerrors.Details(err, nil))
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(f); err != nil {
		return fmt.Errorf("decode sweep: %w", err)
	}
	return nil
}

// UnmarshalJSON replaces the spec instead of merging into it.
func (s *TemperatureSpec) UnmarshalJSON(data []byte) error {
	var fields temperatureFields
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fields); err != nil {
		return err
	}
	*s = TemperatureSpec(fields)
	return nil
}
