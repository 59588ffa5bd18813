package reorder

// Validate is the gate in front of output generation.
//
// Every input-key name must resolve; otherwise the run fails with an
// *UnresolvedError of kind "input". Output names get the same treatment
// unless cfg.OutputPolicy is OutputLenient. When both lists are broken the
// input error is reported.
func Validate(cfg Config, header []string, input, output Mapping) error {
	if len(input.Indices()) != len(cfg.InputOrder) {
		return newUnresolvedError("input", header, input)
	}

	if cfg.OutputPolicy == OutputLenient {
		return nil
	}

	if len(output.Indices()) != len(cfg.OutputOrder) {
		return newUnresolvedError("output", header, output)
	}

	return nil
}
