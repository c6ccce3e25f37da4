package pipeline

// ResolveSources determines the ordered set of source identifiers for this
// invocation. Explicit command arguments win and the configured list is
// ignored; otherwise the configured list is used verbatim.
func ResolveSources(args, configured []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(configured) > 0 {
		return configured, nil
	}
	return nil, ErrNoSources
}
