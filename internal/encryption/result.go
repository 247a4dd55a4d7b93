package encryption

import "errors"

// Result represents the outcome of processing a single file.
type Result struct {
	// Input file path
	Input string

	// Output file path
	Output string

	// Output file size in bytes
	OutputSize int64

	// Any error that occurred during processing
	Error error
}

// Report collects the results of a batch run, in completion order.
type Report struct {
	Results []Result

	Processed int
	Errored   int
	TotalSize int64
}

func (r *Report) add(result Result) {
	r.Results = append(r.Results, result)

	if result.Error != nil {
		r.Errored++

		return
	}

	r.Processed++
	r.TotalSize += result.OutputSize
}

// Err joins the errors of all failed files, or returns nil.
func (r *Report) Err() error {
	errs := make([]error, 0, r.Errored)

	for _, result := range r.Results {
		if result.Error != nil {
			errs = append(errs, result.Error)
		}
	}

	return errors.Join(errs...)
}
