package feature

// ClassSample is the sample restricted to rows whose target equals Label.
type ClassSample struct {
	Label  string `json:"label"`
	Sample Sample `json:"-"`
}

// Stacked maps target-class labels to per-class samples. Classes keep
// discovery order.
type Stacked struct {
	Target  string        `json:"target"`
	Classes []ClassSample `json:"classes"`
}

// Labels returns class labels in discovery order.
func (s *Stacked) Labels() []string {
	if s == nil {
		return nil
	}
	labels := make([]string, 0, len(s.Classes))
	for _, c := range s.Classes {
		labels = append(labels, c.Label)
	}
	return labels
}

// Get returns the sample of one class.
func (s *Stacked) Get(label string) (Sample, bool) {
	if s == nil {
		return nil, false
	}
	for _, c := range s.Classes {
		if c.Label == label {
			return c.Sample, true
		}
	}
	return nil, false
}

// IsEmpty reports whether every class sample is empty.
func (s *Stacked) IsEmpty() bool {
	if s == nil {
		return true
	}
	for _, c := range s.Classes {
		if c.Sample != nil && !c.Sample.IsEmpty() {
			return false
		}
	}
	return true
}

// Map applies fn to every class sample and returns a new Stacked.
func (s *Stacked) Map(fn func(Sample) Sample) *Stacked {
	if s == nil {
		return nil
	}
	out := &Stacked{Target: s.Target, Classes: make([]ClassSample, 0, len(s.Classes))}
	for _, c := range s.Classes {
		out.Classes = append(out.Classes, ClassSample{Label: c.Label, Sample: fn(c.Sample)})
	}
	return out
}
