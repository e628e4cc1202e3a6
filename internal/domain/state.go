package domain

// FormState is what a form shows inline after a failed submission.
type FormState struct {
	Errors  map[string][]string `json:"errors,omitempty"`
	Message string              `json:"message,omitempty"`
}

// AddError appends msg to the ordered messages of field.
func (s *FormState) AddError(field, msg string) {
	if s.Errors == nil {
		s.Errors = map[string][]string{}
	}
	s.Errors[field] = append(s.Errors[field], msg)
}

func (s *FormState) HasErrors() bool {
	return len(s.Errors) > 0
}
