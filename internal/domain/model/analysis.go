package model

import (
	"errors"
	"fmt"
)

// ErrJoinDateRequired is returned when an analysis is requested without an
// enrollment date.
var ErrJoinDateRequired = errors.New("join date is required")

// AnalysisRequest carries the user-entered enrollment date verbatim. No
// timezone or format normalization is applied on the client.
type AnalysisRequest struct {
	JoinDate string
}

// Validate reports whether the request may be sent. Only an empty date is
// rejected; anything else is left for the service to judge.
func (r AnalysisRequest) Validate() error {
	if r.JoinDate == "" {
		return ErrJoinDateRequired
	}
	return nil
}

// AnalysisResult is the generation classification returned by the remote
// service. It is rendered exactly once and never modified.
type AnalysisResult struct {
	Generation     int
	GenerationName string
	Explanation    string
}

// Headline returns the badge title shown above the generation name, e.g. "2세대 실손".
func (r AnalysisResult) Headline() string {
	return fmt.Sprintf("%d세대 실손", r.Generation)
}
