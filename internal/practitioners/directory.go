// Package practitioners serves practitioner profiles and the practitioner
// dashboard.
package practitioners

import (
	"context"
	"errors"
	"strings"
)

// ErrPractitionerNotFound is returned for a blank or unknown id.
var ErrPractitionerNotFound = errors.New("practitioner not found")

// Practitioner is a public practitioner profile.
type Practitioner struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Specialization string  `json:"specialization"`
	Experience     int     `json:"experience"`
	Rating         float64 `json:"rating"`
	Reviews        int     `json:"reviews"`
}

// Directory looks up practitioner profiles.
type Directory interface {
	Get(ctx context.Context, id string) (Practitioner, error)
}

// StaticDirectory answers every id with the clinic's single practitioner.
type StaticDirectory struct {
	profile Practitioner
}

// NewStaticDirectory creates a directory for the named practitioner.
func NewStaticDirectory(name string) *StaticDirectory {
	if name == "" {
		name = "Dr. Sharma"
	}
	return &StaticDirectory{profile: Practitioner{
		Name:           name,
		Specialization: "Panchakarma",
		Experience:     15,
		Rating:         4.8,
		Reviews:        42,
	}}
}

// Get echoes id onto the clinic profile.
func (d *StaticDirectory) Get(ctx context.Context, id string) (Practitioner, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Practitioner{}, ErrPractitionerNotFound
	}
	p := d.profile
	p.ID = id
	return p, nil
}
