package model

import "time"

// MedicationProfile holds phase boundaries as offsets from dose time.
type MedicationProfile struct {
	Name   string
	Type   string
	Treats string

	RampUp     time.Duration
	HalfLife   time.Duration
	PeakPeriod time.Duration

	PeakEnd             time.Duration
	PostPeakMediumStart time.Duration
	PostPeakMediumEnd   time.Duration
	PostPeakEasyStart   time.Duration
	PostPeakEasyEnd     time.Duration
}

const (
	DefaultMedicationType = "stimulant"
	DefaultTreats         = "ADD/ADHD"
)
