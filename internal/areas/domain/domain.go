package domain

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeName returns the matching key of an area name: surrounding
// whitespace trimmed and Unicode case folded.
func NormalizeName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// AreaSeed is a delivery area the seeder creates remotely. A zero
// EstimatedTime means the configured default applies.
type AreaSeed struct {
	Name          string
	DeliveryFee   float64
	EstimatedTime int
}

func (s AreaSeed) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("name is required")
	}

	if s.DeliveryFee < 0 {
		return errors.New("delivery_fee must not be negative")
	}

	if s.EstimatedTime < 0 {
		return errors.New("estimated_time must not be negative")
	}

	return nil
}

func (s AreaSeed) WithDefaults(defaultEstimatedTime int) AreaSeed {
	if s.EstimatedTime == 0 {
		s.EstimatedTime = defaultEstimatedTime
	}
	return s
}

func (s AreaSeed) Key() string {
	return NormalizeName(s.Name)
}

// RemoteArea is the server's view of a delivery area.
type RemoteArea struct {
	ID            string
	Name          string
	DeliveryFee   float64
	EstimatedTime float64
	IsActive      bool
}

func (a RemoteArea) Key() string {
	return NormalizeName(a.Name)
}

type CreateDeliveryAreaInput struct {
	Name          string
	DeliveryFee   float64
	EstimatedTime int
}

// CreateDeliveryAreaResult carries the server id of a created area. ID is
// empty when the server omitted it.
type CreateDeliveryAreaResult struct {
	ID string
}
