// Package seed holds the delivery areas the seeder creates.
package seed

import (
	"fmt"

	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/domain"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
)

var deliveryAreas = []domain.AreaSeed{
	{Name: "سمنود", DeliveryFee: 20},
	{Name: "جراح", DeliveryFee: 40},
	{Name: "الناصريه", DeliveryFee: 35},
	{Name: "ابوصير", DeliveryFee: 50},
	{Name: "بنا ابو صير", DeliveryFee: 75},
	{Name: "ميت حبيب", DeliveryFee: 85},
	{Name: "ميت بدر", DeliveryFee: 95},
	{Name: "العجزيه", DeliveryFee: 120},
	{Name: "المحله", DeliveryFee: 75},
	{Name: "ابو علي", DeliveryFee: 50},
	{Name: "الراهبين", DeliveryFee: 40},
	{Name: "منيا", DeliveryFee: 25},
	{Name: "اجا", DeliveryFee: 55},
	{Name: "الديرس", DeliveryFee: 55},
	{Name: "نوسه البحر", DeliveryFee: 90},
	{Name: "نوسه الغيط", DeliveryFee: 90},
	{Name: "كفر التعابنيه", DeliveryFee: 40},
	{Name: "محله خلف", DeliveryFee: 40},
	{Name: "الناوية", DeliveryFee: 50},
	{Name: "عساس", DeliveryFee: 60},
	{Name: "بهبيت", DeliveryFee: 75},
	{Name: "طليمه", DeliveryFee: 75},
	{Name: "كفر حسان", DeliveryFee: 70},
	{Name: "كفر العرب", DeliveryFee: 130},
	{Name: "الجمزتين", DeliveryFee: 25},
	{Name: "منيا سمنود", DeliveryFee: 25},
	{Name: "سنبخت", DeliveryFee: 55},
}

// Default returns a copy of the built-in delivery areas in creation order.
func Default() []domain.AreaSeed {
	return append([]domain.AreaSeed(nil), deliveryAreas...)
}

// WithDefaults applies the default estimated time to every seed lacking one.
func WithDefaults(seeds []domain.AreaSeed, defaultEstimatedTime int) []domain.AreaSeed {
	return lo.Map(seeds, func(s domain.AreaSeed, _ int) domain.AreaSeed {
		return s.WithDefaults(defaultEstimatedTime)
	})
}

func Validate(seeds []domain.AreaSeed) error {
	var result *multierror.Error
	for i, s := range seeds {
		if err := s.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("seed[%d] %q: %w", i, s.Name, err))
		}
	}
	return result.ErrorOrNil()
}

// Duplicates returns the names whose normalized form appears more than once.
// The second create of such a name is expected to come back as already
// existing.
func Duplicates(seeds []domain.AreaSeed) []string {
	return lo.Map(
		lo.FindDuplicatesBy(seeds, domain.AreaSeed.Key),
		func(s domain.AreaSeed, _ int) string { return s.Name },
	)
}
