// Package catalog holds the static pricing tables. Tables are fixed data
// loaded at process start and never mutated; a label absent from the active
// table is excluded from quoting rather than treated as an error, since the
// detector emits classes that are not sellable items.
package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/subinlebow/quotegen-backend/pkg/enums"
)

const coverSuffix = "-cover"

var (
	standardSeatPrice = decimal.NewFromInt(450)
	standardSidePrice = decimal.NewFromInt(225)
	lovesoftSeatPrice = decimal.NewFromInt(520)
	lovesoftSidePrice = decimal.NewFromInt(260)

	velvetSeatCoverPrice   = decimal.NewFromInt(315)
	velvetSideCoverPrice   = decimal.NewFromInt(105)
	chenilleSeatCoverPrice = decimal.NewFromInt(240)
	chenilleSideCoverPrice = decimal.NewFromInt(80)
)

var seatLabels = []string{"standard-seat", "deep-seat", "wedge-seat"}

var sideLabels = []string{
	"standard-side",
	"deep-side",
	"angled-side",
	"angled-deep-side",
	"rollarm-side",
}

var priceTables = map[enums.PriceOption]map[string]decimal.Decimal{
	enums.PriceOptionStandard: buildPriceTable(standardSeatPrice, standardSidePrice),
	enums.PriceOptionLovesoft: buildPriceTable(lovesoftSeatPrice, lovesoftSidePrice),
}

var coverTables = map[enums.FabricOption]map[string]decimal.Decimal{
	enums.FabricOptionVelvet:   buildCoverTable(velvetSeatCoverPrice, velvetSideCoverPrice),
	enums.FabricOptionChenille: buildCoverTable(chenilleSeatCoverPrice, chenilleSideCoverPrice),
}

func buildPriceTable(seat, side decimal.Decimal) map[string]decimal.Decimal {
	table := make(map[string]decimal.Decimal, len(seatLabels)+len(sideLabels))
	for _, label := range seatLabels {
		table[label] = seat
	}
	for _, label := range sideLabels {
		table[label] = side
	}
	return table
}

func buildCoverTable(seat, side decimal.Decimal) map[string]decimal.Decimal {
	table := make(map[string]decimal.Decimal, len(seatLabels)+len(sideLabels))
	for _, label := range seatLabels {
		table[label+coverSuffix] = seat
	}
	for _, label := range sideLabels {
		table[label+coverSuffix] = side
	}
	return table
}

// PriceFor returns the unit price for an item label under the given tier.
// The second return is false for labels the tier does not sell.
func PriceFor(label string, option enums.PriceOption) (decimal.Decimal, bool) {
	table, ok := priceTables[option]
	if !ok {
		return decimal.Zero, false
	}
	price, ok := table[label]
	return price, ok
}

// CoverLabelFor returns the cover label implied by a priceable item label.
// Every sellable item has exactly one associated cover concept.
func CoverLabelFor(label string) (string, bool) {
	for _, table := range priceTables {
		if _, ok := table[label]; ok {
			return label + coverSuffix, true
		}
	}
	return "", false
}

// CoverPriceFor returns the unit price for a cover label under the given fabric.
func CoverPriceFor(coverLabel string, fabric enums.FabricOption) (decimal.Decimal, bool) {
	table, ok := coverTables[fabric]
	if !ok {
		return decimal.Zero, false
	}
	price, ok := table[coverLabel]
	return price, ok
}
