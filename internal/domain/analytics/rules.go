package analytics

import (
	"math"
	"sort"
	"strings"
)

// BloodGroups lists every ABO/Rh group in display order.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

const (
	StockSufficient   = "SUFFICIENT"
	StockPartial      = "PARTIAL"
	StockInsufficient = "INSUFFICIENT"
)

const (
	SeverityCritical = "CRITICAL"
	SeveritySevere   = "SEVERE"
	SeverityModerate = "MODERATE"
)

const (
	Compatible   = "COMPATIBLE"
	Incompatible = "INCOMPATIBLE"
)

const (
	Eligible   = "ELIGIBLE"
	Ineligible = "INELIGIBLE"
)

const (
	MinDonorAge        = 18
	MaxDonorAge        = 65
	MinDonationGapDays = 56
)

// StockStatus grades available units against outstanding demand.
func StockStatus(available, needed int) string {
	switch {
	case available >= needed:
		return StockSufficient
	case available > 0:
		return StockPartial
	default:
		return StockInsufficient
	}
}

// ClassifyShortage returns the severity and size of a group's shortage.
// ok is false when available units cover the demand.
func ClassifyShortage(needed, available int) (severity string, shortage int, ok bool) {
	shortage = needed - available
	if shortage <= 0 {
		return "", 0, false
	}
	switch {
	case available == 0:
		severity = SeverityCritical
	case available < needed:
		severity = SeveritySevere
	default:
		severity = SeverityModerate
	}
	return severity, shortage, true
}

var severityRank = map[string]int{SeverityCritical: 0, SeveritySevere: 1, SeverityModerate: 2}

// SortShortages orders by severity, most severe first, then by the largest
// shortage.
func SortShortages(s []*Shortage) {
	sort.SliceStable(s, func(i, j int) bool {
		ri, rj := severityRank[s[i].Severity], severityRank[s[j].Severity]
		if ri != rj {
			return ri < rj
		}
		if s[i].ShortageUnits != s[j].ShortageUnits {
			return s[i].ShortageUnits > s[j].ShortageUnits
		}
		return s[i].BloodGroup < s[j].BloodGroup
	})
}

// CanDonate reports whether red cells of group donor can be given to a
// recipient of group recipient under ABO and Rh rules.
func CanDonate(donor, recipient string) bool {
	dABO, dRh, ok := splitGroup(donor)
	if !ok {
		return false
	}
	rABO, rRh, ok := splitGroup(recipient)
	if !ok {
		return false
	}
	if dRh == "+" && rRh == "-" {
		return false
	}
	switch dABO {
	case "O":
		return true
	case "AB":
		return rABO == "AB"
	default:
		return rABO == dABO || rABO == "AB"
	}
}

func splitGroup(g string) (abo, rh string, ok bool) {
	if len(g) < 2 {
		return "", "", false
	}
	abo, rh = g[:len(g)-1], g[len(g)-1:]
	if rh != "+" && rh != "-" {
		return "", "", false
	}
	switch abo {
	case "A", "B", "AB", "O":
		return abo, rh, true
	}
	return "", "", false
}

func AgeEligibility(age int) string {
	if age >= MinDonorAge && age <= MaxDonorAge {
		return Eligible
	}
	return Ineligible
}

// GapEligibility treats a donor who never donated as eligible.
func GapEligibility(daysSinceLast *int) string {
	if daysSinceLast == nil || *daysSinceLast >= MinDonationGapDays {
		return Eligible
	}
	return Ineligible
}

// AnnualizedVolume spreads totalVolume over the whole years between a donor's
// first and last donation. Spans under a year have no meaningful rate and
// return nil.
func AnnualizedVolume(totalVolume, spanDays int) *float64 {
	years := spanDays / 365
	if years == 0 {
		return nil
	}
	v := math.Round(float64(totalVolume)/float64(years)*100) / 100
	return &v
}

const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// ParsePeriod maps a trend granularity, falling back to month.
func ParsePeriod(s string) string {
	switch strings.ToLower(s) {
	case PeriodDay:
		return PeriodDay
	case PeriodWeek:
		return PeriodWeek
	default:
		return PeriodMonth
	}
}

// sortedGroups is BloodGroups in collation order, the order matrix rows are
// listed in.
func sortedGroups() []string {
	g := append([]string(nil), BloodGroups...)
	sort.Strings(g)
	return g
}
