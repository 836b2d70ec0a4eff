package stats

import "math"

// Rate-stat formulas. Every function returns 0 when its denominator is
// zero; a player with no opportunities is a normal state, not an error.

// BattingAverage computes H/AB
func BattingAverage(h, ab int) float64 {
	if ab == 0 {
		return 0
	}
	return float64(h) / float64(ab)
}

// OnBasePercentage computes (H+BB+HBP)/(AB+BB+HBP+SF)
func OnBasePercentage(h, bb, hbp, ab, sf int) float64 {
	denom := ab + bb + hbp + sf
	if denom == 0 {
		return 0
	}
	return float64(h+bb+hbp) / float64(denom)
}

// SluggingPercentage computes total bases over at-bats
func SluggingPercentage(h, doubles, triples, hr, ab int) float64 {
	if ab == 0 {
		return 0
	}
	singles := h - doubles - triples - hr
	totalBases := singles + 2*doubles + 3*triples + 4*hr
	return float64(totalBases) / float64(ab)
}

// OPS is on-base plus slugging
func OPS(obp, slg float64) float64 {
	return obp + slg
}

// IPToDecimal converts innings pitched from baseball notation, where the
// fractional digit counts thirds of an inning (.1 = 1/3, .2 = 2/3), to a
// true decimal value.
func IPToDecimal(ip float64) float64 {
	whole := math.Floor(ip)
	thirds := math.Round((ip - whole) * 10)
	return whole + thirds/3
}

// AddIP adds two innings-pitched values in baseball notation with correct
// thirds carry: 6.2 + 0.1 = 7.0, never 6.3.
func AddIP(a, b float64) float64 {
	thirds := ipThirds(a) + ipThirds(b)
	return float64(thirds/3) + float64(thirds%3)/10
}

// ipThirds converts baseball-notation IP to a whole number of outs recorded
func ipThirds(ip float64) int {
	whole := int(math.Floor(ip))
	frac := int(math.Round((ip - math.Floor(ip)) * 10))
	return whole*3 + frac
}

// ERA computes earned runs per nine innings
func ERA(er int, ip float64) float64 {
	dip := IPToDecimal(ip)
	if dip == 0 {
		return 0
	}
	return float64(er) * 9 / dip
}

// WHIP computes walks plus hits per inning pitched
func WHIP(bb, h int, ip float64) float64 {
	dip := IPToDecimal(ip)
	if dip == 0 {
		return 0
	}
	return float64(bb+h) / dip
}

// KPer9 computes strikeouts per nine innings
func KPer9(so int, ip float64) float64 {
	dip := IPToDecimal(ip)
	if dip == 0 {
		return 0
	}
	return float64(so) * 9 / dip
}

// BBPer9 computes walks per nine innings
func BBPer9(bb int, ip float64) float64 {
	dip := IPToDecimal(ip)
	if dip == 0 {
		return 0
	}
	return float64(bb) * 9 / dip
}

// fipConstant aligns league-average FIP with league-average ERA
const fipConstant = 3.15

// FIP computes fielding-independent pitching:
// (13*HR + 3*(BB+HBP) - 2*SO) / IP + constant
func FIP(hr, bb, hbp, so int, ip float64) float64 {
	dip := IPToDecimal(ip)
	if dip == 0 {
		return 0
	}
	return float64(13*hr+3*(bb+hbp)-2*so)/dip + fipConstant
}
