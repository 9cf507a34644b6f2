package domain

import "math"

// OptimumPackingRatio is Rothermel's beta_op = 0.200395 * sav^-0.8189 (sav in /cm).
func OptimumPackingRatio(sav float64) float64 {
	if sav <= 0 {
		return 0
	}
	return 0.200395 * math.Pow(sav, -0.8189)
}

// MaxReactionVelocity is Rothermel eq. 36 in /min.
func MaxReactionVelocity(sav float64) float64 {
	if sav <= 0 {
		return 0
	}
	return 1 / (0.0591 + 2.926*math.Pow(sav, -1.5))
}

// OptimumReactionVelocity is Rothermel eq. 38: the maximum velocity scaled by
// the relative packing ratio. It peaks at betaRatio == 1.
func OptimumReactionVelocity(maxVelocity, sav, betaRatio float64) float64 {
	if sav <= 0 || betaRatio <= 0 {
		return 0
	}
	a := 8.9033 * math.Pow(sav, -0.7913)
	return maxVelocity * math.Pow(betaRatio, a) * math.Exp(a*(1-betaRatio))
}

// MoistureDamping is the SPITFIRE moisture damping coefficient. The result is
// in [0, 1], non-increasing in moisture, and exactly 0 once moisture reaches
// the moisture of extinction.
func MoistureDamping(moisture, extinction float64) float64 {
	if extinction <= 0 || moisture >= extinction {
		return 0
	}
	r := math.Max(0, moisture/extinction)
	eta := 1 - 2.59*r + 5.11*r*r - 3.52*r*r*r
	return math.Min(1, math.Max(0, eta))
}

// MineralDamping is Rothermel eq. 30 capped at 1.
func MineralDamping(effectiveMineral float64) float64 {
	if effectiveMineral <= 0 {
		return 1
	}
	return math.Min(1, 0.174*math.Pow(effectiveMineral, -0.19))
}

// HeatOfPreignition is Q_ig in kJ/kg for fuel at the given moisture.
func HeatOfPreignition(moisture float64, c PreignitionCoefficients) float64 {
	return c.DryHeat + c.MoistureHeat*moisture
}

// EffectiveHeatingNumber is exp(-4.528 / sav).
func EffectiveHeatingNumber(sav float64) float64 {
	if sav <= 0 {
		return 0
	}
	return math.Exp(-4.528 / sav)
}

// WindFactor is Rothermel's phi_w for wind speed in m/min. It is zero in
// calm conditions and increases with wind.
func WindFactor(wind, sav, betaRatio float64, c WindCoefficients) float64 {
	if wind <= 0 || sav <= 0 || betaRatio <= 0 {
		return 0
	}
	b := c.BCoefficient * math.Pow(sav, c.BExponent)
	cc := c.CCoefficient * math.Exp(-c.CDecay*math.Pow(sav, c.CExponent))
	e := c.ECoefficient * math.Exp(-c.EDecay*sav)
	return cc * math.Pow(3.281*wind, b) * math.Pow(betaRatio, -e)
}

// PropagatingFlux is Rothermel eq. 42: the share of reaction intensity that
// heats adjacent fuel.
func PropagatingFlux(beta, sav float64) float64 {
	return math.Exp((0.792+3.7597*math.Sqrt(sav))*(beta+0.1)) / (192 + 7.9095*sav)
}

// ForwardRateOfSpread is Rothermel eq. 52 in m/min. It is zero when the
// heat sink term vanishes.
func ForwardRateOfSpread(reactionIntensity, flux, windFactor, bulkDensity, heatingNumber, preignition float64) float64 {
	if bulkDensity <= 0 || heatingNumber <= 0 || preignition <= 0 || reactionIntensity <= 0 {
		return 0
	}
	return reactionIntensity * flux * (1 + windFactor) / (bulkDensity * heatingNumber * preignition)
}

// BackwardRateOfSpread decays the forward spread with wind speed (m/min).
func BackwardRateOfSpread(forward, wind, decay float64) float64 {
	return forward * math.Exp(-decay*wind)
}

// FireDuration is Thonicke et al. (2010) eq. 14 in minutes.
func FireDuration(fdi, maxDuration, slope float64) float64 {
	return (maxDuration + 1) / (1 + maxDuration*math.Exp(slope*fdi))
}

// LengthToBreadth is the ellipse ratio for effective wind in m/min. Treed
// patches above threshold use the forest curve.
func LengthToBreadth(effectiveWind, treeFraction, threshold float64) float64 {
	kmh := effectiveWind / 1000 * 60
	if kmh < 1 {
		return 1
	}
	if treeFraction > threshold {
		return 1 + 8.729*math.Pow(1-math.Exp(-0.03*kmh), 2.155)
	}
	return 1.1 * math.Pow(kmh, 0.464)
}

// FireSize is the elliptical area (m2) burnt by a single fire.
func FireSize(lengthToBreadth, forward, backward, duration float64) float64 {
	if lengthToBreadth <= 0 {
		return 0
	}
	d := (forward + backward) * duration
	return math.Pi / (4 * lengthToBreadth) * d * d
}

// AreaBurnt is fire size scaled by ignitions and fire danger.
func AreaBurnt(size, ignitions, fdi float64) float64 {
	return size * ignitions * fdi
}

// SurfaceIntensity is Byram's intensity in kW/m from heat content (kJ/kg),
// consumed fuel (kg/m2), and spread rate (m/min).
func SurfaceIntensity(heatContent, consumed, ros float64) float64 {
	return heatContent * consumed * ros / 60
}

// ScorchHeight is in metres for intensity in kW/m.
func ScorchHeight(alpha, intensity float64) float64 {
	if intensity <= 0 {
		return 0
	}
	return alpha * math.Pow(intensity, 0.667)
}

// CrownFractionBurnt is the share of crown depth below the scorch height.
func CrownFractionBurnt(scorchHeight, treeHeight, crownDepth float64) float64 {
	if crownDepth <= 0 {
		return 0
	}
	return clamp01((scorchHeight - treeHeight + crownDepth) / crownDepth)
}

// BarkThickness is in cm for dbh in cm.
func BarkThickness(scalar, dbh float64) float64 { return scalar * dbh }

// CriticalResidenceTime is the time (min) to kill the cambium.
func CriticalResidenceTime(barkThickness float64) float64 {
	return 2.9 * barkThickness * barkThickness
}

// CambialMortality is the probability of cambial kill given the fire
// residence time tauL (min).
func CambialMortality(barkScalar, dbh, tauL float64) float64 {
	tauC := CriticalResidenceTime(BarkThickness(barkScalar, dbh))
	if tauC <= 0 {
		return 1
	}
	r := tauL / tauC
	switch {
	case r >= 2:
		return 1
	case r > 0.22:
		return 0.563*r - 0.125
	default:
		return 0
	}
}

// CrownFireMortality is crown_kill * fraction^3 clamped to [0, 1].
func CrownFireMortality(crownKill, fractionCrownBurnt float64) float64 {
	return clamp01(crownKill * math.Pow(fractionCrownBurnt, 3))
}

// TotalMortality combines independent crown and cambial kill.
func TotalMortality(crown, cambial float64) float64 {
	if crown >= 1 || cambial >= 1 {
		return 1
	}
	return clamp01(crown + cambial - crown*cambial)
}

func clamp01(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}
