// Package domain implements the SPITFIRE surface fire-behavior model
// (Thonicke et al. 2010) built on Rothermel's (1972) spread equations.
//
// # Units
//
//	Fuel load:            kg dry biomass / m2 (host pools arrive as kgC/m2
//	                      and are divided by the carbon fraction, 0.45)
//	Surface-area-to-volume ratio (SAV): /cm
//	Moisture:             m3/m3 (fraction)
//	Wind speed:           m/min
//	Reaction intensity:   kJ/m2/min
//	Rate of spread:       m/min
//	Fireline intensity:   kW/m
//
// # Fuel
//
// Six fuel categories follow SPITFIRE: twigs, small branches, large branches,
// trunks, dead leaves and live grass. Every category shares one record shape
// ([FuelType]) with a dead/live [Condition] discriminant. Trunks are tracked
// and consumed but excluded from the spreading fuel bed.
//
// # Fire weather
//
// [NesterovFireWeather] accumulates the Nesterov index once per calendar day:
//
//	NI += max(0, T) * max(0, T - Td)   when precipitation < threshold
//	NI  = 0                            when precipitation >= threshold
//
// Dewpoint is derived from relative humidity with the Magnus form of
// Lawrence (2005) when not observed. The index maps to danger classes
// (none, low, moderate, high, extreme) at 300, 1000, 4000 and 10000 by
// default, and to a fire danger index FDI = 1 - exp(-alpha * NI).
//
// # Fire behavior
//
// [Evaluate] is the pure entry point. For the load-weighted bed it computes
//
//	I_R = Gamma' * h * eta_s * sum(W_n * eta_M)   (dead and live separately)
//	R   = I_R * xi * (1 + phi_w) / (rho_b * epsilon * Q_ig)
//	I   = I_R * R * t_r / 60,   t_r = 12.598 / sigma   (Anderson 1969)
//
// Moisture damping is exactly zero at or above the moisture of extinction,
// in which case spread and intensity are zero and no error is returned.
//
// [Patch] chains the pieces for a host model's daily step: fire weather,
// fuel moisture from the index, spread, consumption, fire shape and area.
package domain
