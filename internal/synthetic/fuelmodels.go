// Package synthetic provides canonical fuel models, weather streams and
// reference scenarios for exercising the fire model without a host
// vegetation model.
package synthetic

import (
	"fmt"

	"github.com/couchcryptid/spitfire-etl/internal/domain"
)

const (
	usTonsToKg   = 907.185
	acresToM2    = 4046.86
	feetToMeters = 0.3048

	// TonsPerAcreToKgC converts US tons/acre of biomass to kgC/m2.
	TonsPerAcreToKgC = usTonsToKg / acresToM2 * 0.45
)

// FuelModel is a standard surface fuel model. Loadings are kgC/m2 and depth
// is in metres.
type FuelModel struct {
	Index          int     `json:"index" csv:"index"`
	Carrier        string  `json:"carrier" csv:"carrier"`
	Code           string  `json:"code" csv:"code"`
	Name           string  `json:"name" csv:"name"`
	WindAdjustment float64 `json:"wind_adjustment" csv:"wind_adjustment"`
	OneHour        float64 `json:"one_hour" csv:"one_hour"`
	TenHour        float64 `json:"ten_hour" csv:"ten_hour"`
	HundredHour    float64 `json:"hundred_hour" csv:"hundred_hour"`
	LiveHerb       float64 `json:"live_herb" csv:"live_herb"`
	LiveWoody      float64 `json:"live_woody" csv:"live_woody"`
	Depth          float64 `json:"depth" csv:"depth"`
}

// Litter maps the model onto daily litter pools. Leaves take the 1-h load,
// twigs the 10-h load, and the 100-h load is split between small and large
// branches in proportion to the coarse woody debris fractions in p.
func (m FuelModel) Litter(p *domain.FireParameters) domain.Litter {
	cwd := p.Coefficients().Litter.CWDFractions
	small := cwd[1] / (cwd[1] + cwd[2])
	return domain.Litter{
		Leaves:        m.OneHour,
		Twigs:         m.TenHour,
		SmallBranches: m.HundredHour * small,
		LargeBranches: m.HundredHour * (1 - small),
		LiveGrass:     m.LiveHerb,
	}
}

// row holds a model as published, in US tons/acre and feet.
type row struct {
	index    int
	carrier  string
	name     string
	windAdj  float64
	hr1      float64
	hr10     float64
	hr100    float64
	liveHerb float64
	liveWood float64
	depth    float64
}

func (r row) model() FuelModel {
	return FuelModel{
		Index:          r.index,
		Carrier:        r.carrier,
		Code:           fmt.Sprintf("%s%d", r.carrier, r.index),
		Name:           r.name,
		WindAdjustment: r.windAdj,
		OneHour:        r.hr1 * TonsPerAcreToKgC,
		TenHour:        r.hr10 * TonsPerAcreToKgC,
		HundredHour:    r.hr100 * TonsPerAcreToKgC,
		LiveHerb:       r.liveHerb * TonsPerAcreToKgC,
		LiveWoody:      r.liveWood * TonsPerAcreToKgC,
		Depth:          r.depth * feetToMeters,
	}
}

// Anderson (1982) 1-13 followed by Scott & Burgan (2005) 101-204.
var published = []row{
	{1, "GR", "short grass", 0.36, 0.7, 0, 0, 0, 0, 1.0},
	{2, "GR", "timber and grass understory", 0.36, 2.0, 1.0, 0.5, 0.5, 0, 1.0},
	{3, "GR", "tall grass", 0.44, 3.0, 0, 0, 0, 0, 2.5},
	{4, "SH", "chaparral", 0.55, 5.0, 4.0, 2.0, 0, 5.0, 6.0},
	{5, "SH", "brush", 0.42, 1.0, 0.5, 0, 0, 2.0, 2.0},
	{6, "SH", "dormant brush", 0.44, 1.5, 2.5, 2.0, 0, 0, 2.5},
	{7, "SH", "southern rough", 0.44, 1.1, 1.9, 1.0, 0, 0.4, 2.5},
	{8, "TL", "compact timber litter", 0.28, 1.5, 1.0, 2.5, 0, 0, 0.2},
	{9, "TL", "hardwood litter", 0.28, 2.9, 0.4, 0.2, 0, 0, 0.2},
	{10, "TU", "timber and litter understorey", 0.46, 3.0, 2.0, 5.0, 0, 2.0, 1.0},
	{11, "SB", "light slash", 0.36, 1.5, 4.5, 5.5, 0, 0, 1.0},
	{12, "SB", "medium slash", 0.43, 4.0, 14.0, 16.5, 0, 0, 2.3},
	{13, "SB", "heavy slash", 0.46, 7.0, 23.0, 28.1, 0, 0, 3.0},
	{101, "GR", "short, sparse dry climate grass", 0.31, 0.1, 0, 0, 0.3, 0, 0.4},
	{102, "GR", "low load dry climate grass", 0.36, 0.1, 0, 0, 1.0, 0, 1.0},
	{103, "GR", "low load very coarse humid climate grass", 0.42, 0.1, 0.4, 0, 1.5, 0, 2.0},
	{104, "GR", "moderate load dry climate grass", 0.42, 0.3, 0, 0, 1.9, 0, 2.0},
	{105, "GR", "low load humid climate grass", 0.39, 0.4, 0, 0, 2.5, 0, 1.5},
	{106, "GR", "moderate load humid climate grass", 0.39, 0.1, 0, 0, 3.4, 0, 1.5},
	{107, "GR", "high load dry climate grass", 0.46, 1.0, 0, 0, 5.4, 0, 3.0},
	{108, "GR", "high load humid climate grass", 0.49, 0.5, 1.0, 0, 7.3, 0, 4.0},
	{109, "GR", "very high load humid climate grass-shrub", 0.52, 1.0, 1.0, 0, 9.0, 0, 5.0},
	{121, "GS", "low load dry climate grass-shrub", 0.35, 0.2, 0, 0, 0.5, 0.7, 0.9},
	{122, "GS", "moderate load dry climate grass-shrub", 0.39, 0.5, 0.5, 0, 0.6, 1.0, 1.5},
	{123, "GS", "moderate load humid climate grass-shrub", 0.41, 0.3, 0.3, 0, 1.5, 1.3, 1.8},
	{124, "GS", "high load humid climate grass-shrub", 0.42, 1.9, 0.3, 0.1, 3.4, 7.1, 2.1},
	{141, "SH", "low load dry climate shrub", 0.36, 0.3, 0.3, 0, 0.2, 1.3, 1.0},
	{142, "SH", "moderate load dry climate shrub", 0.36, 1.4, 2.4, 0.8, 0, 3.9, 1.0},
	{143, "SH", "moderate load humid climate shrub", 0.44, 0.5, 3.0, 0, 0, 6.2, 2.4},
	{144, "SH", "low load humid climate timber-shrub", 0.46, 0.9, 1.2, 0.2, 0, 2.6, 3.0},
	{145, "SH", "high load dry climate shrub", 0.55, 3.6, 2.1, 0, 0, 2.9, 6.0},
	{146, "SH", "low load humid climate shrub", 0.42, 2.9, 1.5, 0, 0, 1.4, 2.0},
	{147, "SH", "very high load dry climate shrub", 0.55, 3.5, 5.3, 2.2, 0, 3.4, 6.0},
	{148, "SH", "high load humid climate shrub", 0.46, 2.1, 3.4, 0.9, 0, 4.4, 3.0},
	{149, "SH", "very high load humid climate shrub", 0.5, 4.5, 2.5, 0, 1.6, 7.0, 4.4},
	{161, "TU", "light load dry climate timber-grass-shrub", 0.33, 0.2, 0.9, 1.5, 0.2, 0.9, 0.6},
	{162, "TU", "moderate load humid climate timber-shrub", 0.36, 1.0, 1.8, 1.3, 0, 0.2, 1.0},
	{163, "TU", "moderate load humid climate timber-grass-shrub", 0.38, 1.1, 0.2, 0.2, 0.3, 0.7, 1.3},
	{164, "TU", "dwarf conifer with understory", 0.32, 4.5, 0, 0, 0, 2.0, 0.5},
	{165, "TU", "very high load dry climate timber-shrub", 0.33, 4.0, 4.0, 3.0, 0, 3.0, 1.0},
	{181, "TL", "low load compact conifer litter", 0.28, 1.0, 2.2, 3.6, 0, 0, 0.2},
	{182, "TL", "low load broadleaf litter", 0.28, 1.4, 2.3, 2.2, 0, 0, 0.2},
	{183, "TL", "moderate load conifer litter", 0.29, 0.5, 2.2, 2.8, 0, 0, 0.3},
	{184, "TL", "small downed logs", 0.31, 0.5, 1.5, 4.2, 0, 0, 0.4},
	{185, "TL", "high load conifer litter", 0.33, 1.2, 2.5, 4.4, 0, 0, 0.6},
	{186, "TL", "moderate load broadleaf litter", 0.29, 2.4, 1.2, 1.2, 0, 0, 0.3},
	{187, "TL", "large downed logs", 0.31, 0.3, 1.4, 8.1, 0, 0, 0.4},
	{188, "TL", "long-needle litter", 0.29, 5.0, 1.4, 1.1, 0, 0, 0.3},
	{189, "TL", "very high load broadleaf litter", 0.33, 6.7, 3.3, 4.2, 0, 0, 0.6},
	{201, "SB", "low load activity fuel", 0.36, 1.5, 3.0, 11.1, 0, 0, 1.0},
	{202, "SB", "moderate load activity fuel or low load blowdown", 0.36, 4.5, 4.3, 4.0, 0, 0, 1.0},
	{203, "SB", "high load activity fuel or moderate load blowdown", 0.38, 5.5, 2.8, 3.0, 0, 0, 1.2},
	{204, "SB", "high load blowdown", 0.45, 5.3, 3.5, 5.3, 0, 0, 2.7},
}

// Models returns every published fuel model in index order.
func Models() []FuelModel {
	out := make([]FuelModel, len(published))
	for i, r := range published {
		out[i] = r.model()
	}
	return out
}

// Lookup returns the fuel model with the given index.
func Lookup(index int) (FuelModel, error) {
	for _, r := range published {
		if r.index == index {
			return r.model(), nil
		}
	}
	return FuelModel{}, fmt.Errorf("unknown fuel model index %d", index)
}
