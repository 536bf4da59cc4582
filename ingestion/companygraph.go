package ingestion

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/quantgraph/memcore/model"
)

// CompanyGraphOptions configures the sector/industry correlation pass
// (spec §4.9).
type CompanyGraphOptions struct {
	LookbackDays  int
	MinCorrelation float64
}

// DefaultCompanyGraphOptions mirrors the spec default.
func DefaultCompanyGraphOptions() CompanyGraphOptions {
	return CompanyGraphOptions{LookbackDays: 90, MinCorrelation: 0.7}
}

// ReturnSeries is one company's daily return series over the lookback
// window, aligned index-for-index with every other company's series.
type ReturnSeries struct {
	Symbol  string
	Returns []float64
}

// BuildCompanyCorrelationEdges groups companies by sector and by industry,
// computes the Pearson return correlation for every ordered pair within
// each group, and emits a RELATED_TO edge for pairs with |ρ| at or above
// MinCorrelation, weighted by |ρ| (spec §4.9).
func BuildCompanyCorrelationEdges(companies []model.Company, returns map[string]ReturnSeries, opts CompanyGraphOptions) []model.Edge {
	var edges []model.Edge
	seenPairs := make(map[string]bool)

	emit := func(group []model.Company) {
		for i := 0; i < len(group); i++ {
			for j := 0; j < len(group); j++ {
				if i == j {
					continue
				}
				a, b := group[i], group[j]
				pairKey := a.Symbol + "\x00" + b.Symbol
				if seenPairs[pairKey] {
					continue
				}
				seenPairs[pairKey] = true

				ra, okA := returns[a.Symbol]
				rb, okB := returns[b.Symbol]
				if !okA || !okB || len(ra.Returns) != len(rb.Returns) || len(ra.Returns) == 0 {
					continue
				}

				rho := stat.Correlation(ra.Returns, rb.Returns, nil)
				if math.IsNaN(rho) { // constant series have undefined correlation
					continue
				}
				if absF(rho) < opts.MinCorrelation {
					continue
				}
				weight := model.Clamp01(absF(rho))
				edges = append(edges, model.Edge{
					SourceID: a.Symbol,
					TargetID: b.Symbol,
					Type:     model.EdgeRelatedTo,
					Weight:   &weight,
				})
			}
		}
	}

	bySector := make(map[string][]model.Company)
	byIndustry := make(map[string][]model.Company)
	for _, c := range companies {
		bySector[c.Sector] = append(bySector[c.Sector], c)
		byIndustry[c.Industry] = append(byIndustry[c.Industry], c)
	}
	for _, group := range bySector {
		emit(group)
	}
	for _, group := range byIndustry {
		emit(group)
	}

	return edges
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// SupplyChainLink is one externally sourced dependency relationship
// between two companies.
type SupplyChainLink struct {
	SourceSymbol   string
	TargetSymbol   string
	DependencyType model.DependencyType
	Strength       float64
}

// BuildSupplyChainEdges converts externally sourced supply-chain links
// into DEPENDS_ON edges (spec §4.9).
func BuildSupplyChainEdges(links []SupplyChainLink) []model.Edge {
	edges := make([]model.Edge, 0, len(links))
	for _, l := range links {
		weight := model.Clamp01(l.Strength)
		edges = append(edges, model.Edge{
			SourceID: l.SourceSymbol,
			TargetID: l.TargetSymbol,
			Type:     model.EdgeDependsOn,
			Weight:   &weight,
			Props: map[string]model.Scalar{
				"dependency_type": model.StringScalar(string(l.DependencyType)),
			},
		})
	}
	return edges
}
