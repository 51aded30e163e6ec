package runs

import (
	"encoding/json"
	"net/url"

	"github.com/JaimeStill/lawfinder/pkg/query"
	"github.com/JaimeStill/lawfinder/pkg/repository"
)

const regionsExpr = `(SELECT COALESCE(json_agg(g.name ORDER BY g.name), '[]'::json)
	FROM public.run_regions rr JOIN public.regions g ON g.id = rr.region_id
	WHERE rr.run_id = r.id)`

const regulationsExpr = `(SELECT COALESCE(json_agg(g.name ORDER BY g.name), '[]'::json)
	FROM public.run_regulations rg JOIN public.regulations g ON g.id = rg.regulation_id
	WHERE rg.run_id = r.id)`

var projection = query.
	NewProjectionMap("public", "feature_runs", "r").
	Project("id", "ID").
	Project("run_id", "RunID").
	Project("run_time", "RunTime").
	Project("feature_name", "FeatureName").
	Project("description", "Description").
	Project("index_id", "IndexID").
	Project("risk_score", "RiskScore").
	Project("risk_level", "RiskLevel").
	Project("rationale", "Rationale").
	ProjectExpr(regionsExpr, "Regions").
	ProjectExpr(regulationsExpr, "Regulations")

var defaultSort = query.SortField{
	Field:      "RunTime",
	Descending: true,
}

// Filters contains optional filtering criteria for run queries.
// FeatureName uses case-insensitive contains matching; RiskLevel is exact;
// Region and Regulation match any linked name exactly.
type Filters struct {
	FeatureName *string `json:"feature_name,omitempty"`
	RiskLevel   *string `json:"risk_level,omitempty"`
	Region      *string `json:"region,omitempty"`
	Regulation  *string `json:"regulation,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("FeatureName", f.FeatureName).
		WhereEquals("RiskLevel", f.RiskLevel).
		WhereJSONHas("Regions", f.Region).
		WhereJSONHas("Regulations", f.Regulation)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("feature_name"); v != "" {
		f.FeatureName = &v
	}
	if v := values.Get("risk_level"); v != "" {
		f.RiskLevel = &v
	}
	if v := values.Get("region"); v != "" {
		f.Region = &v
	}
	if v := values.Get("regulation"); v != "" {
		f.Regulation = &v
	}

	return f
}

func scanRun(s repository.Scanner) (Run, error) {
	var (
		r           Run
		regions     []byte
		regulations []byte
	)
	err := s.Scan(
		&r.ID,
		&r.RunID,
		&r.RunTime,
		&r.FeatureName,
		&r.Description,
		&r.IndexID,
		&r.RiskScore,
		&r.RiskLevel,
		&r.Rationale,
		&regions,
		&regulations,
	)
	if err != nil {
		return r, err
	}

	if err := decodeNames(regions, &r.Regions); err != nil {
		return r, err
	}
	if err := decodeNames(regulations, &r.Regulations); err != nil {
		return r, err
	}
	return r, nil
}

func decodeNames(data []byte, dst *[]string) error {
	*dst = []string{}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}
