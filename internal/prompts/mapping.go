package prompts

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/lawfinder/pkg/query"
	"github.com/JaimeStill/lawfinder/pkg/repository"
)

const columns = "id, name, stage, instructions, description, active, updated_at"

var projection = query.
	NewProjectionMap("public", "prompts", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("stage", "Stage").
	Project("instructions", "Instructions").
	Project("description", "Description").
	Project("active", "Active").
	Project("updated_at", "UpdatedAt")

var listOrder = []query.SortField{
	{Field: "Stage"},
	{Field: "Active", Descending: true},
	{Field: "Name"},
}

// Filters narrows prompt listings. Nil fields are ignored.
type Filters struct {
	Stage  *Stage  `json:"stage,omitempty"`
	Name   *string `json:"name,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// Apply adds the filter conditions to b.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Stage", f.Stage).
		WhereContains("Name", f.Name).
		WhereEquals("Active", f.Active)
}

// FiltersFromQuery reads stage, name and active query parameters. An unknown
// stage is an error; an unparsable active flag is ignored.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if s := values.Get("stage"); s != "" {
		stage, err := ParseStage(s)
		if err != nil {
			return Filters{}, err
		}
		f.Stage = &stage
	}
	if n := values.Get("name"); n != "" {
		f.Name = &n
	}
	if v, err := strconv.ParseBool(values.Get("active")); err == nil {
		f.Active = &v
	}

	return f, nil
}

func scanPrompt(s repository.Scanner) (Prompt, error) {
	var p Prompt
	err := s.Scan(&p.ID, &p.Name, &p.Stage, &p.Instructions, &p.Description, &p.Active, &p.UpdatedAt)
	return p, err
}
