package planner_test

import (
	"slices"
	"testing"

	"github.com/JaimeStill/lawfinder/internal/planner"
)

func TestQueries(t *testing.T) {
	p := planner.Default()

	t.Run("utah", func(t *testing.T) {
		got := p.Queries("age gate", []string{"Utah"})
		want := []string{
			"age gate site:le.utah.gov",
			"age gate site:dcp.utah.gov",
			"age gate site:socialmedia.utah.gov",
			"age gate Utah regulation site:.gov",
			"age gate minors site:ncmec.org",
		}
		if !slices.Equal(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("unknown region gets generic query only", func(t *testing.T) {
		got := p.Queries("feed", []string{"Texas"})
		want := []string{
			"feed Texas regulation site:.gov",
			"feed minors site:ncmec.org",
		}
		if !slices.Equal(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("no regions", func(t *testing.T) {
		got := p.Queries("feed", nil)
		if len(got) != 1 || got[0] != "feed minors site:ncmec.org" {
			t.Errorf("got %v, want closing query only", got)
		}
	})

	t.Run("repeated region deduplicated", func(t *testing.T) {
		got := p.Queries("x", []string{"florida", "florida"})
		if len(got) != 4 {
			t.Errorf("len: got %d, want 4 (%v)", len(got), got)
		}
	})

	t.Run("eu aliases share sites", func(t *testing.T) {
		got := p.Queries("x", []string{"eu", "European Union"})
		want := []string{
			"x site:eur-lex.europa.eu",
			"x site:ec.europa.eu",
			"x site:op.europa.eu",
			"x eu regulation site:.gov",
			"x European Union regulation site:.gov",
			"x minors site:ncmec.org",
		}
		if !slices.Equal(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}
